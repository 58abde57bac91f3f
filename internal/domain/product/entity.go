package product

import "time"

// Product là một listing sách của một shop. StockQuantity không bao giờ
// âm; checkout từ chối mọi lần mua vượt quá tồn kho.
type Product struct {
	ID            string
	ShopID        string
	Title         string
	Author        string
	Category      string
	Description   string
	Image         string
	Price         int64
	StockQuantity int
	CreatedAt     time.Time
}

func NewProduct(id, shopID, title, author, category string, price int64, stock int) (*Product, error) {
	if id == "" || shopID == "" || title == "" {
		return nil, ErrMissingField
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	return &Product{
		ID:            id,
		ShopID:        shopID,
		Title:         title,
		Author:        author,
		Category:      category,
		Price:         price,
		StockQuantity: stock,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
