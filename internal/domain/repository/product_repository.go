package repository

import (
	"context"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
)

// ProductFilter là bộ lọc cho trang danh sách sản phẩm.
type ProductFilter struct {
	Query    string
	Category string
	ShopID   string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Save(ctx context.Context, p *product.Product) error
	FindByID(ctx context.Context, id string) (*product.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*product.Product, error)
	Update(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id string) error
}
