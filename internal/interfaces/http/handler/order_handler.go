package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/application/checkout"
	orderapp "github.com/TP4uit/SmartBook-MERN-sub000/internal/application/order"
	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
	productdomain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/interfaces/http/middleware"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

type OrderHandler struct {
	checkout *checkout.Service
	orders   *orderapp.Service
	logger   logger.Logger
}

func NewOrderHandler(checkoutSvc *checkout.Service, orderSvc *orderapp.Service, log logger.Logger) *OrderHandler {
	return &OrderHandler{checkout: checkoutSvc, orders: orderSvc, logger: log}
}

type lineItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type addressResponse struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Street   string `json:"street"`
	Ward     string `json:"ward,omitempty"`
	District string `json:"district,omitempty"`
	Province string `json:"province"`
}

type orderResponse struct {
	ID              string             `json:"id"`
	BuyerID         string             `json:"buyer_id"`
	ShopID          string             `json:"shop_id"`
	TransactionRef  string             `json:"transaction_ref"`
	Items           []lineItemResponse `json:"items"`
	ShippingAddress addressResponse    `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	ItemsPrice      int64              `json:"items_price"`
	ShippingFee     int64              `json:"shipping_fee"`
	TaxAmount       int64              `json:"tax_amount"`
	TotalPrice      int64              `json:"total_price"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]lineItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, lineItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return orderResponse{
		ID:             o.ID,
		BuyerID:        o.BuyerID,
		ShopID:         o.ShopID,
		TransactionRef: o.TransactionRef,
		Items:          items,
		ShippingAddress: addressResponse{
			FullName: o.ShippingAddress.FullName,
			Phone:    o.ShippingAddress.Phone,
			Street:   o.ShippingAddress.Street,
			Ward:     o.ShippingAddress.Ward,
			District: o.ShippingAddress.District,
			Province: o.ShippingAddress.Province,
		},
		PaymentMethod: o.PaymentMethod,
		ItemsPrice:    o.ItemsPrice,
		ShippingFee:   o.ShippingFee,
		TaxAmount:     o.TaxAmount,
		TotalPrice:    o.TotalPrice,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

type cartLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	ShopID    string `json:"shop_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Image     string `json:"image"`
	UnitPrice int64  `json:"unit_price" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	Items           []cartLineRequest `json:"items" binding:"required"`
	ShippingAddress struct {
		FullName string `json:"full_name" binding:"required"`
		Phone    string `json:"phone"`
		Street   string `json:"street" binding:"required"`
		Ward     string `json:"ward"`
		District string `json:"district"`
		Province string `json:"province" binding:"required"`
	} `json:"shipping_address" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// Create là endpoint checkout: tách giỏ theo shop, trừ kho, tất cả
// trong một transaction.
func (h *OrderHandler) Create(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]checkout.CartLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, checkout.CartLine{
			ProductID: it.ProductID,
			ShopID:    it.ShopID,
			Name:      it.Name,
			Image:     it.Image,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	receipt, err := h.checkout.PlaceOrder(c.Request.Context(), checkout.PlaceOrderCommand{
		BuyerID: c.GetString(middleware.CtxUserID),
		Lines:   lines,
		ShippingAddress: domain.Address{
			FullName: req.ShippingAddress.FullName,
			Phone:    req.ShippingAddress.Phone,
			Street:   req.ShippingAddress.Street,
			Ward:     req.ShippingAddress.Ward,
			District: req.ShippingAddress.District,
			Province: req.ShippingAddress.Province,
		},
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "order placed",
		"transaction_ref": receipt.TransactionRef,
		"orders":          toOrderResponses(receipt.Orders),
	})
}

func (h *OrderHandler) respondCheckoutError(c *gin.Context, err error) {
	var dup *checkout.DuplicateCheckoutError
	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{
			"error":           "checkout already submitted",
			"transaction_ref": dup.TransactionRef,
		})
	case errors.Is(err, productdomain.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, productdomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrMissingAddress),
		errors.Is(err, domain.ErrMissingPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("checkout failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
	}
}

// ListMine trả về các order mà caller là buyer.
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.orders.ListForBuyer(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		h.logger.Error("list orders failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list orders failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxUserRole), c.Param("id"))
	if err != nil {
		h.respondOrderError(c, err, "get order failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(o)})
}

// Siblings trả về mọi sub-order của cùng một lần checkout.
func (h *OrderHandler) Siblings(c *gin.Context) {
	orders, err := h.orders.ListSiblings(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxUserRole), c.Param("id"))
	if err != nil {
		h.respondOrderError(c, err, "list sibling orders failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
}

func (h *OrderHandler) ListForShop(c *gin.Context) {
	orders, err := h.orders.ListForShop(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		h.logger.Error("list shop orders failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list shop orders failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.orders.UpdateStatus(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxUserRole), c.Param("id"), req.Status)
	if err != nil {
		h.respondOrderError(c, err, "update order status failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(o)})
}

// Cancel cho buyer huỷ order còn Pending của chính mình.
func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.orders.Cancel(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		h.respondOrderError(c, err, "cancel order failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(o)})
}

func (h *OrderHandler) respondOrderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, orderapp.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error(fallback, logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
