package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/application/product"
	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/interfaces/http/middleware"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

type ProductHandler struct {
	service *product.Service
	logger  logger.Logger
}

func NewProductHandler(service *product.Service, log logger.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: log}
}

type productResponse struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shop_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	Image         string    `json:"image,omitempty"`
	Price         int64     `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		ShopID:        p.ShopID,
		Title:         p.Title,
		Author:        p.Author,
		Category:      p.Category,
		Description:   p.Description,
		Image:         p.Image,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
	}
}

func toProductResponses(products []*domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type createProductRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       int64  `json:"price" binding:"required"`
	Stock       int    `json:"stock_quantity"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.Create(c.Request.Context(), product.CreateCommand{
		ShopID:      c.GetString(middleware.CtxUserID),
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPrice) || errors.Is(err, domain.ErrInvalidStock) || errors.Is(err, domain.ErrMissingField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("create product failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create product failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": toProductResponse(p)})
}

func (h *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := h.service.List(c.Request.Context(), repository.ProductFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		ShopID:   c.Query("shop_id"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.logger.Error("list products failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list products failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": toProductResponses(products)})
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("get product failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get product failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(p)})
}

type updateProductRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       int64  `json:"price"`
	Stock       *int   `json:"stock_quantity"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := product.UpdateCommand{
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	}
	if req.Stock != nil {
		cmd.HasStock = true
		cmd.Stock = *req.Stock
	}

	p, err := h.service.Update(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxUserRole), c.Param("id"), cmd)
	if err != nil {
		h.respondProductError(c, err, "update product failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(p)})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.GetString(middleware.CtxUserRole), c.Param("id"))
	if err != nil {
		h.respondProductError(c, err, "delete product failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *ProductHandler) respondProductError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this listing"})
	case errors.Is(err, domain.ErrInvalidPrice), errors.Is(err, domain.ErrInvalidStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(fallback, logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
