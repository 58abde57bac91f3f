package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/application/auth"
	orderapp "github.com/TP4uit/SmartBook-MERN-sub000/internal/application/order"
	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

// AdminHandler gom các thao tác chỉ dành cho admin; router đã chặn role
// trước khi tới đây.
type AdminHandler struct {
	auth   *auth.Service
	orders *orderapp.Service
	logger logger.Logger
}

func NewAdminHandler(authSvc *auth.Service, orderSvc *orderapp.Service, log logger.Logger) *AdminHandler {
	return &AdminHandler{auth: authSvc, orders: orderSvc, logger: log}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.auth.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list users failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.orders.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list all orders failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list orders failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.auth.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, domain.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("change role failed", logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "change role failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u)})
}
