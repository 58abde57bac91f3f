package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/application/auth"
	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/interfaces/http/middleware"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

type AuthHandler struct {
	service *auth.Service
	logger  logger.Logger
}

func NewAuthHandler(service *auth.Service, log logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: log}
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ShopName string `json:"shop_name,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		ShopName: u.ShopName,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.service.Register(c.Request.Context(), auth.RegisterCommand{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		if errors.Is(err, domain.ErrMissingField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("register failed", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(u)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, u, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.logger.Error("login failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": toUserResponse(u)})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.service.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("load profile failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load profile failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u)})
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	ShopName string `json:"shop_name"`
	Password string `json:"password"`
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserID), auth.UpdateProfileCommand{
		Name:     req.Name,
		ShopName: req.ShopName,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("update profile failed", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u)})
}
