package router

import (
	"github.com/gin-gonic/gin"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/interfaces/http/handler"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/interfaces/http/middleware"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/metrics"
)

// Handlers gom mọi handler mà router cần; main wire xong rồi đưa vào đây.
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Admin   *handler.AdminHandler
	Chat    *handler.ChatHandler
	Upload  *handler.UploadHandler
}

type Options struct {
	JWTSecret  string
	UploadDir  string
	StaticPath string
	Metrics    *metrics.ServerMetrics
}

func Register(engine *gin.Engine, h Handlers, opts Options) {
	if opts.Metrics != nil {
		engine.Use(middleware.Metrics(opts.Metrics))
	}
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	engine.Static(opts.StaticPath, opts.UploadDir)

	authRequired := middleware.AuthRequired(opts.JWTSecret)

	api := engine.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	users := api.Group("/users", authRequired)
	{
		users.GET("/me", h.Auth.Me)
		users.PUT("/me", h.Auth.UpdateMe)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", authRequired, h.Product.Create)
		products.PUT("/:id", authRequired, h.Product.Update)
		products.DELETE("/:id", authRequired, h.Product.Delete)
	}

	orders := api.Group("/orders", authRequired)
	{
		orders.POST("", h.Order.Create)
		orders.GET("", h.Order.ListMine)
		orders.GET("/:id", h.Order.Get)
		orders.GET("/:id/siblings", h.Order.Siblings)
		orders.PUT("/:id/cancel", h.Order.Cancel)
	}

	shop := api.Group("/shop", authRequired)
	{
		shop.GET("/orders", h.Order.ListForShop)
		shop.PUT("/orders/:id/status", h.Order.UpdateStatus)
	}

	api.POST("/uploads", authRequired, h.Upload.Upload)
	api.POST("/chat", authRequired, h.Chat.Ask)

	admin := api.Group("/admin", authRequired, middleware.RoleRequired(user.RoleAdmin))
	{
		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/orders", h.Admin.ListOrders)
		admin.PUT("/users/:id/role", h.Admin.ChangeRole)
	}
}
