package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-service/internal/entities"
	"user-service/internal/middleware"
)

// RouterConfig carries everything NewRouter wires together
type RouterConfig struct {
	Users       *UserController
	Cards       *CardInfoController
	Internal    *InternalUserController
	QRCode      *QRCodeController
	RateLimiter *middleware.RateLimiter // optional
	GatewayName string
	Logger      *zap.Logger
}

// NewRouter builds the gin engine. Middleware order:
//  1. Recovery
//  2. RequestLogger
//  3. GatewayAuth, which sets or clears the principal and never rejects
//  4. per-group guards and rate limiting
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.GatewayAuth(cfg.GatewayName, cfg.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.LimitMiddleware())
	}

	users := api.Group("/users", middleware.RequireAuthenticated())
	{
		users.GET("/hello", cfg.Users.Hello)
		users.GET("/find-by-email", cfg.Users.FindByEmail)
		users.GET("/find-by-ids", cfg.Users.FindByIDs)
		users.GET("/find-by-role", cfg.Users.FindByRole)
		users.GET("/born-after", cfg.Users.BornAfter)
		users.GET("/all", cfg.Users.GetAll)
		users.GET("/paginated", cfg.Users.Paginated)
		users.GET("/:id", cfg.Users.GetByID)
		users.GET("/:id/qrcode", cfg.QRCode.ProfileQRCode)
		users.PUT("/:id", cfg.Users.Update)
		users.DELETE("/:id", middleware.RequireRole(entities.RoleAdmin), cfg.Users.Delete)
	}

	cards := api.Group("/cards", middleware.RequireAuthenticated())
	{
		cards.GET("/find-by-number", cfg.Cards.FindByNumber)
		cards.GET("/find-by-ids", cfg.Cards.FindByIDs)
		cards.GET("/user/:userId", cfg.Cards.GetByUserID)
		cards.GET("/expired", cfg.Cards.Expired)
		cards.GET("/all", cfg.Cards.GetAll)
		cards.GET("/paginated", cfg.Cards.Paginated)
		cards.GET("/:id", cfg.Cards.GetByID)
		cards.POST("/", cfg.Cards.Create)
		cards.PUT("/:id", cfg.Cards.Update)
		cards.DELETE("/:id", cfg.Cards.Delete)
	}

	internal := api.Group("/internal/users", middleware.InternalCallOnly())
	{
		internal.POST("/", cfg.Internal.Create)
		internal.GET("/find-by-email", cfg.Internal.FindByEmail)
		internal.GET("/:id", cfg.Internal.GetByID)
		internal.DELETE("/:id", cfg.Internal.Delete)
	}

	return router
}
