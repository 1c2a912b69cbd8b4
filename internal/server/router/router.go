package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/navigation"
	"github.com/mamadbah2/stockdesk/internal/server/handlers"
)

// SessionChecker reports whether the operator holds a token.
type SessionChecker interface {
	HasToken() bool
}

// Options carries the settings for the console engine.
type Options struct {
	AllowedOrigins []string
}

// New wires the Gin engine with required routes and middlewares.
func New(authHandler *handlers.AuthHandler, inventoryHandler *handlers.InventoryHandler, session SessionChecker, opts Options, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.New())
	if len(opts.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(opts.AllowedOrigins))
	}
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET(string(navigation.Login), authHandler.LoginView)
	r.GET("/session", authHandler.Session)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/logout", authHandler.Logout)
	}

	inv := r.Group(string(navigation.Inventory), requireSession(session))
	{
		inv.GET("", inventoryHandler.View)
		inv.POST("", inventoryHandler.AddItem)
		inv.POST("/refresh", inventoryHandler.Refresh)
		inv.PUT("/draft", inventoryHandler.UpdateDraft)
		inv.GET("/summary", inventoryHandler.Summary)
		inv.POST("/export", inventoryHandler.Export)
		inv.PUT("/:id/reduction", inventoryHandler.UpdateReduction)
		inv.POST("/:id/reduce", inventoryHandler.Reduce)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// requireSession sends operators without a token to the login view.
func requireSession(session SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.HasToken() {
			c.Redirect(http.StatusFound, string(navigation.Login))
			c.Abort()
			return
		}
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", requestid.Get(c)))
	}
}
