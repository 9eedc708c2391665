package api

import (
	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/pdfchat/internal/api/middleware"
	"github.com/liliang-cn/pdfchat/internal/session"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(manager *session.Manager, controller *session.Controller, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	handler := NewHandler(manager, controller)
	sessions := r.Group("/api/sessions")
	handler.RegisterRoutes(sessions)

	return r
}
