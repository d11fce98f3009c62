package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the Gin engine with CORS open to any origin, matching
// the intake widget's embedding requirements.
func NewRouter(h *Handler, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogging(log))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Requested-With"},
	}))

	router.GET("/", h.Index)
	router.GET("/health", h.Health)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/session/start", h.StartSession)
		apiGroup.DELETE("/session/:client_id", h.DeleteSession)
		apiGroup.POST("/chat/:client_id", h.Chat)
		apiGroup.GET("/profile/:client_id", h.GetProfile)
		apiGroup.PATCH("/profile/:client_id/field", h.UpdateField)
		apiGroup.POST("/profile/:client_id/regenerate", h.Regenerate)
		apiGroup.GET("/report/:client_id", h.DownloadReport)
	}

	return router
}
