package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ysdkhr/tubebox/internal/app/notification"
	"github.com/ysdkhr/tubebox/internal/app/store"
	"github.com/ysdkhr/tubebox/internal/infra/youtube"
)

// RouterConfig holds router setup options.
type RouterConfig struct {
	AllowedOrigins     []string // Empty allows all origins
	Debug              bool
	ProgressDebounceMs int
}

// ClientConfigResponse carries settings the client player needs
type ClientConfigResponse struct {
	ProgressDebounceMs int `json:"progressDebounceMs"`
}

// NewRouter builds the Gin router with middleware and all API routes.
func NewRouter(cfg RouterConfig, st *store.Store, provider youtube.Provider, notifier *notification.Manager) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RequestLogger())
	router.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		router.Use(cors.New(corsConfig))
	} else {
		router.Use(cors.Default())
	}

	apiGroup := router.Group("/api")

	SetupHealthRoutes(apiGroup)
	SetupPlaylistRoutes(apiGroup, st, provider)
	SetupPlayerRoutes(apiGroup, st, provider)
	SetupSearchRoutes(apiGroup, provider)
	SetupEventRoutes(apiGroup, st, notifier)

	apiGroup.GET("/client-config", func(c *gin.Context) {
		c.JSON(http.StatusOK, ClientConfigResponse{ProgressDebounceMs: cfg.ProgressDebounceMs})
	})

	return router
}
