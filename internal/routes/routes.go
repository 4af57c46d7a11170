package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"genricycle/internal/config"
	"genricycle/internal/database"
	"genricycle/internal/handlers"
	"genricycle/internal/metrics"
	"genricycle/internal/middlewares"
)

// NewRouter builds the gin engine with every API route. Each request gets
// its own database session through the Database middleware.
func NewRouter(cfg config.ServerConfig, backend database.Backend, metricsService *metrics.Service) *gin.Engine {
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.Origins())))

	router.GET("/metrics", gin.WrapH(metricsService.Handler()))

	withDB := router.Group("/")
	withDB.Use(middlewares.Database(backend))

	withDB.GET("/healthz", handlers.NewHealthHandler(backend.Engine()).Health)

	api := withDB.Group("/api")
	RegisterRoutes(api, backend)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	return router
}

func RegisterRoutes(api *gin.RouterGroup, backend database.Backend) {
	NewCatalogRoutes(handlers.NewCatalogHandler()).RegisterRoutes(api)
	NewUserRoutes(handlers.NewUserHandler()).RegisterRoutes(api)
	NewAuthRoutes(handlers.NewAuthHandler()).RegisterRoutes(api)
	NewOrderRoutes(handlers.NewOrderHandler()).RegisterRoutes(api)
	NewSchemaRoutes(handlers.NewSchemaHandler(backend)).RegisterRoutes(api)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middlewares.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
