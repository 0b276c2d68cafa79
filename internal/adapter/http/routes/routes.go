package routes

import (
	"usersphere/internal/adapter/http/handler"
	"usersphere/internal/adapter/http/middleware"
	"usersphere/internal/shared"
	"usersphere/pkg/auth"
	"usersphere/pkg/config"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	HomeHandler *handler.HomeHandler
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
}

func SetupRouter(handlers HandlersConfig, jwtSvc *auth.JWT, metrics *shared.AppMetrics, logger *shared.LokiLogger, responseCache *shared.ResponseCache, cfg *config.Config) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	shared.SetupGinMiddleware(router, "usersphere", metrics, logger, responseCache, cfg)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.CurrentMiddleware())

	setupPublicRoutes(router, handlers)
	setupProtectedRoutes(router, handlers, jwtSvc)

	return router
}

func setupPublicRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HomeHandler != nil {
		router.GET("/", handlers.HomeHandler.Home)
		router.GET("/api/health", handlers.HomeHandler.Health)
	}

	if handlers.AuthHandler != nil {
		public := router.Group("/api")
		{
			public.POST("/register", handlers.AuthHandler.RegisterByEmailAndPassword)
			public.POST("/login", handlers.AuthHandler.AuthByEmailAndPassword)
		}
	}
}

func setupProtectedRoutes(router *gin.Engine, handlers HandlersConfig, jwtSvc *auth.JWT) {
	if handlers.UserHandler == nil {
		return
	}

	protected := router.Group("/api")
	protected.Use(middleware.JwtAuthMiddleware(jwtSvc))
	{
		protected.GET("/users", handlers.UserHandler.GetAllUsers)
		protected.GET("/users/search", handlers.UserHandler.SearchUsers)
		protected.GET("/users/:uuid", handlers.UserHandler.GetByUUID)
		protected.POST("/users", handlers.UserHandler.CreateUser)
		protected.PUT("/users/:uuid", handlers.UserHandler.UpdateByUUID)
		protected.DELETE("/users/:uuid", handlers.UserHandler.DeleteByUUID)
		protected.PUT("/users/:uuid/restore", handlers.UserHandler.RestoreByUUID)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouterForTests skips the observability chain so handler tests run
// without a telemetry backend.
func SetupRouterForTests(handlers HandlersConfig, jwtSvc *auth.JWT) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.CurrentMiddleware())

	setupPublicRoutes(router, handlers)
	setupProtectedRoutes(router, handlers, jwtSvc)

	return router
}
