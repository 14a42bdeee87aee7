package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-api/internal/shared/middleware"
	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupGenreRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupTransactionRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.GetMe)
	}
}

func setupGenreRoutes(v1 *gin.RouterGroup, c *container.Container) {
	genres := v1.Group("/genres")
	{
		genres.GET("", c.GenreHandler.List)
		genres.GET("/:id", c.GenreHandler.GetByID)

		protected := genres.Group("")
		protected.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			protected.POST("", c.GenreHandler.Create)
			protected.PATCH("/:id", c.GenreHandler.Update)
			protected.DELETE("/:id", c.GenreHandler.Delete)
		}
	}
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/genre/:genre_id", c.BookHandler.ListByGenre)
		books.GET("/:id", c.BookHandler.GetByID)

		protected := books.Group("")
		protected.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			protected.POST("", c.BookHandler.Create)
			protected.PATCH("/:id", c.BookHandler.Update)
			protected.DELETE("/:id", c.BookHandler.Delete)
		}
	}
}

func setupTransactionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	transactions := v1.Group("/transactions")
	transactions.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		transactions.POST("", c.OrderHandler.Create)
		transactions.GET("", c.OrderHandler.List)
		// the static /statistics segment takes priority over :id
		transactions.GET("/statistics", c.OrderHandler.Statistics)
		transactions.GET("/:id", c.OrderHandler.GetByID)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbStatus := "ok"
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			dbStatus = "unavailable"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			cacheStatus = "unavailable"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		response.Success(ctx, status, gin.H{
			"status":   "up",
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
