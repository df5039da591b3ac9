package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/foodcourt/internal/server/http/handlers"
	"github.com/polkiloo/foodcourt/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. live serves the websocket upgrade.
func Setup(facade handlers.FoodCourtFacade, live http.Handler, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))

	// The upgrade must not pass through gzip or body decompression.
	engine.GET("/ws", gin.WrapH(live))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthHandler := handlers.NewHealthHandler(facade)
	engine.GET("/healthz", healthHandler.Check)

	orderHandler := handlers.NewOrderHandler(facade)
	foodHandler := handlers.NewFoodHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	api := engine.Group("/api")
	api.Use(middleware.DecompressRequest())
	api.Use(gzip.Gzip(gzip.DefaultCompression))

	adminOnly := middleware.AdminRequired(facade)
	adminAware := middleware.AdminOptional(facade)

	orders := api.Group("/orders")
	orders.Use(adminAware)
	orders.POST("", orderHandler.Create)
	orders.POST("/bulk", orderHandler.CreateBulk)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id/status", adminOnly, orderHandler.UpdateStatus)
	orders.DELETE("/:id", orderHandler.Delete)

	foods := api.Group("/foods")
	foods.GET("", foodHandler.List)
	foods.POST("", adminOnly, foodHandler.Create)
	foods.PUT("/:id", adminOnly, foodHandler.Update)
	foods.DELETE("/:id", adminOnly, foodHandler.Delete)

	admins := api.Group("/admins")
	admins.POST("/login", adminHandler.Login)
	admins.POST("", adminOnly, adminHandler.Create)
	admins.GET("", adminOnly, adminHandler.List)
	admins.DELETE("/:id", adminOnly, adminHandler.Delete)

	return engine
}
