package router

import (
	"log"

	"blogpulse/internal/handlers"
	"blogpulse/internal/metrics"
	"blogpulse/internal/middleware"
	"blogpulse/internal/repositories"
	"blogpulse/internal/services"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.RequestID())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.Logger())
	e.Use(middleware.IdentityExtractor())
	log.Println("Global middleware configured.")
}

// SetupRoutes wires repositories, services and handlers onto the Echo
// instance. The storage handle is constructed once at startup and injected
// here; nothing memoizes a connection lazily.
func SetupRoutes(e *echo.Echo, db *mongo.Database, m *metrics.Metrics) {
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)

	engagementService := services.NewEngagementService(postRepo, m)
	commentService := services.NewCommentService(commentRepo, postRepo, m)

	blogs := e.Group("/blogs")

	statsHandler := handlers.NewStatsHandler(engagementService)
	statsHandler.RegisterStatsRoutes(blogs)
	log.Println("Stats routes configured.")

	commentHandler := handlers.NewCommentHandler(commentService)
	commentHandler.RegisterCommentRoutes(blogs)
	log.Println("Comment routes configured.")
}
