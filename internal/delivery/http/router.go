package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/yuelao-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/yuelao-backend/internal/delivery/http/middleware"
)

type Router struct {
	sessionHandler  *handler.SessionHandler
	adminHandler    *handler.AdminHandler
	paymentHandler  *handler.PaymentHandler
	adminMiddleware *middleware.AdminMiddleware
	metricsHandler  http.Handler
	logger          *slog.Logger
}

func NewRouter(
	sessionHandler *handler.SessionHandler,
	adminHandler *handler.AdminHandler,
	paymentHandler *handler.PaymentHandler,
	adminMiddleware *middleware.AdminMiddleware,
	metricsHandler http.Handler,
	logger *slog.Logger,
) *Router {
	return &Router{
		sessionHandler:  sessionHandler,
		adminHandler:    adminHandler,
		paymentHandler:  paymentHandler,
		adminMiddleware: adminMiddleware,
		metricsHandler:  metricsHandler,
		logger:          logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.logger))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	if r.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(r.metricsHandler))
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Questionnaire sessions (public)
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", r.sessionHandler.Open)
			sessions.GET("/:id", r.sessionHandler.Get)
			sessions.POST("/:id/start", r.sessionHandler.Start)
			sessions.POST("/:id/submit", r.sessionHandler.Submit)
			sessions.POST("/:id/back", r.sessionHandler.Back)
			sessions.POST("/:id/reset", r.sessionHandler.Reset)
			sessions.POST("/:id/close", r.sessionHandler.Close)
		}

		// Admin routes
		adminGroup := v1.Group("/admin")
		{
			adminGroup.POST("/login", r.adminHandler.Login)

			protected := adminGroup.Group("")
			protected.Use(r.adminMiddleware.RequireAdmin())
			{
				protected.GET("/submissions", r.adminHandler.ListSubmissions)
				protected.DELETE("/submissions", r.adminHandler.ClearSubmissions)
				protected.GET("/export", r.adminHandler.Export)
			}
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("/checkout", r.paymentHandler.Checkout)
			payments.POST("/webhook", r.paymentHandler.Webhook)
		}
	}

	return router
}
