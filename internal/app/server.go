// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/auth"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/billing"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/edit"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/export"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/firebase"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/jobs"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/middleware"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	authHandler    *auth.Handler
	editHandler    *edit.Handler
	billingHandler *billing.Handler
	exportHandler  *export.Handler

	// Jobs
	orderExpiryJob *jobs.OrderExpiryJob

	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	editHandler *edit.Handler,
	billingHandler *billing.Handler,
	exportHandler *export.Handler,
	orderExpiryJob *jobs.OrderExpiryJob,
	firebaseService *firebase.Service,
	profileService shared.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin", "Content-Type", "Accept",
		common.AuthorizationHeader, common.ProviderTokenHeader, middleware.RequestIDHeader,
	}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.Auth(firebaseService, profileService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "AI Photo Editor API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	// Pricing catalog and payment webhook are reachable without a session.
	billingHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("", authMW)
	authHandler.RegisterRoutes(protected.Group("/auth"))
	editHandler.RegisterRoutes(protected)
	billingHandler.RegisterRoutes(protected)
	exportHandler.RegisterRoutes(protected)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // edits wait on the image model
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:     httpServer,
		router:         router,
		cfg:            cfg,
		logger:         logger,
		authHandler:    authHandler,
		editHandler:    editHandler,
		billingHandler: billingHandler,
		exportHandler:  exportHandler,
		orderExpiryJob: orderExpiryJob,
		authMW:         authMW,
	}, nil
}

func (s *Server) Start() error {
	if s.orderExpiryJob != nil {
		if err := s.orderExpiryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start order expiry job", zap.Error(err))
		}
	} else {
		s.logger.Info("Order expiry job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.orderExpiryJob != nil {
		s.orderExpiryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
