package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/Aidin1998/taskapi/api/responses"
	"github.com/Aidin1998/taskapi/common/apiutil"
	_ "github.com/Aidin1998/taskapi/docs"
	"github.com/Aidin1998/taskapi/internal/tasks"
	"github.com/Aidin1998/taskapi/pkg/validation"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options tunes optional parts of the router
type Options struct {
	ServiceName    string
	AllowedOrigins []string
	MetricsPath    string // empty disables /metrics
	Swagger        bool
	// Now is the clock used by the health check
	Now func() time.Time
}

// Server represents the HTTP server
type Server struct {
	logger    *zap.Logger
	tasksSvc  tasks.TaskService
	validator *validation.Validator
	opts      Options
}

// NewServer creates a new HTTP server
func NewServer(logger *zap.Logger, tasksSvc tasks.TaskService, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "taskapi"
	}
	return &Server{
		logger:    logger,
		tasksSvc:  tasksSvc,
		validator: validation.NewValidator(),
		opts:      opts,
	}
}

// Router creates a new HTTP router
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(apiutil.RequestIDMiddleware())
	router.Use(ginzap.GinzapWithConfig(s.logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("request_id", apiutil.RequestID(c))}
		},
	}))
	router.Use(ginzap.CustomRecoveryWithZap(s.logger, true, func(c *gin.Context, _ any) {
		responses.InternalServerError(c)
	}))
	router.Use(otelgin.Middleware(s.opts.ServiceName))
	router.Use(apiutil.MetricsMiddleware())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)

	if s.opts.MetricsPath != "" {
		router.GET(s.opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
	if s.opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	taskRoutes := router.Group("/tasks")
	{
		taskRoutes.GET("", s.handleListTasks)
		taskRoutes.POST("", s.handleCreateTask)
		taskRoutes.GET("/:id", s.handleGetTask)
		taskRoutes.PUT("/:id", s.handleUpdateTask)
		taskRoutes.PATCH("/:id", s.handleUpdateTask)
		taskRoutes.DELETE("/:id", s.handleDeleteTask)
	}

	router.NoRoute(func(c *gin.Context) {
		responses.NotFound(c, "Route not found")
	})
	router.NoMethod(func(c *gin.Context) {
		responses.Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, apiutil.RequestIDHeader)
	cfg.ExposeHeaders = []string{apiutil.RequestIDHeader}

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Timeouts bounds the lifetime of HTTP connections
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// HTTPServer wraps the router in an http.Server listening on addr
func (s *Server) HTTPServer(addr string, t Timeouts) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
	}
}

// ListenAndServe runs srv until it is shut down; a graceful shutdown is not an error
func ListenAndServe(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
