package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thinkzo/intake/internal/checkout"
	checkoutdomain "github.com/thinkzo/intake/internal/checkout/domain"
	"github.com/thinkzo/intake/internal/config"
	"github.com/thinkzo/intake/internal/contact"
	contactdomain "github.com/thinkzo/intake/internal/contact/domain"
	"github.com/thinkzo/intake/internal/observability"
	obsmiddleware "github.com/thinkzo/intake/internal/observability/logger"
	obsmetrics "github.com/thinkzo/intake/internal/observability/metrics"
	obstracing "github.com/thinkzo/intake/internal/observability/tracing"
	"github.com/thinkzo/intake/internal/order"
	orderdomain "github.com/thinkzo/intake/internal/order/domain"
	"github.com/thinkzo/intake/internal/providers/email"
	"github.com/thinkzo/intake/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	email.Module,
	ratelimit.Module,
	contact.Module,
	checkout.Module,
	order.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterAPIRoutes()
	}),
	fx.Invoke(RunHTTP),
)

// Server wires the public intake endpoints.
type Server struct {
	cfg        config.Config
	engine     *gin.Engine
	log        *zap.Logger
	metrics    *obsmetrics.Metrics
	contactsvc contactdomain.Service
	checkout   checkoutdomain.Service
	orders     orderdomain.Service
}

type Params struct {
	fx.In

	Config     config.Config
	Engine     *gin.Engine
	Log        *zap.Logger
	Metrics    *obsmetrics.Metrics `optional:"true"`
	ContactSvc contactdomain.Service
	Checkout   checkoutdomain.Service
	Orders     orderdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:        p.Config,
		engine:     p.Engine,
		log:        p.Log.Named("http.server"),
		metrics:    p.Metrics,
		contactsvc: p.ContactSvc,
		checkout:   p.Checkout,
		orders:     p.Orders,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(CORS())

	api.POST("/contact", s.SubmitContact)
	api.OPTIONS("/contact", preflight)

	api.POST("/checkout/session", s.CreateCheckoutSession)
	api.OPTIONS("/checkout/session", preflight)

	api.POST("/webhooks/stripe", s.StripeWebhook)
	api.OPTIONS("/webhooks/stripe", preflight)
}

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
