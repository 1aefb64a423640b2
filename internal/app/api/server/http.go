package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/docs"
	"github.com/fatflowers/courseshop/internal/app/api/handlers"
	mw "github.com/fatflowers/courseshop/internal/app/api/middleware"
	"github.com/fatflowers/courseshop/internal/app/service/planadmin"
	"github.com/fatflowers/courseshop/internal/app/service/planlog"
	"github.com/fatflowers/courseshop/internal/app/service/reconcile"
	"github.com/fatflowers/courseshop/internal/app/service/statistics"
	subsvc "github.com/fatflowers/courseshop/internal/app/service/subscription"
	"github.com/fatflowers/courseshop/internal/app/service/userplan"
	cfgpkg "github.com/fatflowers/courseshop/pkg/config"
	"github.com/fatflowers/courseshop/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

// RouteDeps is everything registerRoutes mounts.
type RouteDeps struct {
	fx.In

	Log        *zap.SugaredLogger
	Cfg        *cfgpkg.Config
	Resolver   *subsvc.Resolver
	Reconciler *reconcile.Service
	PlanAdmin  *planadmin.Service
	Stats      *statistics.Service
	Plans      userplan.Store
	Payments   userplan.PaymentStore
	PlanLogs   *planlog.Service
}

func registerRoutes(r *gin.Engine, d RouteDeps) error {
	log, cfg := d.Log, d.Cfg
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)
		if err := metrics.RegisterBusinessMetrics(prometheus.DefaultRegisterer); err != nil {
			return fmt.Errorf("register business metrics: %w", err)
		}

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	handlers.RegisterSubscriptionRoutes(apiV1.Group("/subscription"), d.Resolver)

	admin := apiV1.Group("/admin")
	admin.Use(mw.AdminAuthMiddleware(cfg, log))
	handlers.RegisterAdminRoutes(admin, &handlers.Admin{
		Reconciler: d.Reconciler,
		Plans:      d.PlanAdmin,
		Stats:      d.Stats,
		PlanStore:  d.Plans,
		Payments:   d.Payments,
		History:    d.PlanLogs,
		Log:        log,
	})
	return nil
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
