package server

import (
	"context"
	"net/http"
	"time"

	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/agrihub/fieldbill/internal/config"
	"github.com/agrihub/fieldbill/internal/observability"
	obslogger "github.com/agrihub/fieldbill/internal/observability/logger"
	obsmetrics "github.com/agrihub/fieldbill/internal/observability/metrics"
	"github.com/agrihub/fieldbill/internal/ratelimit"
	resourcedomain "github.com/agrihub/fieldbill/internal/resource/domain"
	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Params struct {
	fx.In

	Engine      *gin.Engine
	Config      config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	ResourceSvc resourcedomain.Service
	BillSvc     billdomain.Service
	SignalSvc   signaldomain.Service
	Limiter     *ratelimit.SignalLimiter `optional:"true"`
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	resourceSvc resourcedomain.Service
	billSvc     billdomain.Service
	signalSvc   signaldomain.Service
	limiter     *ratelimit.SignalLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		engine:      p.Engine,
		cfg:         p.Config,
		db:          p.DB,
		log:         p.Log.Named("http.server"),
		resourceSvc: p.ResourceSvc,
		billSvc:     p.BillSvc,
		signalSvc:   p.SignalSvc,
		limiter:     p.Limiter,
	}
}

func (s *Server) RegisterRoutes() {
	r := s.engine

	r.GET("/resources", s.ListResources)
	r.POST("/resources", s.CreateResource)
	r.DELETE("/resources/:id", s.DeleteResource)

	r.GET("/bills", s.ListBills)
	r.POST("/bills/start", s.StartBill)
	r.POST("/bills/stop", s.StopBill)
	r.POST("/bills/edit", s.EditBill)
	r.POST("/bills/pay", s.PayBill)
	r.POST("/bills/update-cost", s.UpdateBillCost)
	r.DELETE("/bills/owner/:ownerId", s.DeleteBillsForOwner)

	r.POST("/signal", s.SendSignal)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
