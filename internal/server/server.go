package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/brokerage/internal/clock"
	"github.com/smallbiznis/brokerage/internal/company"
	companydomain "github.com/smallbiznis/brokerage/internal/company/domain"
	"github.com/smallbiznis/brokerage/internal/config"
	"github.com/smallbiznis/brokerage/internal/ingestion"
	ingestiondomain "github.com/smallbiznis/brokerage/internal/ingestion/domain"
	"github.com/smallbiznis/brokerage/internal/master"
	masterdomain "github.com/smallbiznis/brokerage/internal/master/domain"
	"github.com/smallbiznis/brokerage/internal/metrics"
	"github.com/smallbiznis/brokerage/internal/policy"
	policydomain "github.com/smallbiznis/brokerage/internal/policy/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	company.Module,
	master.Module,
	policy.Module,
	ingestion.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	clock        clock.Clock
	companysvc   companydomain.Service
	mastersvc    masterdomain.Service
	policysvc    policydomain.Service
	ingestionsvc ingestiondomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Clock        clock.Clock
	CompanySvc   companydomain.Service
	MasterSvc    masterdomain.Service
	PolicySvc    policydomain.Service
	IngestionSvc ingestiondomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		clock:        p.Clock,
		companysvc:   p.CompanySvc,
		mastersvc:    p.MasterSvc,
		policysvc:    p.PolicySvc,
		ingestionsvc: p.IngestionSvc,
	}
}

func registerRoutes(s *Server) {
	api := s.engine.Group("/v1", OwnerMiddleware())

	api.POST("/rate-tables", s.UploadRateTable)
	api.POST("/ingestions", s.IngestPolicyFile)

	api.GET("/companies", s.ListCompanies)
	api.GET("/companies/:id", s.GetCompany)
	api.DELETE("/companies/:id", s.DeleteCompany)

	api.GET("/companies/:id/rules", s.ListMasterRules)
	api.PATCH("/companies/:id/rules/:rule_id", s.UpdateMasterRule)
	api.DELETE("/companies/:id/rules/:rule_id", s.DeleteMasterRule)

	api.GET("/policies", s.ListPolicyRecords)
}
