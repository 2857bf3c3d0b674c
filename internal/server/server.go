package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/storefront/internal/cloudmetrics"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/coupon"
	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	"github.com/smallbiznis/storefront/internal/observability"
	obslogger "github.com/smallbiznis/storefront/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/storefront/internal/observability/metrics"
	obstracing "github.com/smallbiznis/storefront/internal/observability/tracing"
	"github.com/smallbiznis/storefront/internal/order"
	orderdomain "github.com/smallbiznis/storefront/internal/order/domain"
	"github.com/smallbiznis/storefront/internal/pricing"
	"github.com/smallbiznis/storefront/internal/providers/pdf"
	"github.com/smallbiznis/storefront/internal/quote"
	quotedomain "github.com/smallbiznis/storefront/internal/quote/domain"
	"github.com/smallbiznis/storefront/internal/ratelimit"
	"github.com/smallbiznis/storefront/internal/shippingzone"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	"github.com/smallbiznis/storefront/internal/sitesettings"
	settingsdomain "github.com/smallbiznis/storefront/internal/sitesettings/domain"
)

var Module = fx.Module("http.server",
	cloudmetrics.Module,
	pricing.Module,
	shippingzone.Module,
	sitesettings.Module,
	coupon.Module,
	quote.Module,
	order.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterStorefrontRoutes()
		s.RegisterAdminRoutes()
	}),
	fx.Invoke(Run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", httpMetrics.Handler())

	return r
}

func Run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
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
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	genID  *snowflake.Node

	quoteSvc    quotedomain.Service
	orderSvc    orderdomain.Service
	zoneSvc     zonedomain.Service
	settingsSvc settingsdomain.Service
	couponSvc   coupondomain.Service

	obsMetrics   *obsmetrics.Metrics
	quoteLimiter *ratelimit.QuoteLimiter
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	Log   *zap.Logger
	GenID *snowflake.Node

	QuoteSvc    quotedomain.Service
	OrderSvc    orderdomain.Service
	ZoneSvc     zonedomain.Service
	SettingsSvc settingsdomain.Service
	CouponSvc   coupondomain.Service

	ObsMetrics   *obsmetrics.Metrics     `optional:"true"`
	QuoteLimiter *ratelimit.QuoteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log,
		genID:        p.GenID,
		quoteSvc:     p.QuoteSvc,
		orderSvc:     p.OrderSvc,
		zoneSvc:      p.ZoneSvc,
		settingsSvc:  p.SettingsSvc,
		couponSvc:    p.CouponSvc,
		obsMetrics:   p.ObsMetrics,
		quoteLimiter: p.QuoteLimiter,
	}

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// RegisterStorefrontRoutes mounts the full public surface: pricing
// plus checkout and order lookups.
func (s *Server) RegisterStorefrontRoutes() {
	api := s.engine.Group("/api")
	api.Use(ratelimit.GinMiddleware(s.quoteLimiter, s.obsMetrics, s.log))

	api.POST("/shipping/estimate", s.EstimateShipping)
	api.POST("/quote", s.Quote)
	api.POST("/checkout", s.Checkout)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/receipt", s.OrderReceipt)
}

// RegisterQuoteRoutes mounts only the read-side pricing endpoints, for
// deployments that keep checkout on a separate instance.
func (s *Server) RegisterQuoteRoutes() {
	api := s.engine.Group("/api")
	api.Use(ratelimit.GinMiddleware(s.quoteLimiter, s.obsMetrics, s.log))

	api.POST("/shipping/estimate", s.EstimateShipping)
	api.POST("/quote", s.Quote)
}

func (s *Server) RegisterAdminRoutes() {
	admin := s.engine.Group("/admin/api", s.AdminAuthRequired())

	admin.GET("/shipping-zones", s.ListShippingZones)
	admin.POST("/shipping-zones", s.CreateShippingZone)
	admin.GET("/shipping-zones/:id", s.GetShippingZone)
	admin.PATCH("/shipping-zones/:id", s.UpdateShippingZone)
	admin.DELETE("/shipping-zones/:id", s.DeleteShippingZone)

	admin.GET("/site-settings", s.GetSiteSettings)
	admin.PUT("/site-settings", s.UpdateSiteSettings)

	admin.GET("/coupons", s.ListCoupons)
	admin.POST("/coupons", s.CreateCoupon)
	admin.GET("/coupons/:id", s.GetCoupon)
	admin.PATCH("/coupons/:id", s.UpdateCoupon)
	admin.DELETE("/coupons/:id", s.DeleteCoupon)

	admin.GET("/orders", s.ListOrders)
	admin.GET("/orders/:id", s.GetOrder)
	admin.GET("/orders/:id/receipt", s.OrderReceipt)
}
