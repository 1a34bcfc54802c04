package http

import (
	"log/slog"
	"net/http"
	"time"

	"club-event-approval/internal/adapter/middleware"
	"club-event-approval/internal/domain/access"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	Applications *ApplicationHandler
	Advisors     *AdvisorHandler
	Health       *Handler

	JWTSecret []byte
	// Nil disables request replay.
	Redis          redis.Cmdable
	IdempotencyTTL time.Duration
	// Served on /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

func NewRouter(cfg RouterConfig) *echo.Echo {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "http request", attrs...)
			return nil
		},
	}))

	e.GET("/health", cfg.Health.Health)
	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics))
	}

	api := e.Group("", middleware.Authenticate(cfg.JWTSecret))
	if cfg.Redis != nil {
		api.Use(middleware.Idempotency(cfg.Redis, cfg.IdempotencyTTL, log))
	}
	can := middleware.RequireCapability

	apps := cfg.Applications
	api.POST("/applications", apps.Submit, can(access.CapSubmit))
	api.GET("/applications", apps.List, can(access.CapView))
	api.GET("/applications/:id", apps.Get, can(access.CapView))
	api.POST("/applications/:id/advisor-decision", apps.AdvisorDecision, can(access.CapAdvisorReview))
	api.POST("/applications/:id/sks-decision", apps.SksDecision, can(access.CapSksReview))
	api.POST("/applications/:id/revisions", apps.Revise, can(access.CapRevise))

	adv := cfg.Advisors
	api.GET("/clubs/:club_id/advisors", adv.Active, can(access.CapViewAdvisors))
	api.GET("/clubs/:club_id/advisors/history", adv.History, can(access.CapViewAdvisors))
	api.POST("/clubs/:club_id/advisors", adv.Add, can(access.CapManageAdvisors))
	api.POST("/clubs/:club_id/advisors/:assignment_id/terminate", adv.Remove, can(access.CapManageAdvisors))

	return e
}
