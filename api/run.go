package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gomantics/repotracker/api/health"
	"github.com/gomantics/repotracker/api/repositories"
	"github.com/gomantics/repotracker/api/web"
	"github.com/gomantics/repotracker/config"
	"github.com/gomantics/repotracker/db"
	"github.com/gomantics/repotracker/domains/commits"
	"github.com/gomantics/repotracker/domains/repos"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params are the dependencies of the HTTP server.
type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	DB      *db.Connector
	Repos   *repos.Service
	Commits *commits.Service
}

func Run(lc fx.Lifecycle, p Params) error {
	e := NewServer(p)

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", p.Config.App.Port),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	l := p.Logger
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				l.Info("starting API server", zap.String("addr", server.Addr))
				if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
					l.Error("error starting echo server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			l.Info("shutdown signal received")
			return e.Shutdown(ctx)
		},
	})

	return nil
}

// NewServer builds the echo instance with middleware and every route.
func NewServer(p Params) *echo.Echo {
	e := echo.New()
	e.Validator = web.NewValidator()

	if !p.Config.IsDev() {
		e.HideBanner = true
		e.HidePort = true
	}

	configureMiddleware(e, p.Config, p.Logger)
	configureRoutes(e, p)
	return e
}

func configureMiddleware(e *echo.Echo, cfg *config.Config, l *zap.Logger) {
	// Request ID must come first
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1 << 12, // 4 KB
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			l.Error("recovered from panic",
				zap.Error(err),
				zap.ByteString("stack", stack),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		},
	}))

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
		LogLatency:   true,
		LogRemoteIP:  true,
		LogMethod:    true,
		LogURI:       true,
		LogRequestID: true,
		LogStatus:    true,
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.App.CorsAllowedOrigins(),
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
			http.MethodPatch,
		},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Origin", "X-Request-ID"},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Length"},
		MaxAge:           int((24 * time.Hour).Seconds()),
	}))

	if cfg.IsDev() {
		e.IPExtractor = echo.ExtractIPDirect()
	} else {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}
}

func configureRoutes(e *echo.Echo, p Params) {
	health.Configure(e, p.Logger, p.DB)
	repositories.Configure(e, p.Logger, p.Repos, p.Commits)
}
