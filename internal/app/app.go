// Package app wires the storefront together: configuration, upstream client,
// session store, HTTP surface, probes, and graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/weblarek/storefront/internal/handler"
	"github.com/weblarek/storefront/internal/larek"
	"github.com/weblarek/storefront/internal/session"
	"github.com/weblarek/storefront/internal/view"
	"github.com/weblarek/storefront/pkg/health"
	"github.com/weblarek/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("upstream", cfg.APIBaseURL),
	)

	// Upstream client with instrumented transport.
	client := larek.NewClient(larek.Config{
		BaseURL: cfg.APIBaseURL,
		CDNURL:  cfg.CDNURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(m.TracerProvider()),
				otelhttp.WithMeterProvider(m.MeterProvider()),
			),
		},
	})

	render, err := view.NewRenderer()
	if err != nil {
		return errors.Wrap(err, "templates")
	}

	store := session.NewStore(
		session.StoreConfig{TTL: cfg.Session.TTL},
		session.Deps{
			Catalog: client,
			Orders:  client,
			Render:  render,
			Logger:  lg.Named("session"),
		},
	)

	// Probes.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// Routes.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	handler.New(store).Register(mux)

	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(
			httpmiddleware.Wrap(mux,
				httpmiddleware.Recovery(),
				httpmiddleware.CORS(httpmiddleware.CORSConfig{
					AllowOrigins: cfg.CORS.Origins,
					AllowHeaders: []string{"Content-Type", "HX-Request", "HX-Target"},
					MaxAge:       86400,
				}),
				httpmiddleware.RateLimit(gctx, httpmiddleware.RateLimitConfig{
					Max:    cfg.RateLimit.Max,
					Window: cfg.RateLimit.Window,
				}),
				httpmiddleware.RequestID(),
				httpmiddleware.InjectLogger(zctx.From(ctx)),
				httpmiddleware.LogRequests(),
			),
			"storefront",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Session eviction.
	g.Go(func() error {
		if err := store.Janitor(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return errors.Wrap(err, "session janitor")
		}
		return nil
	})

	// Graceful shutdown: readiness off, drain, then stop.
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()
		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	return g.Wait()
}
