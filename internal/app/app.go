package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/uniblox-store/internal/domain/cart"
	"github.com/xenking/uniblox-store/internal/domain/checkout"
	"github.com/xenking/uniblox-store/internal/domain/discount"
	"github.com/xenking/uniblox-store/internal/handler"
	"github.com/xenking/uniblox-store/internal/memstore"
	"github.com/xenking/uniblox-store/pkg/health"
	"github.com/xenking/uniblox-store/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Stores. Everything lives in process memory for the process lifetime.
	catalog, err := memstore.NewCatalog()
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	cartStore := memstore.NewCartStore()
	ledger := memstore.NewOrderLedger()
	registry := memstore.NewDiscountRegistry(discount.Generator{
		Prefix: cfg.Discount.CodePrefix,
		Length: cfg.Discount.CodeLength,
	})

	percent := decimal.NewFromFloat(cfg.Discount.Percent)

	if cfg.PromoSeedFile != "" {
		n, err := memstore.LoadPromoCodes(ctx, registry, cfg.PromoSeedFile, percent)
		if err != nil {
			return errors.Wrap(err, "load promo codes")
		}
		lg.Info("Promo codes registered", zap.Int("count", n), zap.String("file", cfg.PromoSeedFile))
	}

	// Domain services.
	cartSvc := cart.NewService(catalog, cartStore)
	checkoutSvc := checkout.NewService(checkout.Config{
		IssueEvery: cfg.Discount.IssueEvery,
		Percent:    percent,
	}, cartStore, registry, ledger)

	// Health check service. No external dependencies exist, so readiness is
	// purely the manual gate.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// HTTP handlers.
	h := handler.New(catalog, cartSvc, checkoutSvc, registry, ledger)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("storefront-api", m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
