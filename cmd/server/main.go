package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tabungan/internal/auth"
	"github.com/mmynk/tabungan/internal/config"
	"github.com/mmynk/tabungan/internal/events"
	"github.com/mmynk/tabungan/internal/events/kafka"
	"github.com/mmynk/tabungan/internal/httpapi"
	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/metrics"
	"github.com/mmynk/tabungan/internal/middleware"
	"github.com/mmynk/tabungan/internal/service"
	"github.com/mmynk/tabungan/internal/storage/postgres"
	"github.com/mmynk/tabungan/internal/storage/sqlite"
	"github.com/mmynk/tabungan/internal/storage/sqlstore"
	"github.com/mmynk/tabungan/pkg/logging"
)

const (
	rpcPrefix       = "/tabungan.v1."
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	if cfg.JWTSecret == "dev_secret_change_me" || cfg.AdminPassword == "admin123" {
		slog.Warn("Using development credentials; set JWT_SECRET and ADMIN_PASSWORD")
	}

	m := metrics.New()
	authenticator := auth.NewPINAuthenticator(store, cfg.AdminPassword)
	gate := auth.NewGate(auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))
	directory := ledger.NewDirectory(store, authenticator)
	l := ledger.New(store, ledger.WithPublisher(publisher), ledger.WithObserver(m))
	authSvc := service.NewAuthService(authenticator, gate, slog.Default())

	mux := http.NewServeMux()

	// Register Connect services. The metrics interceptor is outermost so it
	// also counts calls rejected by auth.
	service.Register(mux,
		authSvc,
		service.NewStudentService(directory, gate),
		service.NewLedgerService(l, gate),
		connect.WithInterceptors(
			m.Interceptor(),
			middleware.RequireAuth(gate, service.PublicProcedures...),
			middleware.LoggingInterceptor(),
		),
	)

	httpapi.New(authSvc, directory, l, gate).Register(mux)
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("GET /healthz", httpapi.Health(store.Ping))

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", httpapi.Static(staticDir, rpcPrefix))

	handler := middleware.RequestLogger(middleware.CORS(m.Middleware(mux)))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (*sqlstore.SQLStore, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.DBDriver, "database", cfg.DBPath)
		return store, nil
	}
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		slog.Info("No KAFKA_BROKERS set; transaction events go to the log")
		return events.NewLogPublisher(nil)
	}
	slog.Info("Publishing transaction events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
