package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/commerce/internal/dal/postgres"
	"github.com/corray333/backend-labs/commerce/internal/dal/rabbitmq"
	outboxrepo "github.com/corray333/backend-labs/commerce/internal/dal/repositories/outbox/postgres"
	"github.com/corray333/backend-labs/commerce/internal/metrics"
	"github.com/corray333/backend-labs/commerce/internal/otel"
	"github.com/corray333/backend-labs/commerce/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/commerce/internal/service/services/ordersvc"
	httptransport "github.com/corray333/backend-labs/commerce/internal/transport/http"
	"github.com/corray333/backend-labs/commerce/internal/worker/outbox"
	"github.com/corray333/backend-labs/commerce/pkg/http/middleware/auth"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outbox.Worker
	otel           *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	m := metrics.New()

	orderOpts := []ordersvc.Option{
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithMetrics(m),
		ordersvc.WithPageLimits(viper.GetInt("orders.default_limit"), viper.GetInt("orders.max_limit")),
	}

	a := &App{
		postgresClient: postgresClient,
		otel:           otelController,
	}

	if viper.GetBool("rabbitmq.enabled") {
		exchange := viper.GetString("rabbitmq.exchange")

		a.rabbitClient = rabbitmq.MustNewClient()
		if err := a.rabbitClient.DeclareExchange(exchange); err != nil {
			panic(err)
		}

		a.outboxWorker = outbox.NewWorker(outboxrepo.NewOutboxRepository(postgresClient.Pool()), a.rabbitClient, m)
		orderOpts = append(orderOpts, ordersvc.WithOutbox(exchange, viper.GetInt("rabbitmq.outbox.max_retries")))
	}

	orderSvc := ordersvc.MustNewOrderService(orderOpts...)
	catalogSvc := catalogsvc.MustNewCatalogService(catalogsvc.WithPostgresClient(postgresClient))

	transportOpts := []httptransport.Option{
		httptransport.WithMetrics(m),
		httptransport.WithHealthCheck(postgresClient.Ping),
	}
	if secret := viper.GetString("auth.jwt_secret"); secret != "" {
		transportOpts = append(transportOpts, httptransport.WithVerifier(auth.NewVerifier(secret)))
	} else {
		slog.Warn("auth.jwt_secret is empty, order routes are not authenticated")
	}

	a.transport = httptransport.NewHTTPTransport(orderSvc, catalogSvc, transportOpts...)
	a.transport.RegisterRoutes()

	return a
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	if a.outboxWorker != nil {
		g.Go(func() error {
			a.outboxWorker.Start(gctx)

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")

		return a.shutdown()
	})

	if err := g.Wait(); err != nil {
		slog.Error("Application stopped with error", "error", err)
	}

	slog.Info("Application shutdown complete")
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		errs = append(errs, err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
			errs = append(errs, err)
		}
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otel.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
