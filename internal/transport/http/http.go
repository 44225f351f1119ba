package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/corray333/backend-labs/commerce/docs"
	"github.com/corray333/backend-labs/commerce/internal/metrics"
	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
	createorder "github.com/corray333/backend-labs/commerce/internal/transport/http/create_order"
	deleteorder "github.com/corray333/backend-labs/commerce/internal/transport/http/delete_order"
	getclient "github.com/corray333/backend-labs/commerce/internal/transport/http/get_client"
	getorder "github.com/corray333/backend-labs/commerce/internal/transport/http/get_order"
	getproduct "github.com/corray333/backend-labs/commerce/internal/transport/http/get_product"
	listorders "github.com/corray333/backend-labs/commerce/internal/transport/http/list_orders"
	"github.com/corray333/backend-labs/commerce/internal/transport/http/response"
	updateorder "github.com/corray333/backend-labs/commerce/internal/transport/http/update_order"
	"github.com/corray333/backend-labs/commerce/pkg/http/middleware/auth"
	metricsmw "github.com/corray333/backend-labs/commerce/pkg/http/middleware/metrics"
	"github.com/corray333/backend-labs/commerce/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/commerce/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type orderService interface {
	Create(ctx context.Context, model order.CreateOrderModel) (order.Order, error)
	Get(ctx context.Context, id int64) (order.Order, error)
	List(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	Update(ctx context.Context, id int64, upd order.UpdateOrderModel) (order.Order, error)
	Delete(ctx context.Context, id int64) error
}

type catalogService interface {
	GetClient(ctx context.Context, id int64) (client.Client, error)
	GetProduct(ctx context.Context, id int64) (product.Product, error)
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	orders   orderService
	catalog  catalogService
	metrics  *metrics.Metrics
	verifier *auth.Verifier
	health   func(ctx context.Context) error
}

// Option configures the HTTPTransport.
type Option func(*HTTPTransport)

// WithMetrics enables request metrics and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *HTTPTransport) {
		h.metrics = m
	}
}

// WithVerifier enables bearer authentication on order routes.
func WithVerifier(v *auth.Verifier) Option {
	return func(h *HTTPTransport) {
		h.verifier = v
	}
}

// WithHealthCheck sets the probe behind /healthz.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(h *HTTPTransport) {
		h.health = check
	}
}

func NewHTTPTransport(orders orderService, catalog catalogService, opts ...Option) *HTTPTransport {
	h := &HTTPTransport{
		orders:  orders,
		catalog: catalog,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.router = h.newRouter()
	h.server = newServer(h.router)

	return h
}

// Handler returns the router, for tests and embedding.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/healthz", h.healthz)
	if h.metrics != nil {
		h.router.Handle("/metrics", promhttp.Handler())
	}
	h.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h.router.Route("/orders", func(r chi.Router) {
		r.Use(auth.Authenticate(h.verifier))

		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}", h.updateOrder)
		r.With(auth.RequireAdmin).Delete("/{id}", h.deleteOrder)
	})

	h.router.Get("/clients/{id}", h.getClient)
	h.router.Get("/products/{id}", h.getProduct)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orders)
}

func (h *HTTPTransport) updateOrder(w http.ResponseWriter, r *http.Request) {
	updateorder.UpdateOrder(w, r, h.orders)
}

func (h *HTTPTransport) deleteOrder(w http.ResponseWriter, r *http.Request) {
	deleteorder.DeleteOrder(w, r, h.orders)
}

func (h *HTTPTransport) getClient(w http.ResponseWriter, r *http.Request) {
	getclient.GetClient(w, r, h.catalog)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	getproduct.GetProduct(w, r, h.catalog)
}

func (h *HTTPTransport) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.health(ctx); err != nil {
			slog.WarnContext(r.Context(), "Health check failed", "error", err)
			response.JSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})

			return
		}
	}

	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPTransport) newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware)
	if h.metrics != nil {
		router.Use(metricsmw.NewMetricsMiddleware(h.metrics))
	}

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:      router,
		ReadTimeout:  time.Duration(viper.GetInt("server.http.read_timeout_seconds")) * time.Second,
		WriteTimeout: time.Duration(viper.GetInt("server.http.write_timeout_seconds")) * time.Second,
	}
}
