// Package server provides the HTTP server and routing.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/zeronista/retailops/internal/auth"
	"github.com/zeronista/retailops/internal/config"
	"github.com/zeronista/retailops/internal/dataset"
	"github.com/zeronista/retailops/internal/model"
	"github.com/zeronista/retailops/internal/proxy"
	"github.com/zeronista/retailops/internal/service"
	"github.com/zeronista/retailops/internal/store"
)

// DatasetCache is the cache surface the handlers need; satisfied by
// *dataset.Cache.
type DatasetCache interface {
	Load(ds dataset.Dataset) ([]model.Invoice, dataset.Report, error)
	Clear()
	Age(ds dataset.Dataset) (time.Duration, bool)
	TTL() time.Duration
}

// Server holds dependencies for all HTTP handlers.
type Server struct {
	cfg   *config.Config
	cache DatasetCache
	svc   *service.Service
	store store.Store
	proxy *proxy.Proxy
	authn *auth.Middleware
	log   zerolog.Logger
}

// New creates the server.
func New(cfg *config.Config, cache DatasetCache, svc *service.Service, st store.Store, px *proxy.Proxy, log zerolog.Logger) *Server {
	return &Server{
		cfg:   cfg,
		cache: cache,
		svc:   svc,
		store: st,
		proxy: px,
		authn: auth.NewMiddleware(st, log),
		log:   log.With().Str("component", "server").Logger(),
	}
}

// anyManagerRole gates the data views: every authenticated manager may
// browse the dataset, while mutation and audit routes stay admin-only.
var anyManagerRole = []model.Role{
	model.RoleAdmin,
	model.RoleInventoryManager,
	model.RoleMarketingManager,
	model.RoleSalesManager,
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.authn.Authenticate)

	r.Get("/health", s.handleHealth)
	r.Get("/dashboard", s.handleDashboard)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAnyRole(anyManagerRole...))

			r.Get("/invoices", s.handleInvoices)
			r.Get("/invoices/{invoiceNo}", s.handleInvoiceByNo)
			r.Get("/products", s.handleProducts)
			r.Get("/customers", s.handleCustomers)
			r.Get("/orders", s.handleOrders)
			r.Get("/reports/summary", s.handleReportSummary)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAnyRole(model.RoleAdmin))

			r.Post("/cache/clear", s.handleCacheClear)
			r.Get("/loads", s.handleLoadReports)
		})

		r.Route("/proxy", func(r chi.Router) {
			r.With(auth.RequireAnyRole(anyManagerRole...)).Get("/health", s.handleProxyHealth)
			r.Get("/{category}/*", s.handleProxyForward)
			r.Post("/{category}/*", s.handleProxyForward)
			r.Get("/{category}", s.handleProxyForward)
			r.Post("/{category}", s.handleProxyForward)
		})
	})

	return r
}

// loggingMiddleware logs one line per request with status and timing.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request")
	})
}
