package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/partnerdesk/internal/logger"
	"github.com/Simplici0/partnerdesk/internal/material"
	"github.com/Simplici0/partnerdesk/internal/metrics"
	"github.com/Simplici0/partnerdesk/internal/partners"
	"github.com/Simplici0/partnerdesk/internal/pricing"
	"github.com/Simplici0/partnerdesk/internal/reference"
)

type partnerStore interface {
	List(ctx context.Context) ([]partners.Partner, error)
	Get(ctx context.Context, id int64) (partners.Partner, error)
	Create(ctx context.Context, in partners.Input) (partners.Partner, error)
	Update(ctx context.Context, id int64, in partners.Input) (partners.Partner, error)
	Delete(ctx context.Context, id int64) error
	SalesHistory(ctx context.Context, partnerID int64) ([]partners.Sale, error)
	RecordSale(ctx context.Context, partnerID int64, in partners.SaleInput) (partners.Sale, error)
	Products(ctx context.Context, partnerID int64) ([]partners.Product, error)
	ListProducts(ctx context.Context) ([]partners.Product, error)
}

type server struct {
	log      *logger.Logger
	catalog  reference.Catalog
	calc     *material.Calculator
	partners partnerStore
	tiers    pricing.Table
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	health   func(context.Context) error
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/product-types", s.handleListProductTypes)
		r.Get("/material-types", s.handleListMaterialTypes)
		r.Get("/products", s.handleListProducts)
		r.Get("/discounts", s.handleResolveDiscount)

		r.Post("/materials/calculate", s.handleCalculate)
		r.Post("/materials/explain", s.handleExplain)
		r.Get("/materials/example", s.handleExample)

		r.Get("/partners", s.handleListPartners)
		r.Post("/partners", s.handleCreatePartner)
		r.Route("/partners/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPartner)
			r.Put("/", s.handleUpdatePartner)
			r.Delete("/", s.handleDeletePartner)
			r.Get("/sales", s.handleSalesHistory)
			r.Post("/sales", s.handleRecordSale)
			r.Get("/products", s.handlePartnerProducts)
		})
	})

	return r
}

// accessLog puts the request id on the logging context and records one line
// plus a duration sample per request.
func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := s.log.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)

		s.metrics.ObserveHTTP(r.Method, route, status, elapsed)
		s.log.Info(s.log.WithFields(ctx, map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      status,
			"bytes":       ww.BytesWritten(),
			"duration_ms": elapsed.Milliseconds(),
		}), "http.request")
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
