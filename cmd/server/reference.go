package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/partnerdesk/internal/apperr"
	"github.com/Simplici0/partnerdesk/internal/pricing"
)

func (s *server) handleListProductTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListProductTypes(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, types)
}

func (s *server) handleListMaterialTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListMaterialTypes(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, types)
}

func (s *server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.partners.ListProducts(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, products)
}

type discountResponse struct {
	CumulativeSales    int64            `json:"cumulative_sales"`
	DiscountPercentage int              `json:"discount_percentage"`
	Progress           pricing.Progress `json:"progress"`
}

func (s *server) handleResolveDiscount(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("sales"))
	sales, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(r.Context(), w, apperr.Wrap(apperr.CodeValidation, err, "validation failed").
			WithDetails(map[string]string{"sales": "must be an integer"}))
		return
	}

	table := s.discountTable()
	percent := table.Resolve(sales)
	s.metrics.ObserveDiscount(percent)

	if sales < 0 {
		sales = 0
	}
	writeSuccess(w, http.StatusOK, discountResponse{
		CumulativeSales:    sales,
		DiscountPercentage: percent,
		Progress:           table.Progress(sales),
	})
}

func (s *server) discountTable() pricing.Table {
	if len(s.tiers) == 0 {
		return pricing.DefaultTable
	}
	return s.tiers
}
