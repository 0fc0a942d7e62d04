package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/partnerdesk/internal/apperr"
	"github.com/Simplici0/partnerdesk/internal/partners"
)

func parsePartnerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errors.New("id must be positive")
		}
		return 0, apperr.Wrap(apperr.CodeValidation, err, "invalid partner id").
			WithDetails(map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}

func (s *server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	list, err := s.partners.List(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, list)
}

func (s *server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var in partners.Input
	if err := decodeJSONBody(r, &in); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	p, err := s.partners.Create(r.Context(), in)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.log.Info(s.log.WithField(r.Context(), "partner_id", p.ID), "partner created")
	writeSuccess(w, http.StatusCreated, p)
}

func (s *server) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	id, err := parsePartnerID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	p, err := s.partners.Get(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, p)
}

func (s *server) handleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, err := parsePartnerID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	var in partners.Input
	if err := decodeJSONBody(r, &in); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	p, err := s.partners.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, p)
}

func (s *server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	id, err := parsePartnerID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.partners.Delete(r.Context(), id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.log.Info(s.log.WithField(r.Context(), "partner_id", id), "partner deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSalesHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parsePartnerID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	sales, err := s.partners.SalesHistory(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, sales)
}

func (s *server) handleRecordSale(w http.ResponseWriter, r *http.Request) {
	id, err := parsePartnerID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	var in partners.SaleInput
	if err := decodeJSONBody(r, &in); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	sale, err := s.partners.RecordSale(r.Context(), id, in)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.metrics.IncSales()
	writeSuccess(w, http.StatusCreated, sale)
}

func (s *server) handlePartnerProducts(w http.ResponseWriter, r *http.Request) {
	id, err := parsePartnerID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	products, err := s.partners.Products(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, products)
}
