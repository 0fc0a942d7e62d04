package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/partnerdesk/internal/apperr"
	"github.com/Simplici0/partnerdesk/internal/material"
	"github.com/Simplici0/partnerdesk/internal/partners"
)

type successEnvelope struct {
	Data any `json:"data"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Data: data})
}

func (s *server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := toAppError(err)
	meta := apperr.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case apperr.CodeValidation, apperr.CodeNotFound, apperr.CodeConflict:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := errorEnvelope{
		Error: apiError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}
	if meta.DetailsAllowed {
		payload.Error.Details = typed.Details()
	}

	if s.log != nil {
		ctx = s.log.WithField(ctx, "error_code", string(typed.Code()))
		if meta.HTTPStatus >= http.StatusInternalServerError {
			s.log.Error(ctx, "request.error", err)
		} else {
			s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

// toAppError maps domain errors onto the public error codes.
func toAppError(err error) *apperr.Error {
	if typed := apperr.As(err); typed != nil {
		return typed
	}

	var calcErr *material.CalculationError
	if errors.As(err, &calcErr) {
		code := apperr.CodeValidation
		if calcErr.Kind() == material.KindLookupNotFound {
			code = apperr.CodeNotFound
		}
		return apperr.Wrap(code, err, calcErr.Error()).WithDetails(map[string]string{
			"reason": string(calcErr.Reason),
			"kind":   string(calcErr.Kind()),
		})
	}

	switch {
	case errors.Is(err, material.ErrNotEnoughData):
		return apperr.Wrap(apperr.CodeNotFound, err, err.Error())
	case errors.Is(err, partners.ErrNotFound):
		return apperr.Wrap(apperr.CodeNotFound, err, err.Error())
	case errors.Is(err, partners.ErrDuplicateName):
		return apperr.Wrap(apperr.CodeConflict, err, err.Error())
	case errors.Is(err, partners.ErrNameRequired):
		return apperr.Wrap(apperr.CodeValidation, err, "validation failed").WithDetails(map[string]string{"name": "is required"})
	case errors.Is(err, partners.ErrInvalidEmail):
		return apperr.Wrap(apperr.CodeValidation, err, "validation failed").WithDetails(map[string]string{"email": "must be a valid email"})
	case errors.Is(err, partners.ErrInvalidPhone):
		return apperr.Wrap(apperr.CodeValidation, err, "validation failed").WithDetails(map[string]string{"phone": partners.PhoneRequirement})
	case errors.Is(err, partners.ErrUnknownProduct):
		return apperr.Wrap(apperr.CodeValidation, err, "validation failed").WithDetails(map[string]string{"product_id": "does not exist"})
	case errors.Is(err, partners.ErrInvalidQuantity):
		return apperr.Wrap(apperr.CodeValidation, err, "validation failed").WithDetails(map[string]string{"quantity": "must be greater than 0"})
	case errors.Is(err, partners.ErrInvalidSaleDate):
		return apperr.Wrap(apperr.CodeValidation, err, "validation failed").WithDetails(map[string]string{"sale_date": "must use the YYYY-MM-DD format"})
	}

	return apperr.Wrap(apperr.CodeInternal, err, "unexpected error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
