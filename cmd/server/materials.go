package main

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/material"
)

type calculationRequest struct {
	ProductTypeID   int64   `json:"product_type_id"`
	MaterialTypeID  int64   `json:"material_type_id"`
	ProductQuantity int64   `json:"product_quantity"`
	Param1          float64 `json:"param1"`
	Param2          float64 `json:"param2"`
}

func (c calculationRequest) toMaterial() material.Request {
	return material.Request{
		ProductTypeID:   c.ProductTypeID,
		MaterialTypeID:  c.MaterialTypeID,
		ProductQuantity: c.ProductQuantity,
		Param1:          c.Param1,
		Param2:          c.Param2,
	}
}

type breakdownView struct {
	ProductTypeName     string          `json:"product_type_name"`
	MaterialTypeName    string          `json:"material_type_name"`
	Coefficient         decimal.Decimal `json:"coefficient"`
	WastePercentage     decimal.Decimal `json:"waste_percentage"`
	MaterialPerUnit     decimal.Decimal `json:"material_per_unit"`
	TotalMaterialNeeded decimal.Decimal `json:"total_material_needed"`
	WasteFactor         decimal.Decimal `json:"waste_factor"`
	MaterialWithWaste   decimal.Decimal `json:"material_with_waste"`
}

type calculationResponse struct {
	Request   calculationRequest `json:"request"`
	Quantity  int64              `json:"quantity"`
	Rounding  string             `json:"rounding"`
	Breakdown breakdownView      `json:"breakdown"`
	Text      string             `json:"text,omitempty"`
}

func newCalculationResponse(res material.Result, text string) calculationResponse {
	b := res.Breakdown
	return calculationResponse{
		Request: calculationRequest{
			ProductTypeID:   res.Request.ProductTypeID,
			MaterialTypeID:  res.Request.MaterialTypeID,
			ProductQuantity: res.Request.ProductQuantity,
			Param1:          res.Request.Param1,
			Param2:          res.Request.Param2,
		},
		Quantity: res.Quantity,
		Rounding: res.Rounding,
		Breakdown: breakdownView{
			ProductTypeName:     b.ProductType.Name,
			MaterialTypeName:    b.MaterialType.Name,
			Coefficient:         b.Coefficient,
			WastePercentage:     b.WastePercentage,
			MaterialPerUnit:     b.MaterialPerUnit,
			TotalMaterialNeeded: b.TotalMaterialNeeded,
			WasteFactor:         b.WasteFactor,
			MaterialWithWaste:   b.MaterialWithWaste,
		},
		Text: text,
	}
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculationRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	res, err := s.calc.Calculate(r.Context(), req.toMaterial())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, newCalculationResponse(res, ""))
}

func (s *server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req calculationRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	text, res, err := s.calc.Explain(r.Context(), req.toMaterial())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, newCalculationResponse(res, text))
}

func (s *server) handleExample(w http.ResponseWriter, r *http.Request) {
	text, res, err := s.calc.Example(r.Context(), s.catalog)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeSuccess(w, http.StatusOK, newCalculationResponse(res, text))
}
