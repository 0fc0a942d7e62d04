// Package material computes how much raw material a manufacturing order needs.
//
// The formula is
//
//	material_per_unit     = param1 * param2 * coefficient
//	total_material_needed = material_per_unit * product_quantity
//	waste_factor          = 1 + waste_percentage / 100
//	material_with_waste   = total_material_needed * waste_factor
//	result                = ceiling(material_with_waste)
//
// Arithmetic is exact decimal over the shortest decimal form of each float
// input, so 2.5 * 1.8 * 2 * 100 * 1.1 is exactly 990.
package material

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/reference"
)

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

// Request is a single calculation input.
type Request struct {
	ProductTypeID   int64   `json:"product_type_id"`
	MaterialTypeID  int64   `json:"material_type_id"`
	ProductQuantity int64   `json:"product_quantity"`
	Param1          float64 `json:"param1"`
	Param2          float64 `json:"param2"`
}

// Breakdown contains every intermediate value of the calculation.
type Breakdown struct {
	ProductType  reference.ProductType  `json:"product_type"`
	MaterialType reference.MaterialType `json:"material_type"`

	Param1          decimal.Decimal `json:"param1"`
	Param2          decimal.Decimal `json:"param2"`
	Coefficient     decimal.Decimal `json:"coefficient"`
	WastePercentage decimal.Decimal `json:"waste_percentage"`

	MaterialPerUnit     decimal.Decimal `json:"material_per_unit"`
	TotalMaterialNeeded decimal.Decimal `json:"total_material_needed"`
	WasteFactor         decimal.Decimal `json:"waste_factor"`
	MaterialWithWaste   decimal.Decimal `json:"material_with_waste"`
}

// Result groups the rounded quantity with the breakdown it was derived from.
type Result struct {
	Request   Request   `json:"request"`
	Breakdown Breakdown `json:"breakdown"`
	Rounding  string    `json:"rounding"`
	Quantity  int64     `json:"quantity"`
}

// Observer is notified of every calculation outcome: "ok" or a Reason.
type Observer interface {
	ObserveCalculation(outcome string)
}

type Option func(*Calculator)

func WithRounding(r Rounding) Option {
	return func(c *Calculator) { c.rounding = r }
}

func WithObserver(o Observer) Option {
	return func(c *Calculator) { c.observer = o }
}

// Calculator validates requests against a reference.Store and applies the formula.
type Calculator struct {
	store    reference.Store
	rounding Rounding
	observer Observer
}

func NewCalculator(store reference.Store, opts ...Option) *Calculator {
	c := &Calculator{store: store, rounding: RoundCeiling}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) Rounding() Rounding {
	return c.rounding
}

// MaterialRequired returns only the rounded quantity for the given inputs.
func (c *Calculator) MaterialRequired(ctx context.Context, productTypeID, materialTypeID, productQuantity int64, param1, param2 float64) (int64, error) {
	res, err := c.Calculate(ctx, Request{
		ProductTypeID:   productTypeID,
		MaterialTypeID:  materialTypeID,
		ProductQuantity: productQuantity,
		Param1:          param1,
		Param2:          param2,
	})
	if err != nil {
		return 0, err
	}
	return res.Quantity, nil
}

// Calculate validates req and computes the required material.
// Validation runs in a fixed order and the first failure is returned.
func (c *Calculator) Calculate(ctx context.Context, req Request) (Result, error) {
	res, err := c.calculate(ctx, req)
	c.observe(err)
	return res, err
}

func (c *Calculator) calculate(ctx context.Context, req Request) (Result, error) {
	if req.ProductQuantity <= 0 {
		return Result{}, ErrEmptyQuantity
	}
	if !positiveFinite(req.Param1) {
		return Result{}, ErrInvalidParam1
	}
	if !positiveFinite(req.Param2) {
		return Result{}, ErrInvalidParam2
	}

	productType, err := c.store.LookupProductType(ctx, req.ProductTypeID)
	if err != nil {
		if errors.Is(err, reference.ErrNotFound) {
			return Result{}, ErrUnknownProductType
		}
		return Result{}, fmt.Errorf("lookup product type: %w", err)
	}

	materialType, err := c.store.LookupMaterialType(ctx, req.MaterialTypeID)
	if err != nil {
		if errors.Is(err, reference.ErrNotFound) {
			return Result{}, ErrUnknownMaterialType
		}
		return Result{}, fmt.Errorf("lookup material type: %w", err)
	}

	if !positiveFinite(productType.Coefficient) {
		return Result{}, invalidReference("product type %d coefficient %v", productType.ID, productType.Coefficient)
	}
	if math.IsNaN(materialType.WastePercentage) || math.IsInf(materialType.WastePercentage, 0) || materialType.WastePercentage < 0 {
		return Result{}, invalidReference("material type %d waste percentage %v", materialType.ID, materialType.WastePercentage)
	}

	b := Breakdown{
		ProductType:     productType,
		MaterialType:    materialType,
		Param1:          decimal.NewFromFloat(req.Param1),
		Param2:          decimal.NewFromFloat(req.Param2),
		Coefficient:     decimal.NewFromFloat(productType.Coefficient),
		WastePercentage: decimal.NewFromFloat(materialType.WastePercentage),
	}
	b.MaterialPerUnit = b.Param1.Mul(b.Param2).Mul(b.Coefficient)
	b.TotalMaterialNeeded = b.MaterialPerUnit.Mul(decimal.NewFromInt(req.ProductQuantity))
	b.WasteFactor = decimal.NewFromInt(1).Add(b.WastePercentage.Shift(-2))
	b.MaterialWithWaste = b.TotalMaterialNeeded.Mul(b.WasteFactor)

	rounded := c.rounding.apply(b.MaterialWithWaste)
	if rounded.GreaterThan(maxInt64) {
		return Result{}, ErrResultOverflow
	}

	return Result{
		Request:   req,
		Breakdown: b,
		Rounding:  c.rounding.String(),
		Quantity:  rounded.IntPart(),
	}, nil
}

func (c *Calculator) observe(err error) {
	if c.observer == nil {
		return
	}
	var calcErr *CalculationError
	switch {
	case err == nil:
		c.observer.ObserveCalculation("ok")
	case errors.As(err, &calcErr):
		c.observer.ObserveCalculation(string(calcErr.Reason))
	default:
		c.observer.ObserveCalculation("error")
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
