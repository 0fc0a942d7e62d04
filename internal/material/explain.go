package material

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Simplici0/partnerdesk/internal/reference"
)

// Inputs used by Example, matching the sample order shown to new users.
const (
	ExampleProductQuantity = 100
	ExampleParam1          = 2.5
	ExampleParam2          = 1.8
)

// ErrNotEnoughData is returned by Example when the catalog has no product or material types.
var ErrNotEnoughData = errors.New("not enough reference data for an example calculation")

var explainTemplate = template.Must(template.New("explain").Parse(`Material requirement calculation

Parameters:
- Product type #{{.ProductType.ID}} {{.ProductType.Name}} (coefficient: {{.B.Coefficient}})
- Material type #{{.MaterialType.ID}} {{.MaterialType.Name}} (waste: {{.B.WastePercentage}}%)
- Product quantity: {{.Quantity}} pcs
- Param 1: {{.B.Param1}}
- Param 2: {{.B.Param2}}

Calculation:
1. Material per unit = {{.B.Param1}} × {{.B.Param2}} × {{.B.Coefficient}} = {{.B.MaterialPerUnit}}
2. Total material without waste = {{.B.MaterialPerUnit}} × {{.Quantity}} = {{.B.TotalMaterialNeeded}}
3. Waste factor = 1 + ({{.B.WastePercentage}}% / 100) = {{.B.WasteFactor}}
4. Material with waste = {{.B.TotalMaterialNeeded}} × {{.B.WasteFactor}} = {{.B.MaterialWithWaste}}
5. Rounded up ({{.Rounding}}) = {{.Result}}

Result: {{.Result}} units of material
`))

type explainView struct {
	ProductType  reference.ProductType
	MaterialType reference.MaterialType
	B            Breakdown
	Quantity     int64
	Rounding     string
	Result       int64
}

// Render formats a finished calculation. It only reads values already in res.
func Render(res Result) (string, error) {
	var sb strings.Builder
	err := explainTemplate.Execute(&sb, explainView{
		ProductType:  res.Breakdown.ProductType,
		MaterialType: res.Breakdown.MaterialType,
		B:            res.Breakdown,
		Quantity:     res.Request.ProductQuantity,
		Rounding:     res.Rounding,
		Result:       res.Quantity,
	})
	if err != nil {
		return "", fmt.Errorf("render calculation: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// Explain runs the calculation once and renders its breakdown.
func (c *Calculator) Explain(ctx context.Context, req Request) (string, Result, error) {
	res, err := c.Calculate(ctx, req)
	if err != nil {
		return "", Result{}, err
	}
	text, err := Render(res)
	if err != nil {
		return "", Result{}, err
	}
	return text, res, nil
}

// ExplainText is Explain for presentation code: failures come back as text.
func (c *Calculator) ExplainText(ctx context.Context, req Request) string {
	text, _, err := c.Explain(ctx, req)
	if err != nil {
		return "Calculation failed: " + err.Error()
	}
	return text
}

// Example explains a sample order for the first product type and the first
// material type in the catalog.
func (c *Calculator) Example(ctx context.Context, catalog reference.Catalog) (string, Result, error) {
	productTypes, err := catalog.ListProductTypes(ctx)
	if err != nil {
		return "", Result{}, fmt.Errorf("list product types: %w", err)
	}
	materialTypes, err := catalog.ListMaterialTypes(ctx)
	if err != nil {
		return "", Result{}, fmt.Errorf("list material types: %w", err)
	}
	if len(productTypes) == 0 || len(materialTypes) == 0 {
		return "", Result{}, ErrNotEnoughData
	}

	return c.Explain(ctx, Request{
		ProductTypeID:   productTypes[0].ID,
		MaterialTypeID:  materialTypes[0].ID,
		ProductQuantity: ExampleProductQuantity,
		Param1:          ExampleParam1,
		Param2:          ExampleParam2,
	})
}
