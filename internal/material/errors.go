package material

import (
	"errors"
	"fmt"
)

// Kind groups failure reasons into what the caller can do about them.
type Kind string

const (
	KindInvalidInput   Kind = "invalid_input"
	KindLookupNotFound Kind = "lookup_not_found"
)

// Reason identifies which validation step rejected a request.
type Reason string

const (
	ReasonEmptyQuantity       Reason = "empty_quantity"
	ReasonInvalidParam1       Reason = "invalid_param1"
	ReasonInvalidParam2       Reason = "invalid_param2"
	ReasonUnknownProductType  Reason = "unknown_product_type"
	ReasonUnknownMaterialType Reason = "unknown_material_type"
	ReasonResultOverflow      Reason = "result_overflow"
)

var reasonMessages = map[Reason]string{
	ReasonEmptyQuantity:       "product quantity must be greater than 0",
	ReasonInvalidParam1:       "param1 must be a positive number",
	ReasonInvalidParam2:       "param2 must be a positive number",
	ReasonUnknownProductType:  "product type does not exist",
	ReasonUnknownMaterialType: "material type does not exist",
	ReasonResultOverflow:      "required quantity does not fit in a 64-bit integer",
}

// CalculationError is returned for every request the calculator refuses.
type CalculationError struct {
	Reason Reason
}

func (e *CalculationError) Error() string {
	msg, ok := reasonMessages[e.Reason]
	if !ok {
		msg = string(e.Reason)
	}
	return "material calculation: " + msg
}

// Kind reports whether the request was malformed or referenced missing data.
func (e *CalculationError) Kind() Kind {
	switch e.Reason {
	case ReasonUnknownProductType, ReasonUnknownMaterialType:
		return KindLookupNotFound
	default:
		return KindInvalidInput
	}
}

// Is matches another CalculationError with the same reason, or one of the kind sentinels.
func (e *CalculationError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind() == KindInvalidInput
	case ErrLookupNotFound:
		return e.Kind() == KindLookupNotFound
	}
	var other *CalculationError
	if errors.As(target, &other) {
		return other.Reason == e.Reason
	}
	return false
}

var (
	ErrInvalidInput   = errors.New("material calculation: invalid input")
	ErrLookupNotFound = errors.New("material calculation: lookup not found")

	ErrEmptyQuantity       = &CalculationError{Reason: ReasonEmptyQuantity}
	ErrInvalidParam1       = &CalculationError{Reason: ReasonInvalidParam1}
	ErrInvalidParam2       = &CalculationError{Reason: ReasonInvalidParam2}
	ErrUnknownProductType  = &CalculationError{Reason: ReasonUnknownProductType}
	ErrUnknownMaterialType = &CalculationError{Reason: ReasonUnknownMaterialType}
	ErrResultOverflow      = &CalculationError{Reason: ReasonResultOverflow}
)

// ErrInvalidReference is returned when the store hands back a coefficient or
// waste percentage the formula cannot use. It is a data problem, not a caller one.
var ErrInvalidReference = errors.New("material calculation: invalid reference data")

func invalidReference(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidReference}, args...)...)
}
