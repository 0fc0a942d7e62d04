// Package partners keeps partner records and their sales. Cumulative sales and
// the discount tier are derived on every read and never stored.
package partners

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound        = errors.New("partner not found")
	ErrNameRequired    = errors.New("partner name is required")
	ErrInvalidEmail    = errors.New("partner email is not a valid address")
	ErrInvalidPhone    = errors.New("partner phone is not a valid number")
	ErrDuplicateName   = errors.New("partner name already exists")
	ErrUnknownProduct  = errors.New("product does not exist")
	ErrInvalidQuantity = errors.New("sale quantity must be greater than 0")
	ErrInvalidSaleDate = errors.New("sale date must use the YYYY-MM-DD format")
)

const (
	registrationLayout = "2006-01-02 15:04:05"
	saleDateLayout     = "2006-01-02"
)

type Partner struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	ContactPerson      string    `json:"contact_person"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email"`
	Address            string    `json:"address"`
	RegisteredAt       time.Time `json:"registered_at"`
	CumulativeSales    int64     `json:"cumulative_sales"`
	DiscountPercentage int       `json:"discount_percentage"`
}

// Input carries the editable partner fields.
type Input struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
	Phone         string `json:"phone" validate:"omitempty,phone,max=50"`
	Email         string `json:"email" validate:"omitempty,email,max=200"`
	Address       string `json:"address" validate:"max=500"`
}

func (in Input) normalized() Input {
	return Input{
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		Address:       strings.TrimSpace(in.Address),
	}
}

// validate checks a normalized Input. Contact fields other than the name are optional.
func (in Input) validate() error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Email != "" {
		if err := validate.Var(in.Email, "email"); err != nil {
			return ErrInvalidEmail
		}
	}
	if in.Phone != "" && !ValidPhone(in.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// PhoneRequirement describes the accepted phone format.
const PhoneRequirement = "must contain at least 10 digits and only digits, spaces, parentheses, '-' or '+'"

const minPhoneDigits = 10

var phonePattern = regexp.MustCompile(`^[\d\s()+-]+$`)

// ValidPhone reports whether phone uses only digits, spaces, parentheses,
// '-' and '+' and carries at least 10 digits.
func ValidPhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidations adds the "phone" tag used by Input to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
}

type Sale struct {
	ID          int64     `json:"id"`
	PartnerID   int64     `json:"partner_id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	SaleDate    time.Time `json:"sale_date"`
}

// SaleInput records a sale. An empty SaleDate means today.
type SaleInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	SaleDate  string `json:"sale_date" validate:"omitempty,datetime=2006-01-02"`
}

type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ProductTypeID int64  `json:"product_type_id"`
}

// parseStoredTime accepts both the timestamp and the date-only forms kept in the database.
func parseStoredTime(raw string) (time.Time, error) {
	if t, err := time.Parse(registrationLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(saleDateLayout, raw)
}
