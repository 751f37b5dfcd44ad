package checkout

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/luxurygifts/storefront/internal/order"
)

// FieldErrors are inline validation failures keyed by field. They block
// submission and render next to the offending inputs; they are never
// surfaced as toasts.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// CardDetails are collected only for the direct card payment method.
// Expiry is checked against the clock in validateCard, not by tag.
type CardDetails struct {
	Number   string `validate:"required,credit_card"`
	Holder   string `validate:"required"`
	ExpMonth int    `validate:"required,min=1,max=12"`
	ExpYear  int    `validate:"required"`
	CVC      string `validate:"required,len=3"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateAddress(prefix string, a order.Address, fe FieldErrors) {
	if strings.TrimSpace(a.Name) == "" {
		fe[prefix+".name"] = "name is required"
	}
	if strings.TrimSpace(a.Line1) == "" {
		fe[prefix+".line1"] = "address line is required"
	}
	if strings.TrimSpace(a.City) == "" {
		fe[prefix+".city"] = "city is required"
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		fe[prefix+".postalCode"] = "postal code is required"
	}
	if strings.TrimSpace(a.Phone) == "" {
		fe[prefix+".phone"] = "phone is required"
	}
}

func validateCard(card *CardDetails, fe FieldErrors) {
	if card == nil {
		fe["card"] = "card details are required"
		return
	}
	if err := validate.Struct(card); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				fe["card."+strings.ToLower(ve.Field())] = cardFieldMessage(ve)
			}
		} else {
			fe["card"] = "card details are invalid"
		}
		return
	}

	// A card is valid through the last day of its expiry month.
	now := time.Now()
	if card.ExpYear < now.Year() || (card.ExpYear == now.Year() && card.ExpMonth < int(now.Month())) {
		fe["card.expiry"] = "card is expired"
	}
}

func cardFieldMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "this field is required"
	case "credit_card":
		return "card number is not valid"
	case "len":
		return "must be " + ve.Param() + " digits"
	case "min", "max":
		return "out of range"
	default:
		return "invalid value"
	}
}
