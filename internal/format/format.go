// Package format holds pure display formatters shared by every view layer.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money formats an amount with its currency symbol and two decimal places.
func Money(amount decimal.Decimal, currency string) string {
	fixed := amount.StringFixed(2)
	switch currency {
	case "INR":
		return "₹" + fixed
	case "USD":
		return "$" + fixed
	case "EUR":
		return "€" + fixed
	default:
		return fixed + " " + currency
	}
}

// MoneyFloat is Money for values still carried as float64 on the wire.
func MoneyFloat(amount float64, currency string) string {
	return Money(decimal.NewFromFloat(amount), currency)
}

// Date renders a timestamp for order lists and tracking views.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// DateTime renders a timestamp including the time of day.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// Phone groups a phone number for display. Ten-digit numbers render in the
// domestic 5+5 grouping, numbers with a 91 country prefix render with +91;
// anything else is returned untouched.
func Phone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch {
	case len(digits) == 10:
		return fmt.Sprintf("%s %s", digits[:5], digits[5:])
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return fmt.Sprintf("+91 %s %s", digits[2:7], digits[7:])
	default:
		return raw
	}
}
