package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMoney(t *testing.T) {
	tests := map[string]struct {
		amount   string
		currency string
		want     string
	}{
		"rupees":           {"1499.5", "INR", "₹1499.50"},
		"dollars":          {"12", "USD", "$12.00"},
		"euros":            {"0.99", "EUR", "€0.99"},
		"unknown currency": {"42", "AED", "42.00 AED"},
		"zero":             {"0", "INR", "₹0.00"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatal(err)
			}
			if got := Money(d, tt.currency); got != tt.want {
				t.Errorf("Money(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestMoneyFloat(t *testing.T) {
	if got := MoneyFloat(52.5, "INR"); got != "₹52.50" {
		t.Fatalf("MoneyFloat = %q", got)
	}
}

func TestDate(t *testing.T) {
	at := time.Date(2026, time.March, 7, 14, 5, 0, 0, time.UTC)
	if got := Date(at); got != "Mar 7, 2026" {
		t.Errorf("Date = %q", got)
	}
	if got := DateTime(at); got != "Mar 7, 2026 2:05 PM" {
		t.Errorf("DateTime = %q", got)
	}
	if got := Date(time.Time{}); got != "" {
		t.Errorf("zero time should render empty, got %q", got)
	}
}

func TestPhone(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"ten digits":             {"9876543210", "98765 43210"},
		"ten digits with dashes": {"98765-43210", "98765 43210"},
		"country prefix":         {"919876543210", "+91 98765 43210"},
		"plus country prefix":    {"+91 9876543210", "+91 98765 43210"},
		"too short":              {"12345", "12345"},
		"foreign number":         {"+1 (555) 000-1234", "+1 (555) 000-1234"},
		"empty":                  {"", ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Phone(tt.in); got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
