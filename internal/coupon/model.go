package coupon

import (
	"strings"
	"time"
)

type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

type Coupon struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Type         Type      `json:"type"`
	Amount       float64   `json:"amount"`
	MinPurchase  float64   `json:"minPurchase"`
	MaxDiscount  float64   `json:"maxDiscount,omitempty"`
	ValidFrom    time.Time `json:"validFrom"`
	ValidTo      time.Time `json:"validTo"`
	UsageLimit   int       `json:"usageLimit,omitempty"`
	PerUserLimit int       `json:"perUserLimit,omitempty"`
	UserGroup    string    `json:"userGroup,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Applied is the server-confirmed result of validating a code against a
// cart. Eligibility and the discount amount are computed server-side; the
// client only carries them.
type Applied struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discountAmount"`
	Coupon         *Coupon `json:"coupon,omitempty"`
}

// CodesEqual compares coupon codes case-insensitively.
func CodesEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (c Coupon) EntityID() string { return c.ID }

func (c Coupon) EntityVersion() int64 { return c.UpdatedAt.UnixMilli() }
