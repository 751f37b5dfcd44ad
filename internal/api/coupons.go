package api

import (
	"context"
	"net/http"

	"github.com/luxurygifts/storefront/internal/coupon"
)

type CouponsClient struct{ c *Client }

func NewCouponsClient(c *Client) *CouponsClient { return &CouponsClient{c: c} }

// CouponLine is the line-item summary sent with a validation request.
type CouponLine struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CouponValidateRequest struct {
	Code     string       `json:"code"`
	Items    []CouponLine `json:"items"`
	Subtotal float64      `json:"subtotal"`
}

// Validate asks the server whether a code applies to the current cart. The
// result is authoritative: the client displays the returned discount and
// never recomputes eligibility.
func (cc *CouponsClient) Validate(ctx context.Context, req CouponValidateRequest) (*coupon.Applied, error) {
	var applied coupon.Applied
	if err := cc.c.do(ctx, http.MethodPost, "/coupons/validate", nil, req, &applied); err != nil {
		return nil, err
	}
	return &applied, nil
}

func (cc *CouponsClient) List(ctx context.Context) ([]coupon.Coupon, error) {
	var coupons []coupon.Coupon
	if err := cc.c.do(ctx, http.MethodGet, "/coupons", nil, nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (cc *CouponsClient) Create(ctx context.Context, c coupon.Coupon) (*coupon.Coupon, error) {
	var created coupon.Coupon
	if err := cc.c.do(ctx, http.MethodPost, "/coupons", nil, c, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (cc *CouponsClient) Update(ctx context.Context, c coupon.Coupon) (*coupon.Coupon, error) {
	var updated coupon.Coupon
	if err := cc.c.do(ctx, http.MethodPut, "/coupons/"+c.ID, nil, c, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (cc *CouponsClient) Delete(ctx context.Context, couponID string) error {
	return cc.c.do(ctx, http.MethodDelete, "/coupons/"+couponID, nil, nil, nil)
}
