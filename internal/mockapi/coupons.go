package mockapi

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxurygifts/storefront/internal/coupon"
)

var (
	ErrCouponNotFound  = errors.New("coupon code is not valid")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponNotActive = errors.New("coupon is not active yet")
)

// couponSet is the server-side coupon authority. A bloom filter in front of
// the map short-circuits unknown codes before the map lookup. The filter is
// not safe for concurrent Test vs Add, so every filter access happens under
// cs.mu alongside the map.
type couponSet struct {
	mu     sync.RWMutex
	byCode map[string]coupon.Coupon
	filter *bloom.BloomFilter
	now    func() time.Time
}

func newCouponSet(coupons []coupon.Coupon, now func() time.Time) *couponSet {
	if now == nil {
		now = time.Now
	}
	n := uint(len(coupons))
	if n < 64 {
		n = 64
	}
	cs := &couponSet{
		byCode: make(map[string]coupon.Coupon, len(coupons)),
		filter: bloom.NewWithEstimates(n, 0.01),
		now:    now,
	}
	for _, c := range coupons {
		cs.add(c)
	}
	return cs
}

func (cs *couponSet) add(c coupon.Coupon) {
	key := strings.ToUpper(strings.TrimSpace(c.Code))
	cs.mu.Lock()
	cs.byCode[key] = c
	cs.filter.AddString(key)
	cs.mu.Unlock()
}

func (cs *couponSet) create(c coupon.Coupon) coupon.Coupon {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UpdatedAt = cs.now().UTC()
	cs.add(c)
	return c
}

// update replaces a coupon by id. A changed code leaves the old key in the
// bloom filter; the map lookup still rejects it.
func (cs *couponSet) update(c coupon.Coupon) (coupon.Coupon, error) {
	cs.mu.Lock()
	var oldKey string
	for key, existing := range cs.byCode {
		if existing.ID == c.ID {
			oldKey = key
			break
		}
	}
	if oldKey == "" {
		cs.mu.Unlock()
		return coupon.Coupon{}, ErrCouponNotFound
	}
	delete(cs.byCode, oldKey)
	cs.mu.Unlock()

	c.UpdatedAt = cs.now().UTC()
	cs.add(c)
	return c, nil
}

func (cs *couponSet) remove(id string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for key, existing := range cs.byCode {
		if existing.ID == id {
			delete(cs.byCode, key)
			return nil
		}
	}
	return ErrCouponNotFound
}

func (cs *couponSet) list() []coupon.Coupon {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]coupon.Coupon, 0, len(cs.byCode))
	for _, c := range cs.byCode {
		out = append(out, c)
	}
	return out
}

// validate applies the eligibility rules and returns the confirmed
// discount. Codes compare case-insensitively.
func (cs *couponSet) validate(code string, subtotal float64) (*coupon.Applied, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return nil, ErrCouponNotFound
	}

	cs.mu.RLock()
	known := cs.filter.TestString(key)
	c, ok := cs.byCode[key]
	cs.mu.RUnlock()
	if !known || !ok {
		// known && !ok is a bloom false positive.
		return nil, ErrCouponNotFound
	}

	now := cs.now()
	if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
		return nil, ErrCouponNotActive
	}
	if !c.ValidTo.IsZero() && now.After(c.ValidTo) {
		return nil, ErrCouponExpired
	}
	if subtotal < c.MinPurchase {
		return nil, fmt.Errorf("minimum purchase of %.2f not met", c.MinPurchase)
	}

	sub := decimal.NewFromFloat(subtotal)
	var discount decimal.Decimal
	switch c.Type {
	case coupon.TypePercentage:
		discount = sub.Mul(decimal.NewFromFloat(c.Amount)).Div(decimal.NewFromInt(100)).Round(2)
		if c.MaxDiscount > 0 {
			limit := decimal.NewFromFloat(c.MaxDiscount)
			if discount.GreaterThan(limit) {
				discount = limit
			}
		}
	case coupon.TypeFixed:
		discount = decimal.NewFromFloat(c.Amount)
	default:
		return nil, ErrCouponNotFound
	}

	return &coupon.Applied{
		Code:           c.Code,
		DiscountAmount: discount.InexactFloat64(),
		Coupon:         &c,
	}, nil
}
