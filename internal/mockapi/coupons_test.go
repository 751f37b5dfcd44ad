package mockapi

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/luxurygifts/storefront/internal/coupon"
)

func fixedNow() time.Time {
	return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func testCoupons() []coupon.Coupon {
	now := fixedNow()
	return []coupon.Coupon{
		{
			ID: "c-pct", Code: "SAVE20", Type: coupon.TypePercentage, Amount: 20,
			MinPurchase: 50, MaxDiscount: 30,
			ValidFrom: now.AddDate(0, -1, 0), ValidTo: now.AddDate(0, 1, 0),
		},
		{
			ID: "c-flat", Code: "FLAT15", Type: coupon.TypeFixed, Amount: 15,
			ValidFrom: now.AddDate(0, -1, 0), ValidTo: now.AddDate(0, 1, 0),
		},
		{
			ID: "c-old", Code: "BYGONE", Type: coupon.TypeFixed, Amount: 5,
			ValidTo: now.AddDate(0, 0, -1),
		},
		{
			ID: "c-soon", Code: "PREVIEW", Type: coupon.TypeFixed, Amount: 5,
			ValidFrom: now.AddDate(0, 0, 1),
		},
	}
}

func TestCouponValidate(t *testing.T) {
	cs := newCouponSet(testCoupons(), fixedNow)

	tests := map[string]struct {
		code         string
		subtotal     float64
		wantDiscount float64
		wantErr      error
	}{
		"percentage":             {code: "SAVE20", subtotal: 100, wantDiscount: 20},
		"percentage capped":      {code: "SAVE20", subtotal: 500, wantDiscount: 30},
		"fixed":                  {code: "FLAT15", subtotal: 40, wantDiscount: 15},
		"case insensitive":       {code: "save20", subtotal: 100, wantDiscount: 20},
		"whitespace trimmed":     {code: "  FLAT15  ", subtotal: 40, wantDiscount: 15},
		"unknown code":           {code: "NOPE", subtotal: 100, wantErr: ErrCouponNotFound},
		"empty code":             {code: "", subtotal: 100, wantErr: ErrCouponNotFound},
		"expired":                {code: "BYGONE", subtotal: 100, wantErr: ErrCouponExpired},
		"not yet active":         {code: "PREVIEW", subtotal: 100, wantErr: ErrCouponNotActive},
		"below minimum purchase": {code: "SAVE20", subtotal: 49.99, wantErr: errAnyMinimum},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			applied, err := cs.validate(tt.code, tt.subtotal)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("validate(%q, %v) succeeded, want error", tt.code, tt.subtotal)
				}
				if tt.wantErr != errAnyMinimum && !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if applied.DiscountAmount != tt.wantDiscount {
				t.Errorf("discount = %v, want %v", applied.DiscountAmount, tt.wantDiscount)
			}
			if applied.Coupon == nil {
				t.Error("applied coupon should carry its definition")
			}
		})
	}
}

// errAnyMinimum marks cases where any minimum-purchase error is accepted; the
// exact message embeds the threshold.
var errAnyMinimum = errors.New("minimum purchase not met")

func TestCouponConcurrentAddAndValidate(t *testing.T) {
	cs := newCouponSet(testCoupons(), fixedNow)

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				cs.add(coupon.Coupon{
					ID:   fmt.Sprintf("c-%d-%d", n, j),
					Code: fmt.Sprintf("BULK%d_%d", n, j),
					Type: coupon.TypeFixed, Amount: 1,
				})
			}
		}(n)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := cs.validate("FLAT15", 100); err != nil {
					t.Errorf("validate: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCouponAddAfterConstruction(t *testing.T) {
	cs := newCouponSet(nil, fixedNow)
	if _, err := cs.validate("LATE5", 100); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}

	cs.add(coupon.Coupon{ID: "c-late", Code: "LATE5", Type: coupon.TypeFixed, Amount: 5})
	applied, err := cs.validate("late5", 100)
	if err != nil {
		t.Fatal(err)
	}
	if applied.DiscountAmount != 5 {
		t.Fatalf("discount = %v", applied.DiscountAmount)
	}
	if len(cs.list()) != 1 {
		t.Fatalf("list = %d entries", len(cs.list()))
	}
}
