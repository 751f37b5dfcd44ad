package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxurygifts/storefront/internal/api"
	"github.com/luxurygifts/storefront/internal/cart"
	"github.com/luxurygifts/storefront/internal/coupon"
	"github.com/luxurygifts/storefront/internal/order"
)

var (
	ErrSubmitInFlight = errors.New("checkout: submission already in progress")
	ErrEmptyCart      = errors.New("checkout: cart is empty")
	ErrUnknownMethod  = errors.New("checkout: unknown payment method")
)

// OrderCreator, CouponValidator and PaymentGateway are the slices of the
// API clients the checkout flow needs.
type OrderCreator interface {
	Create(ctx context.Context, req api.CreateOrderRequest) (*order.Order, error)
}

type CouponValidator interface {
	Validate(ctx context.Context, req api.CouponValidateRequest) (*coupon.Applied, error)
}

type PaymentGateway interface {
	CreateGatewayOrder(ctx context.Context, req api.CreateGatewayOrderRequest) (*api.GatewayOrder, error)
	Verify(ctx context.Context, req api.VerifyRequest) error
	ProcessCard(ctx context.Context, req api.CardRequest) (*api.CardResult, error)
}

type Service struct {
	orders   OrderCreator
	coupons  CouponValidator
	payments PaymentGateway
	pricing  Pricing
	log      *slog.Logger
}

func NewService(orders OrderCreator, coupons CouponValidator, payments PaymentGateway, pricing Pricing, log *slog.Logger) *Service {
	return &Service{
		orders:   orders,
		coupons:  coupons,
		payments: payments,
		pricing:  pricing,
		log:      log,
	}
}

// Checkout is the state of one checkout attempt over a fixed cart: the
// applied coupon, the coupon input's inline error, and the submitting
// flag.
type Checkout struct {
	svc   *Service
	items []cart.Item

	mu         sync.Mutex
	applied    *coupon.Applied
	couponErr  string
	submitting bool
}

// Begin starts a checkout over the given cart lines. The cart is read-only
// from here on.
func (s *Service) Begin(items []cart.Item) *Checkout {
	return &Checkout{svc: s, items: items}
}

// Totals returns the current checkout summary.
func (c *Checkout) Totals() Totals {
	c.mu.Lock()
	applied := c.applied
	c.mu.Unlock()
	return ComputeTotals(c.items, applied, c.svc.pricing)
}

// Applied returns the server-confirmed coupon, if one is applied.
func (c *Checkout) Applied() *coupon.Applied {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied
}

// CouponError returns the inline error for the coupon input.
func (c *Checkout) CouponError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.couponErr
}

// ApplyCoupon validates a code with the server against the current cart.
// The server's answer is authoritative: on success the confirmed discount
// is stored and the inline error cleared; on rejection the server's message
// becomes the inline error and nothing stays applied.
func (c *Checkout) ApplyCoupon(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		c.mu.Lock()
		c.applied = nil
		c.couponErr = "enter a coupon code"
		c.mu.Unlock()
		return errors.New("checkout: empty coupon code")
	}

	totals := ComputeTotals(c.items, nil, c.svc.pricing)
	req := api.CouponValidateRequest{
		Code:     code,
		Subtotal: totals.Subtotal.InexactFloat64(),
	}
	for _, item := range c.items {
		req.Items = append(req.Items, api.CouponLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	applied, err := c.svc.coupons.Validate(ctx, req)
	if err != nil {
		c.mu.Lock()
		c.applied = nil
		c.couponErr = couponMessage(err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.applied = applied
	c.couponErr = ""
	c.mu.Unlock()

	c.svc.log.Info("checkout: coupon applied", "code", applied.Code, "discount", applied.DiscountAmount)
	return nil
}

// RemoveCoupon clears the applied coupon and the inline error, restoring
// the totals to their pre-application value.
func (c *Checkout) RemoveCoupon() {
	c.mu.Lock()
	c.applied = nil
	c.couponErr = ""
	c.mu.Unlock()
}

// Submitting reports whether a submission is in flight.
func (c *Checkout) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

func couponMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "could not validate coupon, please try again"
}

// SubmitRequest is the checkout form at submission time.
type SubmitRequest struct {
	Shipping    order.Address
	Billing     *order.Address // nil: billed to the shipping address
	MethodLabel string
	Card        *CardDetails // card method only
	Currency    string
	Notes       string
	IsGift      bool
}

// Result tells the caller how to finish the payment. A non-nil
// GatewayOrder means the gateway widget must be opened and
// ConfirmGatewayPayment called from its success callback;
// PaymentPending means the order was placed with payment to follow
// out-of-band.
type Result struct {
	Order          *order.Order
	GatewayOrder   *api.GatewayOrder
	TransactionID  string
	PaymentPending bool
}

// Submit validates the form, creates the order, and branches on the
// payment method. Any failure leaves the form resubmittable: the
// submitting flag is always reset and no client-side rollback is
// attempted.
func (c *Checkout) Submit(ctx context.Context, req SubmitRequest) (*Result, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	c.submitting = true
	applied := c.applied
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if len(c.items) == 0 {
		return nil, ErrEmptyCart
	}

	method, ok := order.MethodFromLabel(req.MethodLabel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, req.MethodLabel)
	}

	fe := FieldErrors{}
	validateAddress("shipping", req.Shipping, fe)
	if req.Billing != nil {
		validateAddress("billing", *req.Billing, fe)
	}
	if method == order.MethodCard {
		validateCard(req.Card, fe)
	}
	for i, item := range c.items {
		if item.SellerID == "" {
			fe[fmt.Sprintf("items[%d].sellerId", i)] = "missing seller"
		}
	}
	if len(fe) > 0 {
		return nil, fe
	}

	billing := req.Shipping
	if req.Billing != nil {
		billing = *req.Billing
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	totals := ComputeTotals(c.items, applied, c.svc.pricing)

	createReq := api.CreateOrderRequest{
		IdempotencyKey:  uuid.NewString(),
		ShippingAddress: req.Shipping,
		BillingAddress:  billing,
		Payment: order.PaymentInfo{
			Method: method,
			Status: order.PaymentPending,
		},
		Subtotal:     totals.Subtotal.InexactFloat64(),
		Tax:          totals.Tax.InexactFloat64(),
		ShippingCost: totals.Shipping.InexactFloat64(),
		Discount:     totals.Discount.InexactFloat64(),
		Total:        totals.Total.InexactFloat64(),
		Notes:        req.Notes,
		IsGift:       req.IsGift,
	}
	if applied != nil {
		createReq.CouponCode = applied.Code
	}
	for _, item := range c.items {
		createReq.Items = append(createReq.Items, order.Item{
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	placed, err := c.svc.orders.Create(ctx, createReq)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	switch method {
	case order.MethodRazorpay:
		gw, err := c.svc.payments.CreateGatewayOrder(ctx, api.CreateGatewayOrderRequest{
			OrderID:  placed.ID,
			Amount:   gatewayAmount(totals.Total),
			Currency: currency,
		})
		if err != nil {
			return nil, fmt.Errorf("create gateway order: %w", err)
		}
		return &Result{Order: placed, GatewayOrder: gw}, nil

	case order.MethodCard:
		card := req.Card
		res, err := c.svc.payments.ProcessCard(ctx, api.CardRequest{
			OrderID:  placed.ID,
			Number:   card.Number,
			Holder:   card.Holder,
			ExpMonth: card.ExpMonth,
			ExpYear:  card.ExpYear,
			CVC:      card.CVC,
		})
		if err != nil {
			return nil, fmt.Errorf("process payment: %w", err)
		}
		return &Result{Order: placed, TransactionID: res.TransactionID}, nil

	default:
		// COD and wallet-style methods complete with payment pending.
		return &Result{Order: placed, PaymentPending: true}, nil
	}
}

// ConfirmGatewayPayment runs the server-side signature check after the
// gateway widget's success callback. Only then is the order paid.
func (c *Checkout) ConfirmGatewayPayment(ctx context.Context, req api.VerifyRequest) error {
	if err := c.svc.payments.Verify(ctx, req); err != nil {
		return fmt.Errorf("verify payment: %w", err)
	}
	return nil
}

// gatewayAmount converts a total to the gateway's smallest currency unit,
// clamped to the gateway's minimum of 1.
func gatewayAmount(total decimal.Decimal) int64 {
	units := total.Shift(2).Round(0).IntPart()
	if units < 1 {
		return 1
	}
	return units
}
