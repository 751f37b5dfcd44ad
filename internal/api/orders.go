package api

import (
	"context"
	"net/http"

	"github.com/luxurygifts/storefront/internal/order"
)

type OrdersClient struct{ c *Client }

func NewOrdersClient(c *Client) *OrdersClient { return &OrdersClient{c: c} }

// CreateOrderRequest is the order payload assembled at checkout submission.
// Totals are computed client-side for display but re-validated by the
// server, which remains the pricing authority.
type CreateOrderRequest struct {
	IdempotencyKey  string            `json:"idempotencyKey,omitempty"`
	ShippingAddress order.Address     `json:"shippingAddress"`
	BillingAddress  order.Address     `json:"billingAddress"`
	Payment         order.PaymentInfo `json:"payment"`
	Items           []order.Item      `json:"items"`
	Subtotal        float64           `json:"subtotal"`
	Tax             float64           `json:"tax"`
	ShippingCost    float64           `json:"shippingCost"`
	Discount        float64           `json:"discount"`
	Total           float64           `json:"total"`
	CouponCode      string            `json:"couponCode,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	IsGift          bool              `json:"isGift"`
}

func (oc *OrdersClient) Create(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	var o order.Order
	if err := oc.c.do(ctx, http.MethodPost, "/orders", nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (oc *OrdersClient) List(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := oc.c.do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (oc *OrdersClient) Get(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	if err := oc.c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (oc *OrdersClient) UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	var o order.Order
	body := map[string]order.Status{"status": status}
	if err := oc.c.do(ctx, http.MethodPut, "/orders/"+orderID+"/status", nil, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (oc *OrdersClient) Cancel(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	if err := oc.c.do(ctx, http.MethodPut, "/orders/"+orderID+"/cancel", nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (oc *OrdersClient) Tracking(ctx context.Context, orderID string) (*order.Tracking, error) {
	var t order.Tracking
	if err := oc.c.do(ctx, http.MethodGet, "/orders/"+orderID+"/tracking", nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (oc *OrdersClient) Invoice(ctx context.Context, orderID string) (*order.Document, error) {
	var d order.Document
	if err := oc.c.do(ctx, http.MethodGet, "/orders/"+orderID+"/invoice", nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (oc *OrdersClient) Receipt(ctx context.Context, orderID string) (*order.Document, error) {
	var d order.Document
	if err := oc.c.do(ctx, http.MethodGet, "/orders/"+orderID+"/receipt", nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
