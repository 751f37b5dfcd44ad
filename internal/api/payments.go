package api

import (
	"context"
	"net/http"
)

type PaymentsClient struct{ c *Client }

func NewPaymentsClient(c *Client) *PaymentsClient { return &PaymentsClient{c: c} }

// GatewayOrder is the server-created payment-gateway order the checkout
// widget is opened against. Amount is in the gateway's smallest currency
// unit.
type GatewayOrder struct {
	ID       string `json:"id"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId,omitempty"`
}

type CreateGatewayOrderRequest struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (pc *PaymentsClient) CreateGatewayOrder(ctx context.Context, req CreateGatewayOrderRequest) (*GatewayOrder, error) {
	var gw GatewayOrder
	if err := pc.c.do(ctx, http.MethodPost, "/payments/razorpay/order", nil, req, &gw); err != nil {
		return nil, err
	}
	return &gw, nil
}

// VerifyRequest carries the gateway widget's callback parameters for the
// server-side signature check. An order is paid only after this succeeds.
type VerifyRequest struct {
	OrderID        string `json:"orderId"`
	GatewayOrderID string `json:"gatewayOrderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
}

func (pc *PaymentsClient) Verify(ctx context.Context, req VerifyRequest) error {
	return pc.c.do(ctx, http.MethodPost, "/payments/razorpay/verify", nil, req, nil)
}

type CardRequest struct {
	OrderID  string `json:"orderId"`
	Number   string `json:"number"`
	Holder   string `json:"holder"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

type CardResult struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// ProcessCard charges a card synchronously. A declined card comes back as
// *Error with the processor's message.
func (pc *PaymentsClient) ProcessCard(ctx context.Context, req CardRequest) (*CardResult, error) {
	var res CardResult
	if err := pc.c.do(ctx, http.MethodPost, "/payments/card", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
