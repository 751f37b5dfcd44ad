package order

import "time"

type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type Item struct {
	ProductID string  `json:"productId"`
	SellerID  string  `json:"sellerId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type PaymentInfo struct {
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId,omitempty"`
}

type Order struct {
	ID              string        `json:"orderId"`
	UserID          string        `json:"userId"`
	ShippingAddress Address       `json:"shippingAddress"`
	BillingAddress  Address       `json:"billingAddress"`
	Payment         PaymentInfo   `json:"payment"`
	Items           []Item        `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	Tax             float64       `json:"tax"`
	ShippingCost    float64       `json:"shippingCost"`
	Discount        float64       `json:"discount"`
	Total           float64       `json:"total"`
	CouponCode      string        `json:"couponCode,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	IsGift          bool          `json:"isGift"`
	Status          Status        `json:"status"`
	StatusHistory   []StatusEvent `json:"statusHistory,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// StatusEvent is one entry in an order's status history.
type StatusEvent struct {
	Status Status    `json:"status"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// Tracking is the read model returned by the tracking endpoint.
type Tracking struct {
	OrderID string        `json:"orderId"`
	Status  Status        `json:"status"`
	History []StatusEvent `json:"history,omitempty"`
}

// Document points at a server-rendered order document (invoice, receipt).
type Document struct {
	OrderID string `json:"orderId"`
	Format  string `json:"format"`
	URL     string `json:"url"`
}

func (o Order) EntityID() string { return o.ID }

func (o Order) EntityVersion() int64 { return o.UpdatedAt.UnixMilli() }
