package cart

import "github.com/shopspring/decimal"

// Item is one cart line at checkout time. The cart is read-only here:
// quantities and prices were fixed when the cart was assembled, and the
// seller id is carried over from the product the line was added from.
type Item struct {
	ProductID   string   `json:"productId"`
	SellerID    string   `json:"sellerId"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
}

// LineTotal returns price × quantity in exact decimal arithmetic.
func (i Item) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}
