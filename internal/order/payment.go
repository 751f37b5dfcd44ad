package order

type PaymentMethod string

const (
	MethodRazorpay PaymentMethod = "razorpay"
	MethodCard     PaymentMethod = "card"
	MethodPayPal   PaymentMethod = "paypal"
	MethodCOD      PaymentMethod = "cod"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// methodLabels maps the labels shown in the checkout UI to the backend's
// payment method enum.
var methodLabels = map[string]PaymentMethod{
	"Razorpay":          MethodRazorpay,
	"Credit/Debit Card": MethodCard,
	"PayPal":            MethodPayPal,
	"Cash on Delivery":  MethodCOD,
}

// MethodFromLabel resolves a UI payment-method label to the backend enum.
func MethodFromLabel(label string) (PaymentMethod, bool) {
	m, ok := methodLabels[label]
	return m, ok
}
