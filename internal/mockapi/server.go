package mockapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/luxurygifts/storefront/internal/coupon"
	"github.com/luxurygifts/storefront/internal/order"
	"github.com/luxurygifts/storefront/internal/product"
	"github.com/luxurygifts/storefront/internal/push"
)

type Server struct {
	log      *slog.Logger
	products *productRepo
	orders   *orderRepo
	coupons  *couponSet
	hub      *hub

	mu            sync.Mutex
	gatewayOrders map[string]gatewayOrder
}

type gatewayOrder struct {
	ID       string `json:"id"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// Option hooks for tests (frozen clocks, extra catalog entries).
type Option func(*Server)

func WithNow(now func() time.Time) Option {
	return func(s *Server) {
		s.products.now = now
		s.orders.now = now
		s.coupons.now = now
	}
}

func WithCoupons(coupons ...coupon.Coupon) Option {
	return func(s *Server) {
		for _, c := range coupons {
			s.coupons.add(c)
		}
	}
}

func WithProducts(products ...product.Product) Option {
	return func(s *Server) {
		for _, p := range products {
			s.products.create(p)
		}
	}
}

func NewServer(log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		log:           log,
		products:      newProductRepo(seedProducts(), nil),
		orders:        newOrderRepo(nil),
		coupons:       newCouponSet(seedCoupons(), nil),
		hub:           newHub(log),
		gatewayOrders: make(map[string]gatewayOrder),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func seedCoupons() []coupon.Coupon {
	now := time.Now().UTC()
	return []coupon.Coupon{
		{
			ID: "c-welcome", Code: "WELCOME10", Type: coupon.TypePercentage, Amount: 10,
			MinPurchase: 25, MaxDiscount: 100,
			ValidFrom: now.AddDate(0, -1, 0), ValidTo: now.AddDate(0, 1, 0), UpdatedAt: now,
		},
		{
			ID: "c-flat", Code: "FLAT10", Type: coupon.TypeFixed, Amount: 10,
			ValidFrom: now.AddDate(0, -1, 0), ValidTo: now.AddDate(0, 1, 0), UpdatedAt: now,
		},
	}
}

// Close drops every connected push client.
func (s *Server) Close() { s.hub.closeAll() }

// Router builds the HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "mockapi"})
	})

	r.Get("/push", s.hub.handle)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Get("/products/{productId}", s.getProduct)

		r.Post("/coupons/validate", s.validateCoupon)
		r.Get("/coupons", s.listCoupons)

		r.Group(func(r chi.Router) {
			r.Use(requireBearer)

			r.Post("/products", s.createProduct)
			r.Put("/products/{productId}", s.updateProduct)
			r.Delete("/products/{productId}", s.deleteProduct)

			r.Post("/coupons", s.createCoupon)
			r.Put("/coupons/{couponId}", s.updateCoupon)
			r.Delete("/coupons/{couponId}", s.deleteCoupon)

			r.Post("/orders", s.createOrder)
			r.Get("/orders", s.listOrders)
			r.Get("/orders/{orderId}", s.getOrder)
			r.Put("/orders/{orderId}/status", s.updateOrderStatus)
			r.Put("/orders/{orderId}/cancel", s.cancelOrder)
			r.Get("/orders/{orderId}/tracking", s.orderTracking)
			r.Get("/orders/{orderId}/invoice", s.orderDocument("invoice"))
			r.Get("/orders/{orderId}/receipt", s.orderDocument("receipt"))

			r.Post("/payments/razorpay/order", s.createGatewayOrder)
			r.Post("/payments/razorpay/verify", s.verifyPayment)
			r.Post("/payments/card", s.processCard)
		})
	})

	return r
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
			writeError(w, http.StatusUnauthorized, "bearer token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.products.list())
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.get(chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p product.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid product payload")
		return
	}
	created := s.products.create(p)
	s.hub.broadcast("product", push.ActionCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p product.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid product payload")
		return
	}
	p.ID = chi.URLParam(r, "productId")
	updated, err := s.products.update(p)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.hub.broadcast("product", push.ActionUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	if err := s.products.remove(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.hub.broadcast("product", push.ActionDeleted, push.DeletedPayload{ID: id})
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) listCoupons(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.coupons.list())
}

func (s *Server) validateCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string  `json:"code"`
		Subtotal float64 `json:"subtotal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid validation payload")
		return
	}
	applied, err := s.coupons.validate(req.Code, req.Subtotal)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, applied)
}

func (s *Server) createCoupon(w http.ResponseWriter, r *http.Request) {
	var c coupon.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || strings.TrimSpace(c.Code) == "" {
		writeError(w, http.StatusBadRequest, "invalid coupon payload")
		return
	}
	created := s.coupons.create(c)
	s.hub.broadcast("coupon", push.ActionCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateCoupon(w http.ResponseWriter, r *http.Request) {
	var c coupon.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid coupon payload")
		return
	}
	c.ID = chi.URLParam(r, "couponId")
	updated, err := s.coupons.update(c)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.hub.broadcast("coupon", push.ActionUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCoupon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "couponId")
	if err := s.coupons.remove(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.hub.broadcast("coupon", push.ActionDeleted, push.DeletedPayload{ID: id})
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var o order.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid order payload")
		return
	}
	if len(o.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}
	created := s.orders.create(o)
	s.hub.broadcast("order", push.ActionCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listOrders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.orders.list())
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.get(chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid status payload")
		return
	}
	o, err := s.orders.setStatus(chi.URLParam(r, "orderId"), order.ParseStatus(req.Status), "")
	if err != nil {
		writeError(w, statusForOrderErr(err), err.Error())
		return
	}
	s.hub.broadcast("order", push.ActionStatusChanged, o)
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.setStatus(chi.URLParam(r, "orderId"), order.StatusCancelled, "cancelled by user")
	if err != nil {
		writeError(w, statusForOrderErr(err), err.Error())
		return
	}
	s.hub.broadcast("order", push.ActionStatusChanged, o)
	writeJSON(w, http.StatusOK, o)
}

func statusForOrderErr(err error) int {
	if errors.Is(err, errOrderNotFound) {
		return http.StatusNotFound
	}
	return http.StatusConflict
}

func (s *Server) orderTracking(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.get(chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order.Tracking{OrderID: o.ID, Status: o.Status, History: o.StatusHistory})
}

func (s *Server) orderDocument(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := s.orders.get(chi.URLParam(r, "orderId"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, order.Document{
			OrderID: o.ID,
			Format:  format,
			URL:     "/documents/" + format + "/" + o.ID + ".pdf",
		})
	}
}

func (s *Server) createGatewayOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID  string `json:"orderId"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid gateway order payload")
		return
	}
	if _, err := s.orders.get(req.OrderID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if req.Amount < 1 {
		writeError(w, http.StatusBadRequest, "amount must be at least 1")
		return
	}

	gw := gatewayOrder{
		ID:       "rzp_" + uuid.NewString(),
		OrderID:  req.OrderID,
		Amount:   req.Amount,
		Currency: req.Currency,
		KeyID:    "rzp_test_mock",
	}
	s.mu.Lock()
	s.gatewayOrders[gw.ID] = gw
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, gw)
}

func (s *Server) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID        string `json:"orderId"`
		GatewayOrderID string `json:"gatewayOrderId"`
		PaymentID      string `json:"paymentId"`
		Signature      string `json:"signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid verify payload")
		return
	}

	s.mu.Lock()
	_, known := s.gatewayOrders[req.GatewayOrderID]
	s.mu.Unlock()
	if !known {
		writeError(w, http.StatusNotFound, "unknown gateway order")
		return
	}
	if req.Signature != MockSignature(req.GatewayOrderID, req.PaymentID) {
		writeError(w, http.StatusBadRequest, "payment signature verification failed")
		return
	}

	o, err := s.orders.setStatus(req.OrderID, order.StatusProcessing, "payment verified")
	if err != nil {
		writeError(w, statusForOrderErr(err), err.Error())
		return
	}
	s.hub.broadcast("order", push.ActionStatusChanged, o)
	writeJSON(w, http.StatusOK, nil)
}

// MockSignature is the deterministic stand-in for the gateway's HMAC so
// clients and tests can produce valid callbacks.
func MockSignature(gatewayOrderID, paymentID string) string {
	return "sig:" + gatewayOrderID + ":" + paymentID
}

func (s *Server) processCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"orderId"`
		Number  string `json:"number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid card payload")
		return
	}
	if _, err := s.orders.get(req.OrderID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	// The classic test-decline card.
	if strings.HasSuffix(req.Number, "0002") {
		writeError(w, http.StatusPaymentRequired, "card declined")
		return
	}

	o, err := s.orders.setStatus(req.OrderID, order.StatusProcessing, "card payment captured")
	if err != nil {
		writeError(w, statusForOrderErr(err), err.Error())
		return
	}
	s.hub.broadcast("order", push.ActionStatusChanged, o)
	writeJSON(w, http.StatusOK, map[string]string{
		"transactionId": "txn_" + uuid.NewString(),
		"status":        "captured",
	})
}
