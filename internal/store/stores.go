package store

import (
	"log/slog"

	"github.com/luxurygifts/storefront/internal/coupon"
	"github.com/luxurygifts/storefront/internal/order"
	"github.com/luxurygifts/storefront/internal/product"
	"github.com/luxurygifts/storefront/internal/user"
)

// ProductStore is the public product cache plus its featured derived view.
type ProductStore struct {
	*Scoped[product.Product]
}

const featuredIndex = "featured"

func NewProductStore(log *slog.Logger) *ProductStore {
	s := NewScoped[product.Product]("products", "product", user.RoleNone, log)
	s.AddIndex(featuredIndex, func(p product.Product) bool { return p.Featured })
	return &ProductStore{Scoped: s}
}

// Featured returns the derived featured-products view. It is rebuilt in the
// same transition as every primary cache update, so it never lags behind.
func (ps *ProductStore) Featured() []product.Product {
	return ps.Index(featuredIndex)
}

// NewOrderStore caches the signed-in buyer's orders.
func NewOrderStore(log *slog.Logger) *Scoped[order.Order] {
	return NewScoped[order.Order]("orders", "order", user.RoleBuyer, log)
}

// NewSellerOrderStore caches orders routed to the seller dashboard.
func NewSellerOrderStore(log *slog.Logger) *Scoped[order.Order] {
	return NewScoped[order.Order]("seller-orders", "order", user.RoleSeller, log)
}

// NewCouponStore caches coupons for the admin dashboard.
func NewCouponStore(log *slog.Logger) *Scoped[coupon.Coupon] {
	return NewScoped[coupon.Coupon]("coupons", "coupon", user.RoleAdmin, log)
}

// NewAdminUserStore caches the user list for the admin dashboard.
func NewAdminUserStore(log *slog.Logger) *Scoped[user.User] {
	return NewScoped[user.User]("admin-users", "user", user.RoleAdmin, log)
}

// NewSuperAdminStore caches admin accounts for the super-admin dashboard.
func NewSuperAdminStore(log *slog.Logger) *Scoped[user.User] {
	return NewScoped[user.User]("superadmin-admins", "admin", user.RoleSuperAdmin, log)
}
