package api

import (
	"context"
	"net/http"
)

type DashboardClient struct{ c *Client }

func NewDashboardClient(c *Client) *DashboardClient { return &DashboardClient{c: c} }

type AdminStats struct {
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalUsers    int     `json:"totalUsers"`
	TotalProducts int     `json:"totalProducts"`
	PendingOrders int     `json:"pendingOrders"`
}

type SellerStats struct {
	TotalOrders    int     `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	ActiveListings int     `json:"activeListings"`
	PendingOrders  int     `json:"pendingOrders"`
}

type SuperAdminStats struct {
	AdminStats
	TotalSellers int `json:"totalSellers"`
	TotalAdmins  int `json:"totalAdmins"`
}

func (dc *DashboardClient) Admin(ctx context.Context) (*AdminStats, error) {
	var s AdminStats
	if err := dc.c.do(ctx, http.MethodGet, "/admin/dashboard", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (dc *DashboardClient) Seller(ctx context.Context) (*SellerStats, error) {
	var s SellerStats
	if err := dc.c.do(ctx, http.MethodGet, "/seller/dashboard", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (dc *DashboardClient) SuperAdmin(ctx context.Context) (*SuperAdminStats, error) {
	var s SuperAdminStats
	if err := dc.c.do(ctx, http.MethodGet, "/superadmin/dashboard", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
