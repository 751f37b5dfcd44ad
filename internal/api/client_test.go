package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxurygifts/storefront/internal/order"
)

func TestEnvelopeSuccessDecodesData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/o-1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"orderId": "o-1", "status": "shipped"},
		})
	}))
	defer srv.Close()

	c := NewClient("marketplace", srv.URL+"/api", srv.Client())
	orders := NewOrdersClient(c)

	o, err := orders.Get(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)
	assert.Equal(t, order.StatusShipped, o.Status)
}

func TestEnvelopeFailureSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "coupon has expired",
		})
	}))
	defer srv.Close()

	c := NewClient("marketplace", srv.URL+"/api", srv.Client())
	err := c.do(context.Background(), http.MethodGet, "/orders", nil, nil, nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "coupon has expired", apiErr.Message)
}

func TestSuccessFalseWithOKStatusIsStillAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "out of stock",
		})
	}))
	defer srv.Close()

	c := NewClient("marketplace", srv.URL+"/api", srv.Client())
	err := c.do(context.Background(), http.MethodGet, "/products", nil, nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "out of stock", apiErr.Message)
}

func TestUnusableBodyFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway exploded</html>"))
	}))
	defer srv.Close()

	c := NewClient("marketplace", srv.URL+"/api", srv.Client())
	err := c.do(context.Background(), http.MethodGet, "/orders", nil, nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fallbackMessage, apiErr.Message)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	token := ""
	c := NewClient("marketplace", srv.URL+"/api", srv.Client())
	c.SetTokenSource(func() string { return token })

	require.NoError(t, c.do(context.Background(), http.MethodGet, "/products", nil, nil, nil))
	token = "tok-9"
	require.NoError(t, c.do(context.Background(), http.MethodGet, "/products", nil, nil, nil))

	require.Len(t, got, 2)
	assert.Empty(t, got[0], "no token means no Authorization header")
	assert.Equal(t, "Bearer tok-9", got[1])
}

func TestBasePathJoining(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	// With and without trailing slash on the base, leading slash on the path.
	for _, base := range []string{srv.URL + "/api", srv.URL + "/api/"} {
		c := NewClient("marketplace", base, srv.Client())
		require.NoError(t, c.do(context.Background(), http.MethodGet, "/orders", nil, nil, nil))
		require.NoError(t, c.do(context.Background(), http.MethodGet, "orders", nil, nil, nil))
	}

	for _, p := range paths {
		assert.Equal(t, "/api/orders", p)
	}
}

func TestNewClientPanicsOnBadURL(t *testing.T) {
	assert.Panics(t, func() {
		NewClient("broken", "http://bad url with spaces\x7f", nil)
	})
}
