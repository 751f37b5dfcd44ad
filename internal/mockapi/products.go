package mockapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luxurygifts/storefront/internal/product"
)

var errProductNotFound = errors.New("product not found")

type productRepo struct {
	mu   sync.RWMutex
	byID map[string]product.Product
	now  func() time.Time
}

func newProductRepo(seed []product.Product, now func() time.Time) *productRepo {
	if now == nil {
		now = time.Now
	}
	r := &productRepo{byID: make(map[string]product.Product, len(seed)), now: now}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now().UTC()
		}
		r.byID[p.ID] = p
	}
	return r
}

func (r *productRepo) list() []product.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]product.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out
}

func (r *productRepo) get(id string) (product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return product.Product{}, errProductNotFound
	}
	return p, nil
}

func (r *productRepo) create(p product.Product) product.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = r.now().UTC()
	r.mu.Lock()
	r.byID[p.ID] = p
	r.mu.Unlock()
	return p
}

func (r *productRepo) update(p product.Product) (product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return product.Product{}, errProductNotFound
	}
	p.UpdatedAt = r.now().UTC()
	r.byID[p.ID] = p
	return p, nil
}

func (r *productRepo) remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return errProductNotFound
	}
	delete(r.byID, id)
	return nil
}

// seedProducts is the default development catalog.
func seedProducts() []product.Product {
	return []product.Product{
		{ID: "p-scarf", SellerID: "s-aurora", Name: "Silk Scarf", Price: 100, Tags: []string{"accessories"}, Stock: 24},
		{ID: "p-giftbox", SellerID: "s-aurora", Name: "Romantic Gift Box Deluxe", Price: 50, Tags: []string{"gift", "romantic"}, Featured: true, Stock: 12},
		{ID: "p-candle", SellerID: "s-ember", Name: "Scented Candle Trio", Price: 35, Description: "A romantic gift for candlelit evenings", Featured: true, Stock: 40},
	}
}
