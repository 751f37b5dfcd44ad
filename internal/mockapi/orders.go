package mockapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luxurygifts/storefront/internal/order"
)

var (
	errOrderNotFound = errors.New("order not found")
	errOrderFinal    = errors.New("order can no longer change status")
)

type orderRepo struct {
	mu   sync.RWMutex
	byID map[string]*order.Order
	now  func() time.Time
}

func newOrderRepo(now func() time.Time) *orderRepo {
	if now == nil {
		now = time.Now
	}
	return &orderRepo{byID: make(map[string]*order.Order), now: now}
}

func (r *orderRepo) create(o order.Order) order.Order {
	ts := r.now().UTC()
	o.ID = uuid.NewString()
	o.Status = order.StatusPending
	o.CreatedAt = ts
	o.UpdatedAt = ts
	o.StatusHistory = []order.StatusEvent{{Status: order.StatusPending, At: ts}}

	r.mu.Lock()
	r.byID[o.ID] = &o
	r.mu.Unlock()
	return o
}

func (r *orderRepo) get(id string) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[id]
	if !ok {
		return order.Order{}, errOrderNotFound
	}
	return *o, nil
}

func (r *orderRepo) list() []order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, 0, len(r.byID))
	for _, o := range r.byID {
		out = append(out, *o)
	}
	return out
}

func (r *orderRepo) setStatus(id string, status order.Status, note string) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok {
		return order.Order{}, errOrderNotFound
	}
	if o.Status == order.StatusDelivered || o.Status == order.StatusCancelled {
		return order.Order{}, errOrderFinal
	}

	ts := r.now().UTC()
	o.Status = status
	o.UpdatedAt = ts
	o.StatusHistory = append(o.StatusHistory, order.StatusEvent{Status: status, Note: note, At: ts})
	return *o, nil
}
