package store

import (
	"encoding/json"
	"fmt"

	"github.com/luxurygifts/storefront/internal/push"
)

// Bus is the slice of the push channel stores need: named handler
// registration with symmetric removal. *push.Channel satisfies it.
type Bus interface {
	On(event string, h push.Handler) push.Subscription
	Off(sub push.Subscription)
}

// Subscribe attaches the store to an entity's push events. created and
// updated (and statusChanged) carry the full entity; deleted carries the
// id. The returned subscriptions are retained so Unsubscribe can detach
// them all again.
func (s *Store[T]) Subscribe(bus Bus, entity string) []push.Subscription {
	decode := func(raw json.RawMessage) (T, error) {
		var e T
		if err := json.Unmarshal(raw, &e); err != nil {
			return e, fmt.Errorf("decode %s event: %w", entity, err)
		}
		return e, nil
	}

	onEntity := func(action ActionType) push.Handler {
		return func(env push.Envelope) {
			e, err := decode(env.Payload)
			if err != nil {
				s.log.Warn("store: dropping event", "store", s.name, "event", env.Event, "error", err)
				return
			}
			s.Dispatch(Action[T]{Type: action, Entity: e})
		}
	}

	subs := []push.Subscription{
		bus.On(push.EventName(entity, push.ActionCreated), onEntity(EntityCreated)),
		bus.On(push.EventName(entity, push.ActionUpdated), onEntity(EntityUpdated)),
		bus.On(push.EventName(entity, push.ActionStatusChanged), onEntity(EntityUpdated)),
		bus.On(push.EventName(entity, push.ActionDeleted), func(env push.Envelope) {
			var p push.DeletedPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil || p.ID == "" {
				s.log.Warn("store: dropping delete event", "store", s.name, "event", env.Event)
				return
			}
			s.Dispatch(Action[T]{Type: EntityDeleted, ID: p.ID})
		}),
	}
	return subs
}

// Unsubscribe detaches a set of subscriptions from the bus.
func Unsubscribe(bus Bus, subs []push.Subscription) {
	for _, sub := range subs {
		bus.Off(sub)
	}
}
