// Package push implements the client side of the push-event channel: one
// authenticated socket connection per session, carrying named entity events
// the stores use to keep their caches consistent with server-side changes.
package push

import (
	"encoding/json"
	"time"
)

// Event actions. Event names are "<entity>.<action>", e.g. "product.created".
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "statusChanged"
)

// EventName builds the wire name for an entity/action pair.
func EventName(entity, action string) string {
	return entity + "." + action
}

// Envelope is the common frame for all push events. Payload is the full
// entity for creates and updates, and an id-only object for deletes.
type Envelope struct {
	Event      string          `json:"event"`
	EventID    string          `json:"eventId"`
	Sequence   int64           `json:"sequence,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// DeletedPayload is the payload shape of "<entity>.deleted" events.
type DeletedPayload struct {
	ID string `json:"id"`
}
