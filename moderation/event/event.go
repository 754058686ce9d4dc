package event

import (
	"time"
)

// Integer event kind categories used across the forum protocol.
const (
	KindPost           = 1
	KindComment        = 2
	KindProfile        = 3
	KindReaction       = 7
	KindPaymentRequest = 9734
	KindPaymentReceipt = 9735
)

// A single piece of user-generated content flowing through the moderation
// pipeline. Immutable once handed to the engine; the engine never retains a
// reference after evaluation completes.
type ContentEvent struct {
	ID        string     `json:"id"`
	ActorID   string     `json:"actor_id"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags,omitempty"`
	Content   string     `json:"content"`
	CreatedAt int64      `json:"created_at"`
}

func (e *ContentEvent) CreatedTime() time.Time {
	return time.Unix(e.CreatedAt, 0).UTC()
}

// Returns the first value of the first tag with the given name, or empty
// string. Tags are ordered string tuples: [name, value, ...].
func (e *ContentEvent) TagValue(name string) string {
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == name {
			return tag[1]
		}
	}
	return ""
}

func IsPaymentKind(kind int) bool {
	return kind == KindPaymentRequest || kind == KindPaymentReceipt
}
