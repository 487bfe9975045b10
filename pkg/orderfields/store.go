package orderfields

import (
	"context"
	"time"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// Note is one audit entry appended to an order when its field values are
// corrected or removed after checkout.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderStore persists value records and audit notes against the host's order
// records. Writes are scoped per order; implementations need no cross-order
// coordination.
type OrderStore interface {
	// OrderExists reports whether the host knows the order.
	OrderExists(ctx context.Context, orderID string) (bool, error)

	// SaveValues creates or replaces the records stored under their keys as
	// one atomic write: either every record persists or none do.
	SaveValues(ctx context.Context, orderID string, recs []model.ValueRecord) error

	// Values returns every stored record keyed by storage key.
	Values(ctx context.Context, orderID string) (map[string]model.ValueRecord, error)

	// DeleteValue removes the record and its snapshot, reporting whether the
	// key existed.
	DeleteValue(ctx context.Context, orderID, key string) (bool, error)

	// AppendNote adds one audit note to the order.
	AppendNote(ctx context.Context, orderID string, note Note) error
}
