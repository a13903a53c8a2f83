package ports

import (
	"context"

	"github.com/Kurooo23/AsiqTIX/core"
)

// EventPublisher notifies other instances and downstream consumers about
// newly recorded transactions.
type EventPublisher interface {
	PublishTransaction(ctx context.Context, tx *core.Transaction) error
}
