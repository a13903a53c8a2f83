package ports

import (
	"context"

	"github.com/Kurooo23/AsiqTIX/core"
)

// AdminRegistry answers admin allow-list membership and manages entries.
type AdminRegistry interface {
	IsAdmin(ctx context.Context, address string) (bool, error)
	Add(ctx context.Context, address, note string) error
	Remove(ctx context.Context, address string) error
	List(ctx context.Context) ([]core.Admin, error)
}

// EventRepository persists event records.
type EventRepository interface {
	Create(ctx context.Context, ev *core.Event) error
	Update(ctx context.Context, id string, ev *core.Event) error
	Delete(ctx context.Context, id string) error
	SetListed(ctx context.Context, id string, listed bool) (*core.Event, error)
	GetByID(ctx context.Context, id string) (*core.Event, error)
	List(ctx context.Context, includeUnlisted bool) ([]core.Event, error)
}

// TransactionRepository persists wallet ledger entries.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *core.Transaction) error
	ListByWallet(ctx context.Context, wallet string, limit int) ([]core.Transaction, error)
}
