package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds.
const (
	TxKindTopup    = "topup"
	TxKindPurchase = "purchase"
)

// TxStatusConfirmed is the only status written today; the column exists so a
// settlement flow can move entries through pending later.
const TxStatusConfirmed = "confirmed"

// Transaction is a wallet ledger entry. Amounts are positive for topups and
// negative for purchases.
type Transaction struct {
	ID          string          `json:"id"`
	Wallet      string          `json:"wallet"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	RefID       string          `json:"ref_id,omitempty"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Admin is an entry in the administrator allow-list.
type Admin struct {
	Address   string    `json:"address"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
