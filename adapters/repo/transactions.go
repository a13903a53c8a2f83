package repo

import (
	"context"
	"database/sql"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// TransactionRepo persists wallet ledger entries.
type TransactionRepo struct {
	db *sql.DB
}

// NewTransactionRepo constructs a TransactionRepo with the provided DB handle.
func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Insert stores a transaction and reads back the stored row.
func (r *TransactionRepo) Insert(ctx context.Context, tx *core.Transaction) error {
	const q = `INSERT INTO transactions
		(id, wallet, kind, amount, ref_id, description, status)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		tx.ID, core.NormalizeAddress(tx.Wallet), tx.Kind, tx.Amount,
		tx.RefID, tx.Description, tx.Status)
	if err != nil {
		return err
	}

	const qSelect = `SELECT id, wallet, kind, amount, COALESCE(ref_id, ''), description, status, created_at
		FROM transactions WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, tx.ID).Scan(
		&tx.ID, &tx.Wallet, &tx.Kind, &tx.Amount, &tx.RefID,
		&tx.Description, &tx.Status, &tx.CreatedAt)
}

// ListByWallet returns the most recent entries for a wallet, newest first.
func (r *TransactionRepo) ListByWallet(ctx context.Context, wallet string, limit int) ([]core.Transaction, error) {
	const q = `SELECT id, wallet, kind, amount, COALESCE(ref_id, ''), description, status, created_at
		FROM transactions WHERE wallet = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, q, core.NormalizeAddress(wallet), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.Wallet, &tx.Kind, &tx.Amount, &tx.RefID,
			&tx.Description, &tx.Status, &tx.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

var _ ports.TransactionRepository = (*TransactionRepo)(nil)
