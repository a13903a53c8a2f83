package repo

import (
	"context"
	"database/sql"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// AdminRepo persists the administrator allow-list.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo constructs an AdminRepo with the provided DB handle.
func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// IsAdmin reports whether the address is in the allow-list.
func (r *AdminRepo) IsAdmin(ctx context.Context, address string) (bool, error) {
	const q = "SELECT 1 FROM admins WHERE address = ? LIMIT 1"

	var one int
	err := r.db.QueryRowContext(ctx, q, core.NormalizeAddress(address)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add upserts an address into the allow-list.
func (r *AdminRepo) Add(ctx context.Context, address, note string) error {
	const q = `INSERT INTO admins (address, note) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE note = VALUES(note)`

	_, err := r.db.ExecContext(ctx, q, core.NormalizeAddress(address), note)
	return err
}

// Remove deletes an address from the allow-list. Removing an absent address
// is not an error.
func (r *AdminRepo) Remove(ctx context.Context, address string) error {
	const q = "DELETE FROM admins WHERE address = ?"

	_, err := r.db.ExecContext(ctx, q, core.NormalizeAddress(address))
	return err
}

// List returns every allow-list entry.
func (r *AdminRepo) List(ctx context.Context) ([]core.Admin, error) {
	const q = "SELECT address, COALESCE(note, ''), created_at FROM admins ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []core.Admin
	for rows.Next() {
		var a core.Admin
		if err := rows.Scan(&a.Address, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

var _ ports.AdminRegistry = (*AdminRepo)(nil)
