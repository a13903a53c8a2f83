package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a ticketed event record.
type Event struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	DateISO      string          `json:"date_iso"`
	Venue        string          `json:"venue"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url,omitempty"`
	PricePOL     decimal.Decimal `json:"price_pol"`
	TotalTickets int             `json:"total_tickets"`
	Listed       bool            `json:"listed"`
	CreatedAt    time.Time       `json:"created_at"`
}
