package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteSource fetches a single price quote from an external endpoint. The
// aggregator tries sources in order and takes the first that answers.
type QuoteSource interface {
	// Name identifies the source in responses and logs, e.g. "binance:POLUSDT".
	Name() string

	// Quote returns the current price, or an error when the source is
	// unreachable or returns an unusable payload.
	Quote(ctx context.Context) (decimal.Decimal, error)
}
