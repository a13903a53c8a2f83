package ports

import "context"

// FileStore persists uploaded files and returns a public URL for each.
type FileStore interface {
	// Save writes data under the given path (e.g. "events/ab12.jpg") and
	// returns the URL clients can fetch it from.
	Save(ctx context.Context, path string, contentType string, data []byte) (string, error)
}
