package history

import (
	"context"
	"time"
)

// Recorder is the history service used by the command layer.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Enabled() bool
	Close() error
}

// Repository defines the interface for history storage
type Repository interface {
	Store(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Entry is one attempted frequency write.
type Entry struct {
	Timestamp time.Time
	Policy    string
	Governor  string
	Requested int
	Actual    int
	HasActual bool
	Success   bool
	Error     string
}
