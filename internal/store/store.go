// Package store persists baseline scans between runs so ignore flags carry
// forward.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mj1618/a11y-audit/internal/model"
)

// ErrNotFound is returned when no baseline exists for a key.
var ErrNotFound = errors.New("baseline not found")

// Store loads and saves baselines by key. The key is usually the scanned
// location.
type Store interface {
	Load(ctx context.Context, key string) (model.Baseline, error)
	Save(ctx context.Context, key string, b model.Baseline) error
	Close() error
}

// Open returns the store for target: a redis:// or rediss:// URL, or a
// file path.
func Open(ctx context.Context, target string) (Store, error) {
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "redis://") || strings.HasPrefix(lower, "rediss://") {
		return NewRedisStore(ctx, target, DefaultRedisPrefix)
	}
	if target == "" {
		return nil, fmt.Errorf("empty baseline target")
	}
	return NewFileStore(target), nil
}
