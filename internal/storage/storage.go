// Package storage persists the task list. The unit of persistence is the
// whole list: Save replaces everything, Load returns everything. A missing
// or unreadable store yields an empty list rather than an error so the app
// always starts.
package storage

import (
	"context"
	"errors"

	"github.com/duetick/duetick/internal/model"
)

var ErrClosed = errors.New("storage: store is closed")

// Store is the persistence adapter for the task list.
type Store interface {
	Save(ctx context.Context, tasks []model.Task) error
	Load(ctx context.Context) ([]model.Task, error)
}
