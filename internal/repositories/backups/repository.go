// Package backups stores the index of save folder snapshots.
package backups

import (
	"context"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=mockbackups -source=repository.go

// Repository defines the storage operations for backup records
type Repository interface {
	Create(ctx context.Context, rec *backup.Record) error
	Get(ctx context.Context, id string) (*backup.Record, error)
	Update(ctx context.Context, rec *backup.Record) error
	Delete(ctx context.Context, id string) error

	// ListByFolder returns the records of a save folder, newest save date first
	ListByFolder(ctx context.Context, folder string) ([]*backup.Record, error)
}
