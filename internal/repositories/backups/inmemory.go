package backups

import (
	"context"
	"sync"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	apperr "github.com/KirkDiggler/remnant-save-analyzer/internal/errors"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu           sync.RWMutex
	records      map[string]*backup.Record
	folders      map[string]map[string]struct{} // folder -> record ids
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a new in-memory backup repository
func NewInMemoryRepository(timeProvider TimeProvider) Repository {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &inMemoryRepository{
		records:      make(map[string]*backup.Record),
		folders:      make(map[string]map[string]struct{}),
		timeProvider: timeProvider,
	}
}

func (r *inMemoryRepository) Create(_ context.Context, rec *backup.Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.ID]; exists {
		return apperr.AlreadyExistsf("backup %s already exists", rec.ID)
	}

	now := r.timeProvider.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	stored := *rec
	r.records[rec.ID] = &stored
	r.index(rec.SaveFolderPath, rec.ID)

	return nil
}

func (r *inMemoryRepository) Get(_ context.Context, id string) (*backup.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[id]
	if !exists {
		return nil, apperr.NotFoundf("backup not found: %s", id)
	}

	// Return a copy to avoid external modifications
	out := *rec
	return &out, nil
}

func (r *inMemoryRepository) Update(_ context.Context, rec *backup.Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.records[rec.ID]
	if !exists {
		return apperr.NotFoundf("backup not found: %s", rec.ID)
	}

	if existing.SaveFolderPath != rec.SaveFolderPath {
		r.unindex(existing.SaveFolderPath, rec.ID)
		r.index(rec.SaveFolderPath, rec.ID)
	}

	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = r.timeProvider.Now()

	stored := *rec
	r.records[rec.ID] = &stored

	return nil
}

func (r *inMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return apperr.NotFoundf("backup not found: %s", id)
	}

	delete(r.records, id)
	r.unindex(rec.SaveFolderPath, id)

	return nil
}

func (r *inMemoryRepository) ListByFolder(_ context.Context, folder string) ([]*backup.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.folders[folder]
	records := make([]*backup.Record, 0, len(ids))
	for id := range ids {
		out := *r.records[id]
		records = append(records, &out)
	}
	sortNewestFirst(records)

	return records, nil
}

func (r *inMemoryRepository) index(folder, id string) {
	ids, ok := r.folders[folder]
	if !ok {
		ids = make(map[string]struct{})
		r.folders[folder] = ids
	}
	ids[id] = struct{}{}
}

func (r *inMemoryRepository) unindex(folder, id string) {
	delete(r.folders[folder], id)
	if len(r.folders[folder]) == 0 {
		delete(r.folders, folder)
	}
}
