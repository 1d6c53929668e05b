// Package backup manages the snapshot collection of save folders: capturing,
// listing, pinning, activating and pruning, with every snapshot field change
// persisted to the backup index.
package backup

//go:generate mockgen -destination=mock/mock_service.go -package=mockbackup -source=service.go

import (
	"context"
	"time"

	snapshot "github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	apperr "github.com/KirkDiggler/remnant-save-analyzer/internal/errors"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/events"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/logging"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/repositories/backups"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/uuid"
	"github.com/rs/zerolog"
)

// Repository is an alias for the backup index repository interface
type Repository = backups.Repository

// PersistenceListenerID names the bus listener that writes field changes to the index
const PersistenceListenerID = "backup-persistence"

// persistTimeout bounds one index write triggered by a field change
const persistTimeout = 10 * time.Second

// Service defines the backup collection operations
type Service interface {
	// Record captures a save folder and adds it to the index
	Record(ctx context.Context, folder string) (*snapshot.Snapshot, error)

	// Get loads one snapshot from the index
	Get(ctx context.Context, id string) (*snapshot.Snapshot, error)

	// List returns the snapshots of a save folder, newest save date first
	List(ctx context.Context, folder string) ([]*snapshot.Snapshot, error)

	// SetKeep pins or unpins a snapshot
	SetKeep(ctx context.Context, id string, keep bool) (*snapshot.Snapshot, error)

	// Rename changes a snapshot's display name; empty restores the default
	Rename(ctx context.Context, id, name string) (*snapshot.Snapshot, error)

	// SetActive marks one snapshot of its folder as loaded and clears the others
	SetActive(ctx context.Context, id string) error

	// Prune deletes the oldest snapshots that are neither kept nor active
	// beyond the configured limit and returns their ids
	Prune(ctx context.Context, folder string) ([]string, error)
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository Repository          // Required
	Bus        *events.Bus         // Optional, a private bus is created if nil
	IDs        uuid.Generator      // Optional, time ordered UUIDs if nil
	Summarizer snapshot.Summarizer // Optional, progression stays empty if nil
	ModTime    snapshot.ModTimeFunc
	Logger     *zerolog.Logger

	// Limit is the number of unpinned inactive snapshots kept per folder; 0 keeps all
	Limit int
}

type service struct {
	repository Repository
	bus        *events.Bus
	ids        uuid.Generator
	summarizer snapshot.Summarizer
	modTime    snapshot.ModTimeFunc
	log        *zerolog.Logger
	limit      int
}

// NewService creates a backup service and subscribes its persistence listener to the bus
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Repository == nil {
		panic("repository is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Default()
	}
	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBusWithLogger(log)
	}
	ids := cfg.IDs
	if ids == nil {
		ids = uuid.NewTimeOrderedGenerator()
	}
	limit := cfg.Limit
	if limit < 0 {
		limit = 0
	}

	svc := &service{
		repository: cfg.Repository,
		bus:        bus,
		ids:        ids,
		summarizer: cfg.Summarizer,
		modTime:    cfg.ModTime,
		log:        log,
		limit:      limit,
	}

	bus.Unsubscribe(events.EventTypeSnapshotUpdated, PersistenceListenerID)
	bus.Subscribe(events.EventTypeSnapshotUpdated, &events.ListenerFunc{
		Name:   PersistenceListenerID,
		Order:  events.PriorityPersistence,
		Handle: svc.persist,
	})

	return svc
}

func (s *service) config() *snapshot.Config {
	return &snapshot.Config{
		IDs:        s.ids,
		Summarizer: s.summarizer,
		Bus:        s.bus,
		ModTime:    s.modTime,
	}
}

func (s *service) Record(ctx context.Context, folder string) (*snapshot.Snapshot, error) {
	if folder == "" {
		return nil, apperr.InvalidArgument("save folder is required")
	}
	if dataset.FindSaveFile(folder, dataset.ProfileSaveName) == "" {
		return nil, apperr.InvalidSaveFolder(folder)
	}

	snap := snapshot.New(folder, s.config())
	if err := s.repository.Create(ctx, snap.Record()); err != nil {
		return nil, apperr.Wrapf(err, "failed to index backup of %s", folder)
	}

	s.log.Info().
		Str("backup_id", snap.ID()).
		Str("folder", folder).
		Str("name", snap.Name()).
		Msg("backup recorded")

	if s.limit > 0 {
		if _, err := s.Prune(ctx, folder); err != nil {
			s.log.Warn().Err(err).Str("folder", folder).Msg("pruning after record failed")
		}
	}

	return snap, nil
}

func (s *service) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("backup ID is required")
	}

	rec, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshot.FromRecord(rec, s.config()), nil
}

func (s *service) List(ctx context.Context, folder string) ([]*snapshot.Snapshot, error) {
	if folder == "" {
		return nil, apperr.InvalidArgument("save folder is required")
	}

	records, err := s.repository.ListByFolder(ctx, folder)
	if err != nil {
		return nil, apperr.Wrapf(err, "failed to list backups of %s", folder)
	}

	snaps := make([]*snapshot.Snapshot, 0, len(records))
	for _, rec := range records {
		snaps = append(snaps, snapshot.FromRecord(rec, s.config()))
	}
	return snaps, nil
}

func (s *service) SetKeep(ctx context.Context, id string, keep bool) (*snapshot.Snapshot, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snap.BeginEdit()
	if err := snap.SetKeep(keep); err != nil {
		snap.CancelEdit()
		return nil, err
	}
	if err := snap.EndEdit(); err != nil {
		return nil, apperr.Wrapf(err, "failed to save keep flag of %s", id)
	}
	return snap, nil
}

func (s *service) Rename(ctx context.Context, id, name string) (*snapshot.Snapshot, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snap.BeginEdit()
	snap.SetName(name)
	if err := snap.EndEdit(); err != nil {
		return nil, apperr.Wrapf(err, "failed to save name of %s", id)
	}
	return snap, nil
}

func (s *service) SetActive(ctx context.Context, id string) error {
	target, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	siblings, err := s.List(ctx, target.SaveFolderPath())
	if err != nil {
		return err
	}

	for _, snap := range siblings {
		active := snap.ID() == id
		if snap.Active() == active {
			continue
		}
		snap.BeginEdit()
		snap.SetActive(active)
		if err := snap.EndEdit(); err != nil {
			return apperr.Wrapf(err, "failed to save active flag of %s", snap.ID())
		}
	}
	return nil
}

func (s *service) Prune(ctx context.Context, folder string) ([]string, error) {
	if s.limit == 0 {
		return nil, nil
	}

	snaps, err := s.List(ctx, folder)
	if err != nil {
		return nil, err
	}

	var pruned []string
	unpinned := 0
	for _, snap := range snaps {
		if snap.Keep() || snap.Active() {
			continue
		}
		unpinned++
		if unpinned <= s.limit {
			continue
		}
		if err := s.repository.Delete(ctx, snap.ID()); err != nil && !apperr.IsNotFound(err) {
			return pruned, apperr.Wrapf(err, "failed to prune backup %s", snap.ID())
		}
		pruned = append(pruned, snap.ID())
	}

	if len(pruned) > 0 {
		s.log.Info().Str("folder", folder).Strs("pruned", pruned).Msg("backups pruned")
	}
	return pruned, nil
}

// persist writes the snapshot behind a field change to the index
func (s *service) persist(e events.Event) error {
	updated, ok := e.(*events.SnapshotUpdated)
	if !ok {
		return nil
	}
	snap, ok := updated.Snapshot.(*snapshot.Snapshot)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.repository.Update(ctx, snap.Record()); err != nil {
		return err
	}

	s.log.Debug().
		Str("backup_id", snap.ID()).
		Str("field", string(updated.Field)).
		Msg("backup field persisted")
	return nil
}
