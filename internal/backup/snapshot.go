// Package backup models point-in-time captures of a save folder.
//
// A Snapshot supports transactional edits: BeginEdit shadows the editable
// fields, CancelEdit restores them, and EndEdit publishes one
// events.SnapshotUpdated per field that changed, in the order Name, SaveDate,
// Keep, Active. Outside a transaction SetKeep publishes immediately when the
// value changes; the other setters only ever publish through EndEdit.
//
// Snapshots are not safe for concurrent edits.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/events"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/uuid"
)

// Summarizer computes the progression summary of a save folder
type Summarizer interface {
	Summarize(path string) string
}

// SummarizerFunc adapts a function to Summarizer
type SummarizerFunc func(path string) string

// Summarize implements Summarizer
func (f SummarizerFunc) Summarize(path string) string { return f(path) }

// ModTimeFunc reads the modification time of a file
type ModTimeFunc func(path string) (time.Time, error)

// FileModTime reads the modification time from the filesystem
func FileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Config holds snapshot collaborators; all fields are optional
type Config struct {
	// ID is assigned by IDs when empty
	ID  string
	IDs uuid.Generator

	Summarizer Summarizer

	// Bus receives change notifications. Each snapshot gets its own bus when nil.
	Bus *events.Bus

	// ModTime defaults to FileModTime
	ModTime ModTimeFunc
}

type fields struct {
	name   string
	date   time.Time
	keep   bool
	active bool
}

// Snapshot is one capture of a save folder
type Snapshot struct {
	id          string
	path        string
	data        fields
	shadow      fields
	editing     bool
	progression func() string
	bus         *events.Bus
}

var _ events.SnapshotState = (*Snapshot)(nil)

// New captures the save folder at path. The save date is the profile save's
// modification time and the name is that date's tick count.
func New(path string, cfg *Config) *Snapshot {
	if cfg == nil {
		cfg = &Config{}
	}

	modTime := cfg.ModTime
	if modTime == nil {
		modTime = FileModTime
	}
	date, err := modTime(filepath.Join(path, dataset.ProfileSaveName+".sav"))
	if err != nil {
		date = time.Time{}
	}

	s := newSnapshot(path, cfg)
	s.data = fields{name: Ticks(date), date: date}
	s.progression = summarize(cfg.Summarizer, path)
	return s
}

func newSnapshot(path string, cfg *Config) *Snapshot {
	id := cfg.ID
	if id == "" {
		ids := cfg.IDs
		if ids == nil {
			ids = uuid.NewTimeOrderedGenerator()
		}
		id = ids.New()
	}

	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus()
	}

	return &Snapshot{id: id, path: path, bus: bus}
}

func summarize(summarizer Summarizer, path string) func() string {
	if summarizer == nil {
		return func() string { return "" }
	}
	return sync.OnceValue(func() string { return summarizer.Summarize(path) })
}

// ID identifies the snapshot in the backup index
func (s *Snapshot) ID() string { return s.id }

// SaveFolderPath is the folder the snapshot captured
func (s *Snapshot) SaveFolderPath() string { return s.path }

// Name is the display name
func (s *Snapshot) Name() string { return s.data.name }

// SaveDate is the capture date
func (s *Snapshot) SaveDate() time.Time { return s.data.date }

// Keep reports whether the snapshot is pinned against pruning
func (s *Snapshot) Keep() bool { return s.data.keep }

// Active reports whether the snapshot is the one currently loaded
func (s *Snapshot) Active() bool { return s.data.active }

// Progression is the summary of the captured save, computed on first use
func (s *Snapshot) Progression() string { return s.progression() }

// Editing reports whether a transaction is open
func (s *Snapshot) Editing() bool { return s.editing }

// SetName renames the snapshot; an empty name falls back to the save date's tick count
func (s *Snapshot) SetName(name string) {
	if name == "" {
		name = Ticks(s.data.date)
	}
	s.data.name = name
}

// SetSaveDate overrides the capture date
func (s *Snapshot) SetSaveDate(date time.Time) {
	s.data.date = date
}

// SetActive marks the snapshot as loaded or not
func (s *Snapshot) SetActive(active bool) {
	s.data.active = active
}

// SetKeep pins or unpins the snapshot. Outside a transaction it publishes
// Keep as soon as the value changes; inside one EndEdit does.
func (s *Snapshot) SetKeep(keep bool) error {
	if s.data.keep == keep {
		return nil
	}
	s.data.keep = keep
	if s.editing {
		return nil
	}
	return s.notify(events.FieldKeep)
}

// BeginEdit opens a transaction. It is a no-op while one is already open.
func (s *Snapshot) BeginEdit() {
	if s.editing {
		return
	}
	s.shadow = s.data
	s.editing = true
}

// CancelEdit discards every change made since BeginEdit without publishing anything
func (s *Snapshot) CancelEdit() {
	if !s.editing {
		return
	}
	s.data = s.shadow
	s.shadow = fields{}
	s.editing = false
}

// EndEdit closes the transaction and publishes one notification per changed field.
// Listener errors are joined; every changed field is still published.
func (s *Snapshot) EndEdit() error {
	if !s.editing {
		return nil
	}
	before := s.shadow
	s.shadow = fields{}
	s.editing = false

	var errs []error
	if before.name != s.data.name {
		errs = append(errs, s.notify(events.FieldName))
	}
	if !before.date.Equal(s.data.date) {
		errs = append(errs, s.notify(events.FieldSaveDate))
	}
	if before.keep != s.data.keep {
		errs = append(errs, s.notify(events.FieldKeep))
	}
	if before.active != s.data.active {
		errs = append(errs, s.notify(events.FieldActive))
	}
	return errors.Join(errs...)
}

var subscriptions atomic.Int64

// Subscribe calls fn for every change notification of this snapshot and
// returns a function that removes the subscription
func (s *Snapshot) Subscribe(fn func(field events.SnapshotField, snapshot *Snapshot)) func() {
	id := fmt.Sprintf("snapshot-%s-%d", s.id, subscriptions.Add(1))
	s.bus.Subscribe(events.EventTypeSnapshotUpdated, &events.ListenerFunc{
		Name:  id,
		Order: events.PriorityDefault,
		Handle: func(e events.Event) error {
			updated, ok := e.(*events.SnapshotUpdated)
			if !ok || updated.Snapshot != events.SnapshotState(s) {
				return nil
			}
			fn(updated.Field, s)
			return nil
		},
	})
	return func() { s.bus.Unsubscribe(events.EventTypeSnapshotUpdated, id) }
}

func (s *Snapshot) notify(field events.SnapshotField) error {
	return s.bus.Emit(events.NewSnapshotUpdated(field, s))
}

// ticksAtUnixEpoch is the tick count of 1970-01-01T00:00:00
const ticksAtUnixEpoch = 621355968000000000

// Ticks renders t as the number of 100ns intervals since 0001-01-01 on t's wall clock
func Ticks(t time.Time) string {
	_, offset := t.Zone()
	ticks := (t.Unix()+int64(offset))*10_000_000 + int64(t.Nanosecond())/100 + ticksAtUnixEpoch
	return strconv.FormatInt(ticks, 10)
}
