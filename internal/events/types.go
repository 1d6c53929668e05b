package events

import "time"

// EventType represents the type of a domain event
type EventType string

// Event is the base interface for all events published on a Bus
type Event interface {
	GetType() EventType
	IsCancelled() bool
	Cancel()
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type      EventType
	Cancelled bool
}

func (e *BaseEvent) GetType() EventType { return e.Type }
func (e *BaseEvent) IsCancelled() bool  { return e.Cancelled }
func (e *BaseEvent) Cancel()            { e.Cancelled = true }

// SnapshotField names a backup snapshot property that raises change notifications
type SnapshotField string

const (
	FieldName     SnapshotField = "Name"
	FieldSaveDate SnapshotField = "SaveDate"
	FieldKeep     SnapshotField = "Keep"
	FieldActive   SnapshotField = "Active"
)

// SnapshotState is the read side of a backup snapshot
type SnapshotState interface {
	ID() string
	Name() string
	SaveDate() time.Time
	Keep() bool
	Active() bool
	SaveFolderPath() string
}

// SnapshotUpdated is published once per changed snapshot field
type SnapshotUpdated struct {
	BaseEvent
	Field    SnapshotField
	Snapshot SnapshotState
}

// NewSnapshotUpdated creates a change notification for field
func NewSnapshotUpdated(field SnapshotField, snapshot SnapshotState) *SnapshotUpdated {
	return &SnapshotUpdated{
		BaseEvent: BaseEvent{Type: EventTypeSnapshotUpdated},
		Field:     field,
		Snapshot:  snapshot,
	}
}
