package events

// Event type constants
const (
	EventTypeSnapshotUpdated EventType = "snapshot_updated"
)

// Priority levels for listener ordering, lowest runs first
const (
	PriorityPersistence = 100 // write-through to the backup index
	PriorityDefault     = 300 // everything else
)
