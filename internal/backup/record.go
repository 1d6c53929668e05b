package backup

import "time"

// Record is the persisted form of a Snapshot
type Record struct {
	ID             string
	SaveFolderPath string
	Name           string
	SaveDate       time.Time
	Keep           bool
	Active         bool
	Progression    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Record captures the snapshot's current field values. Progression is
// computed if it has not been already.
func (s *Snapshot) Record() *Record {
	return &Record{
		ID:             s.id,
		SaveFolderPath: s.path,
		Name:           s.data.name,
		SaveDate:       s.data.date,
		Keep:           s.data.keep,
		Active:         s.data.active,
		Progression:    s.Progression(),
	}
}

// FromRecord rebuilds a snapshot from the backup index without touching the
// filesystem. A stored progression wins over the Summarizer.
func FromRecord(rec *Record, cfg *Config) *Snapshot {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	c.ID = rec.ID

	s := newSnapshot(rec.SaveFolderPath, &c)
	s.data = fields{
		name:   rec.Name,
		date:   rec.SaveDate,
		keep:   rec.Keep,
		active: rec.Active,
	}
	if rec.Progression != "" {
		progression := rec.Progression
		s.progression = func() string { return progression }
	} else {
		s.progression = summarize(cfg.Summarizer, rec.SaveFolderPath)
	}
	return s
}
