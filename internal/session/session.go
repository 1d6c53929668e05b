// Package session owns one save folder: it decodes the folder into a Dataset
// on demand and runs the first-load side effects.
package session

//go:generate mockgen -destination=mock/mock_session.go -package=mocksession -source=session.go

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	apperr "github.com/KirkDiggler/remnant-save-analyzer/internal/errors"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/logging"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/report"
	"github.com/rs/zerolog"
)

// Notifier surfaces load failures to the user
type Notifier interface {
	ReportError(details string)
}

// DumpSink receives the first successfully loaded Dataset
type DumpSink interface {
	Dump(ds *dataset.Dataset) error
}

// Reporter renders a Dataset into a report sink
type Reporter interface {
	Run(ds *dataset.Dataset, sink report.Sink)
}

// Options toggles the first-load side effects
type Options struct {
	// EmitInitialReport runs the Reporter into ReportSink after the first successful load
	EmitInitialReport bool

	// DumpDataset hands the first successfully loaded Dataset to the DumpSink
	DumpDataset bool
}

// Config holds the controller collaborators. Only Decoder is required.
type Config struct {
	Decoder    dataset.Decoder
	Reporter   Reporter
	ReportSink report.Sink
	Notifier   Notifier
	Dumper     DumpSink
	Logger     *zerolog.Logger
	Options    Options
}

// Controller is bound to one save folder for its lifetime
type Controller struct {
	path        string
	profilePath string

	decoder    dataset.Decoder
	reporter   Reporter
	reportSink report.Sink
	notifier   Notifier
	dumper     DumpSink
	log        *zerolog.Logger
	opts       Options

	// mu serialises Refresh; loaded is guarded by it
	mu      sync.Mutex
	loaded  bool
	current atomic.Pointer[dataset.Dataset]
}

// ValidSaveFolder reports whether folder holds a profile save
func ValidSaveFolder(folder string) bool {
	return dataset.FindSaveFile(folder, dataset.ProfileSaveName) != ""
}

// New creates a controller without loading anything. A controller for a
// folder without a profile save is not Valid and every Refresh fails.
func New(path string, cfg *Config) *Controller {
	if cfg == nil {
		panic("session Config cannot be nil")
	}
	if cfg.Decoder == nil {
		panic("session decoder cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Default()
	}
	l := log.With().Str("folder", path).Logger()

	return &Controller{
		path:        path,
		profilePath: dataset.FindSaveFile(path, dataset.ProfileSaveName),
		decoder:     cfg.Decoder,
		reporter:    cfg.Reporter,
		reportSink:  cfg.ReportSink,
		notifier:    cfg.Notifier,
		dumper:      cfg.Dumper,
		log:         &l,
		opts:        cfg.Options,
	}
}

// Open creates a controller and performs the initial load.
// It fails with an invalid save folder error when path holds no profile save.
// A decode failure is reported to the Notifier and returned alongside the controller.
func Open(ctx context.Context, path string, cfg *Config) (*Controller, error) {
	c := New(path, cfg)
	if !c.Valid() {
		return nil, apperr.InvalidSaveFolder(path)
	}
	return c, c.Refresh(ctx)
}

// Valid reports whether a profile save was found when the controller was created
func (c *Controller) Valid() bool {
	return c.profilePath != ""
}

// SaveFolderPath returns the folder the controller is bound to
func (c *Controller) SaveFolderPath() string {
	return c.path
}

// ProfilePath returns the profile save path, empty when not Valid
func (c *Controller) ProfilePath() string {
	return c.profilePath
}

// Dataset returns the last successfully loaded Dataset, nil before the first load
func (c *Controller) Dataset() *dataset.Dataset {
	return c.current.Load()
}

// Refresh decodes the folder again. Concurrent callers run one at a time and
// each performs its own decode. On failure the previous Dataset is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.Valid() {
		return apperr.InvalidSaveFolder(c.path)
	}

	ds, err := c.decode(ctx, c.current.Load())
	if err != nil {
		decodeErr := apperr.DecodeFailure(err, c.path)
		c.log.Error().Err(err).Msg("save folder decode failed")
		if c.notifier != nil {
			c.notifier.ReportError(decodeErr.Error())
		}
		return decodeErr
	}

	c.current.Store(ds)
	c.log.Debug().Int("characters", len(ds.Characters)).Msg("save folder loaded")

	if !c.loaded {
		c.loaded = true
		c.firstLoad(ds)
	}
	return nil
}

func (c *Controller) decode(ctx context.Context, previous *dataset.Dataset) (ds *dataset.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			ds, err = nil, fmt.Errorf("decoder panicked: %v", r)
		}
	}()

	ds, err = c.decoder.Decode(ctx, c.path, previous)
	if err == nil && ds == nil {
		err = fmt.Errorf("decoder returned no dataset")
	}
	return ds, err
}

func (c *Controller) firstLoad(ds *dataset.Dataset) {
	if c.opts.EmitInitialReport && c.reporter != nil && c.reportSink != nil {
		c.reporter.Run(ds, c.reportSink)
	}

	c.log.Info().Msg("startup finished")

	if c.opts.DumpDataset && c.dumper != nil {
		if err := c.dumper.Dump(ds); err != nil {
			c.log.Warn().Err(err).Msg("failed to dump dataset")
		}
	}
}
