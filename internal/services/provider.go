package services

import (
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/catalog"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/events"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/report"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/repositories/backups"
	backupService "github.com/KirkDiggler/remnant-save-analyzer/internal/services/backup"
)

// Provider holds all service instances
type Provider struct {
	Engine        *report.Engine
	BackupService backupService.Service
	Bus           *events.Bus
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	// Catalog is optional; without it there is no Engine and backups carry no progression
	Catalog          catalog.Lookup
	Decoder          dataset.Decoder
	BackupRepository backups.Repository
	BackupLimit      int
	Logger           *zerolog.Logger
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repository if none provided
	backupRepo := cfg.BackupRepository
	if backupRepo == nil {
		backupRepo = backups.NewInMemoryRepository(nil)
	}

	decoder := cfg.Decoder
	if decoder == nil {
		decoder = &dataset.JSONDecoder{}
	}

	bus := events.NewBusWithLogger(cfg.Logger)

	backupCfg := &backupService.ServiceConfig{
		Repository: backupRepo,
		Bus:        bus,
		Logger:     cfg.Logger,
		Limit:      cfg.BackupLimit,
	}

	var engine *report.Engine
	if cfg.Catalog != nil {
		engine = report.New(&report.Config{Catalog: cfg.Catalog})
		backupCfg.Summarizer = backupService.NewProgressionSummarizer(decoder, engine, cfg.Logger)
	}

	return &Provider{
		Engine:        engine,
		BackupService: backupService.NewService(backupCfg),
		Bus:           bus,
	}
}
