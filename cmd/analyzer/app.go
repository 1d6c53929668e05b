package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/catalog"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/config"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/logging"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/report"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/repositories/backups"
	"github.com/KirkDiggler/remnant-save-analyzer/internal/services"
	backupsvc "github.com/KirkDiggler/remnant-save-analyzer/internal/services/backup"
)

// app carries what every command needs. Fields already set are left alone
// by init so tests can inject them.
type app struct {
	cfg     *config.Config
	log     *zerolog.Logger
	decoder dataset.Decoder

	// backups opens the backup service; the returned func releases its store
	backups func(ctx context.Context) (backupsvc.Service, func(), error)
}

func (a *app) init() error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.cfg = cfg
	}
	if a.log == nil {
		logger := logging.New(&logging.Config{Level: a.cfg.Log.Level, Format: a.cfg.Log.Format})
		logging.SetDefault(logger)
		a.log = &logger
	}
	if a.decoder == nil {
		a.decoder = &dataset.JSONDecoder{}
	}
	if a.backups == nil {
		a.backups = a.openBackups
	}
	return nil
}

func (a *app) catalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(a.cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("path", a.cfg.Catalog.Path).Int("entries", cat.Len()).Msg("catalog loaded")
	return cat, nil
}

func (a *app) engine() (*report.Engine, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	return report.New(&report.Config{Catalog: cat}), nil
}

func (a *app) openBackups(ctx context.Context) (backupsvc.Service, func(), error) {
	repo, closer, err := a.openRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg := &services.ProviderConfig{
		Decoder:          a.decoder,
		BackupRepository: repo,
		BackupLimit:      a.cfg.Backup.Limit,
		Logger:           a.log,
	}
	// progression needs the catalog; backups still work without one
	if cat, err := a.catalog(); err == nil {
		cfg.Catalog = cat
	} else {
		a.log.Debug().Err(err).Msg("backups recorded without progression")
	}

	return services.NewProvider(cfg).BackupService, closer, nil
}

func (a *app) openRepository(ctx context.Context) (backups.Repository, func(), error) {
	switch a.cfg.Backup.Store {
	case config.StoreRedis:
		opts, err := a.cfg.Redis.Options()
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return backups.NewRedis(client), func() { _ = client.Close() }, nil
	case config.StoreSQLite:
		repo, err := backups.OpenSQLite(ctx, &backups.SQLiteConfig{DSN: a.cfg.Backup.SQLiteDSN})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		a.log.Warn().Msg("memory backup store keeps nothing between runs")
		return backups.NewInMemoryRepository(nil), func() {}, nil
	}
}
