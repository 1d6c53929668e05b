package backups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	apperr "github.com/KirkDiggler/remnant-save-analyzer/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	// Key patterns
	backupKeyPrefix  = "backup:"
	folderBackupsKey = "folder:%s:backups"

	listConcurrency = 8
)

// Data is the serialized form of a backup record
type Data struct {
	ID             string    `json:"id"`
	SaveFolderPath string    `json:"save_folder_path"`
	Name           string    `json:"name"`
	SaveDate       time.Time `json:"save_date"`
	Keep           bool      `json:"keep"`
	Active         bool      `json:"active"`
	Progression    string    `json:"progression,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// NewRedisRepository creates a Redis-backed backup repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: timeProvider,
	}
}

func backupKey(id string) string {
	return backupKeyPrefix + id
}

func folderKey(folder string) string {
	return fmt.Sprintf(folderBackupsKey, folder)
}

func (r *redisRepo) set(ctx context.Context, rec *backup.Record, previousFolder string) error {
	jsonData, err := json.Marshal(toData(rec))
	if err != nil {
		return apperr.Wrap(err, "failed to marshal backup data")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, backupKey(rec.ID), string(jsonData), 0)
	if previousFolder != rec.SaveFolderPath {
		if previousFolder != "" {
			pipe.SRem(ctx, folderKey(previousFolder), rec.ID)
		}
		pipe.SAdd(ctx, folderKey(rec.SaveFolderPath), rec.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(err, "failed to store backup in Redis")
	}

	return nil
}

func (r *redisRepo) Create(ctx context.Context, rec *backup.Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, backupKey(rec.ID)).Result()
	if err != nil {
		return apperr.Wrap(err, "failed to check backup existence")
	}
	if exists > 0 {
		return apperr.AlreadyExistsf("backup %s already exists", rec.ID)
	}

	now := r.timeProvider.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	return r.set(ctx, rec, "")
}

func (r *redisRepo) Get(ctx context.Context, id string) (*backup.Record, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("backup ID cannot be empty")
	}

	jsonData, err := r.client.Get(ctx, backupKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFoundf("backup not found: %s", id)
		}
		return nil, apperr.Wrap(err, "failed to get backup from Redis")
	}

	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, apperr.Wrap(err, "failed to unmarshal backup data")
	}

	return toRecord(&data), nil
}

func (r *redisRepo) Update(ctx context.Context, rec *backup.Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	existing, err := r.Get(ctx, rec.ID)
	if err != nil {
		return err
	}

	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = r.timeProvider.Now()

	return r.set(ctx, rec, existing.SaveFolderPath)
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, backupKey(id))
	pipe.SRem(ctx, folderKey(rec.SaveFolderPath), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(err, "failed to delete backup from Redis")
	}

	return nil
}

func (r *redisRepo) ListByFolder(ctx context.Context, folder string) ([]*backup.Record, error) {
	ids, err := r.client.SMembers(ctx, folderKey(folder)).Result()
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get folder backups from Redis")
	}

	found := make([]*backup.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := r.Get(gctx, id)
			if apperr.IsNotFound(err) {
				// index entry outlived its record
				return nil
			}
			if err != nil {
				return apperr.Wrapf(err, "failed to get backup %s", id)
			}
			found[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]*backup.Record, 0, len(found))
	for _, rec := range found {
		if rec != nil {
			records = append(records, rec)
		}
	}
	sortNewestFirst(records)

	return records, nil
}

func toData(rec *backup.Record) *Data {
	return &Data{
		ID:             rec.ID,
		SaveFolderPath: rec.SaveFolderPath,
		Name:           rec.Name,
		SaveDate:       rec.SaveDate,
		Keep:           rec.Keep,
		Active:         rec.Active,
		Progression:    rec.Progression,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func toRecord(data *Data) *backup.Record {
	return &backup.Record{
		ID:             data.ID,
		SaveFolderPath: data.SaveFolderPath,
		Name:           data.Name,
		SaveDate:       data.SaveDate,
		Keep:           data.Keep,
		Active:         data.Active,
		Progression:    data.Progression,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
