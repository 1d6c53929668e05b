package backups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/backup"
	apperr "github.com/KirkDiggler/remnant-save-analyzer/internal/errors"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const backupsDDL = `
CREATE TABLE IF NOT EXISTS backups (
	id               TEXT PRIMARY KEY,
	save_folder_path TEXT NOT NULL,
	name             TEXT NOT NULL,
	save_date        TEXT NOT NULL,
	keep             INTEGER NOT NULL DEFAULT 0,
	active           INTEGER NOT NULL DEFAULT 0,
	progression      TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_backups_folder ON backups (save_folder_path, save_date);
`

const selectColumns = `id, save_folder_path, name, save_date, keep, active, progression, created_at, updated_at`

// SQLiteRepository persists backup records in a SQLite database
type SQLiteRepository struct {
	db           *sql.DB
	timeProvider TimeProvider
}

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteConfig configures OpenSQLite
type SQLiteConfig struct {
	// DSN is a sqlite:// URL; sqlite://:memory: keeps everything in process
	DSN          string
	TimeProvider TimeProvider
}

// OpenSQLite opens the database, applies pragmas and creates the schema
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, apperr.InvalidArgument("sqlite config is required")
	}

	driverDSN, err := parseDSN(cfg.DSN)
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeInvalidArgument, "parsing sqlite DSN")
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if driverDSN == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	return &SQLiteRepository{db: db, timeProvider: timeProvider}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, backupsDDL); err != nil {
		return fmt.Errorf("creating backups schema: %w", err)
	}

	return tx.Commit()
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *backup.Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	now := r.timeProvider.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backups (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.SaveFolderPath,
		rec.Name,
		formatTime(rec.SaveDate),
		rec.Keep,
		rec.Active,
		rec.Progression,
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.AlreadyExistsf("backup %s already exists", rec.ID)
		}
		return apperr.Wrap(err, "failed to insert backup")
	}

	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*backup.Record, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("backup ID cannot be empty")
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM backups WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("backup not found: %s", id)
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get backup")
	}

	return rec, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *backup.Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	existing, err := r.Get(ctx, rec.ID)
	if err != nil {
		return err
	}

	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = r.timeProvider.Now()

	_, err = r.db.ExecContext(ctx,
		`UPDATE backups
		    SET save_folder_path = ?, name = ?, save_date = ?, keep = ?, active = ?, progression = ?, updated_at = ?
		  WHERE id = ?`,
		rec.SaveFolderPath,
		rec.Name,
		formatTime(rec.SaveDate),
		rec.Keep,
		rec.Active,
		rec.Progression,
		formatTime(rec.UpdatedAt),
		rec.ID,
	)
	if err != nil {
		return apperr.Wrap(err, "failed to update backup")
	}

	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backups WHERE id = ?`, id)
	if err != nil {
		return apperr.Wrap(err, "failed to delete backup")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(err, "failed to delete backup")
	}
	if n == 0 {
		return apperr.NotFoundf("backup not found: %s", id)
	}
	return nil
}

func (r *SQLiteRepository) ListByFolder(ctx context.Context, folder string) ([]*backup.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM backups WHERE save_folder_path = ?`, folder)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list backups")
	}
	defer rows.Close()

	var records []*backup.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to scan backup")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err, "failed to list backups")
	}

	// text timestamps with mixed zones do not order lexically
	sortNewestFirst(records)

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*backup.Record, error) {
	var (
		rec                        backup.Record
		saveDate, created, updated string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.SaveFolderPath,
		&rec.Name,
		&saveDate,
		&rec.Keep,
		&rec.Active,
		&rec.Progression,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	var err error
	if rec.SaveDate, err = parseTime(saveDate); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}

	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
