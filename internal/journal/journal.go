// Package journal keeps an append-only record of cast attempts and reloads
// in SQLite or PostgreSQL.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/minekent/skillsengine/internal/engine"
	"github.com/minekent/skillsengine/internal/journal/migrations"
	"github.com/minekent/skillsengine/internal/logger"
)

// CastEntry is one journaled cast attempt.
type CastEntry struct {
	ID       int64
	At       time.Time
	PlayerID uuid.UUID
	Player   string
	SkillID  string
	Source   string
	OK       bool
	Reason   string
	// Result is the rendered result, such as "OK" or "COOLDOWN:3s".
	Result string
}

// ReloadEntry is one journaled reload.
type ReloadEntry struct {
	ID       int64
	At       time.Time
	Dir      string
	Loaded   int
	Skipped  int
	Warnings int
	Errors   int
	Took     time.Duration
}

// Journal writes to and reads from the journal database.
type Journal struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open connects using cfg and applies pending migrations.
func Open(ctx context.Context, cfg Config) (*Journal, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		dsn = cfg.Postgres.DSN()
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if _, ok := dialect.(*PostgresDialect); ok {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
	}

	if err := migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	fsys, err := fs.Sub(migrations.FS, dialect.MigrationsDir())
	if err != nil {
		return fmt.Errorf("failed to locate migrations: %w", err)
	}
	provider, err := goose.NewProvider(dialect.GooseDialect(), db, fsys)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("Applied journal migration", "version", r.Source.Version, "took", r.Duration)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// insert runs an INSERT and returns the new row id.
func (j *Journal) insert(query string, args ...any) (int64, error) {
	q := j.qb.BuildWithReturning(query, "id")
	if !j.dialect.SupportsLastInsertID() {
		var id int64
		if err := j.db.QueryRow(q, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := j.db.Exec(q, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AppendCast stores a cast attempt and returns its id.
func (j *Journal) AppendCast(rec engine.CastRecord) (int64, error) {
	reason := ""
	if !rec.Result.OK {
		reason = string(rec.Result.Reason)
	}
	id, err := j.insert(`
		INSERT INTO casts (at_ms, player_id, player, skill_id, source, ok, reason, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.At.UnixMilli(), rec.PlayerID.String(), rec.Player, rec.SkillID, rec.Source,
		rec.Result.OK, reason, rec.Result.String())
	if err != nil {
		return 0, fmt.Errorf("failed to insert cast: %w", err)
	}
	return id, nil
}

// RecordCast implements engine.Recorder. Failures are logged, never returned to the cast.
func (j *Journal) RecordCast(rec engine.CastRecord) {
	if _, err := j.AppendCast(rec); err != nil {
		logger.Warning("Failed to journal cast", "skill", rec.SkillID, "player", rec.Player, "error", err)
	}
}

// RecordReload stores a reload summary and returns its id.
func (j *Journal) RecordReload(e ReloadEntry) (int64, error) {
	id, err := j.insert(`
		INSERT INTO reloads (at_ms, dir, loaded, skipped, warnings, errors, took_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.At.UnixMilli(), e.Dir, e.Loaded, e.Skipped, e.Warnings, e.Errors, e.Took.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("failed to insert reload: %w", err)
	}
	return id, nil
}

// RecentCasts returns up to limit cast attempts, newest first.
func (j *Journal) RecentCasts(limit int) ([]CastEntry, error) {
	return j.queryCasts(`
		SELECT id, at_ms, player_id, player, skill_id, source, ok, reason, result
		FROM casts
		ORDER BY id DESC
		LIMIT ?`, limit)
}

// CastsForSkill returns up to limit attempts of one skill, newest first. The id is matched case-insensitively.
func (j *Journal) CastsForSkill(skillID string, limit int) ([]CastEntry, error) {
	return j.queryCasts(`
		SELECT id, at_ms, player_id, player, skill_id, source, ok, reason, result
		FROM casts
		WHERE lower(skill_id) = lower(?)
		ORDER BY id DESC
		LIMIT ?`, skillID, limit)
}

func (j *Journal) queryCasts(query string, args ...any) ([]CastEntry, error) {
	rows, err := j.db.Query(j.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query casts: %w", err)
	}
	defer rows.Close()

	var entries []CastEntry
	for rows.Next() {
		var e CastEntry
		var atMillis int64
		var playerID string
		if err := rows.Scan(&e.ID, &atMillis, &playerID, &e.Player, &e.SkillID, &e.Source, &e.OK, &e.Reason, &e.Result); err != nil {
			return nil, fmt.Errorf("failed to scan cast: %w", err)
		}
		e.At = time.UnixMilli(atMillis)
		// A malformed id stays uuid.Nil rather than hiding the row.
		e.PlayerID, _ = uuid.Parse(playerID)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read casts: %w", err)
	}
	return entries, nil
}

// RecentReloads returns up to limit reload summaries, newest first.
func (j *Journal) RecentReloads(limit int) ([]ReloadEntry, error) {
	rows, err := j.db.Query(j.qb.Build(`
		SELECT id, at_ms, dir, loaded, skipped, warnings, errors, took_ms
		FROM reloads
		ORDER BY id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reloads: %w", err)
	}
	defer rows.Close()

	var entries []ReloadEntry
	for rows.Next() {
		var e ReloadEntry
		var atMillis, tookMillis int64
		if err := rows.Scan(&e.ID, &atMillis, &e.Dir, &e.Loaded, &e.Skipped, &e.Warnings, &e.Errors, &tookMillis); err != nil {
			return nil, fmt.Errorf("failed to scan reload: %w", err)
		}
		e.At = time.UnixMilli(atMillis)
		e.Took = time.Duration(tookMillis) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reloads: %w", err)
	}
	return entries, nil
}
