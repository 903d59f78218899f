package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nhle/tracker/internal/model"
)

const pgUniqueViolation = "23505"

var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store on a shared Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, verifies the connection and runs any
// pending migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	poolCfg.MaxConns = 4
	poolCfg.MaxConnIdleTime = time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	currentVersion := 0

	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT to_regclass('schema_version') IS NOT NULL",
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if exists {
		err = s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range postgresMigrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

const pgSelectRecord = `
	SELECT id, kind, owner, period_key, status, items,
		week_end, week_number, week_year, created_at, last_updated
	FROM period_records`

// FindByKey returns the record for (kind, owner, periodKey).
func (s *PostgresStore) FindByKey(
	ctx context.Context,
	kind model.Kind,
	owner, periodKey string,
) (*model.Record, error) {
	row := s.pool.QueryRow(ctx,
		pgSelectRecord+" WHERE kind = $1 AND owner = $2 AND period_key = $3",
		string(kind), owner, periodKey,
	)

	rec, err := scanPgRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s record %s/%s: %w", kind, owner, periodKey, err)
	}
	return &rec, nil
}

// ListByOwner returns the owner's records, newest period first.
func (s *PostgresStore) ListByOwner(
	ctx context.Context,
	kind model.Kind,
	owner string,
	limit int,
) ([]model.Record, error) {
	query := pgSelectRecord + " WHERE kind = $1 AND owner = $2 ORDER BY period_key DESC"
	args := []any{string(kind), owner}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s records for %s: %w", kind, owner, err)
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		rec, err := scanPgRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s record: %w", kind, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Create inserts a new record.
func (s *PostgresStore) Create(ctx context.Context, rec model.Record) (string, error) {
	if err := validateNew(rec); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	if rec.Status == "" {
		rec.Status = model.StatusDraft
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	items, err := encodeItems(rec.Items)
	if err != nil {
		return "", err
	}

	var (
		weekEnd              *string
		weekNumber, weekYear *int
	)
	if rec.Week != nil {
		weekEnd, weekNumber, weekYear = &rec.Week.WeekEnd, &rec.Week.WeekNumber, &rec.Week.Year
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO period_records (
			id, kind, owner, period_key, status, items,
			week_end, week_number, week_year, created_at, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, string(rec.Kind), rec.Owner, rec.PeriodKey, string(rec.Status), string(items),
		weekEnd, weekNumber, weekYear, rec.CreatedAt.UTC(), rec.LastUpdated,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("creating %s record %s/%s: %w", rec.Kind, rec.Owner, rec.PeriodKey, err)
	}
	return rec.ID, nil
}

// Patch updates the non-nil fields of p on record id.
func (s *PostgresStore) Patch(ctx context.Context, id string, p model.Patch) (string, error) {
	var (
		sets []string
		args []any
	)
	next := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Items != nil {
		items, err := encodeItems(*p.Items)
		if err != nil {
			return "", err
		}
		next("items", string(items))
	}
	if p.Status != nil {
		next("status", string(*p.Status))
	}
	if p.LastUpdated != nil {
		next("last_updated", p.LastUpdated.UTC())
	}

	if len(sets) == 0 {
		var found bool
		err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM period_records WHERE id = $1)", id).Scan(&found)
		if err != nil {
			return "", fmt.Errorf("checking record %s: %w", id, err)
		}
		if !found {
			return "", ErrNotFound
		}
		return id, nil
	}

	args = append(args, id)
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf("UPDATE period_records SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)),
		args...,
	)
	if err != nil {
		return "", fmt.Errorf("patching record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrNotFound
	}
	return id, nil
}

func scanPgRecord(row pgx.Row) (model.Record, error) {
	var (
		rec                  model.Record
		kind, status         string
		items                []byte
		weekEnd              *string
		weekNumber, weekYear *int
	)

	err := row.Scan(
		&rec.ID, &kind, &rec.Owner, &rec.PeriodKey, &status, &items,
		&weekEnd, &weekNumber, &weekYear, &rec.CreatedAt, &rec.LastUpdated,
	)
	if err != nil {
		return model.Record{}, err
	}

	rec.Kind = model.Kind(kind)
	rec.Status = model.RecordStatus(status)
	if rec.Items, err = decodeItems(items); err != nil {
		return model.Record{}, err
	}
	if weekEnd != nil {
		rec.Week = &model.WeekMeta{WeekEnd: *weekEnd}
		if weekNumber != nil {
			rec.Week.WeekNumber = *weekNumber
		}
		if weekYear != nil {
			rec.Week.Year = *weekYear
		}
	}
	return rec, nil
}
