package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/tracker/internal/model"
)

const busyTimeoutMS = 5000

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// recordRow is the period_records row layout.
type recordRow struct {
	ID          string         `db:"id"`
	Kind        string         `db:"kind"`
	Owner       string         `db:"owner"`
	PeriodKey   string         `db:"period_key"`
	Status      string         `db:"status"`
	Items       string         `db:"items"`
	WeekEnd     sql.NullString `db:"week_end"`
	WeekNumber  sql.NullInt64  `db:"week_number"`
	WeekYear    sql.NullInt64  `db:"week_year"`
	CreatedAt   int64          `db:"created_at"`
	LastUpdated sql.NullInt64  `db:"last_updated"`
}

const selectRecord = `
	SELECT id, kind, owner, period_key, status, items,
		week_end, week_number, week_year, created_at, last_updated
	FROM period_records`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	memory := dbPath == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", dbPath, busyTimeoutMS)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Each connection to :memory: gets its own database.
	if memory {
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// FindByKey returns the record for (kind, owner, periodKey).
func (s *SQLiteStore) FindByKey(
	ctx context.Context,
	kind model.Kind,
	owner, periodKey string,
) (*model.Record, error) {
	var row recordRow
	err := s.db.GetContext(ctx, &row,
		selectRecord+" WHERE kind = ? AND owner = ? AND period_key = ?",
		string(kind), owner, periodKey,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s record %s/%s: %w", kind, owner, periodKey, err)
	}

	rec, err := row.toRecord()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByOwner returns the owner's records, newest period first.
func (s *SQLiteStore) ListByOwner(
	ctx context.Context,
	kind model.Kind,
	owner string,
	limit int,
) ([]model.Record, error) {
	query := selectRecord + " WHERE kind = ? AND owner = ? ORDER BY period_key DESC"
	args := []interface{}{string(kind), owner}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing %s records for %s: %w", kind, owner, err)
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Create inserts a new record.
func (s *SQLiteStore) Create(ctx context.Context, rec model.Record) (string, error) {
	if err := validateNew(rec); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = newID()
	}

	row, err := fromRecord(rec)
	if err != nil {
		return "", err
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO period_records (
			id, kind, owner, period_key, status, items,
			week_end, week_number, week_year, created_at, last_updated
		) VALUES (
			:id, :kind, :owner, :period_key, :status, :items,
			:week_end, :week_number, :week_year, :created_at, :last_updated
		)`, row)
	if err != nil {
		if isUniqueConstraintError(err) {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("creating %s record %s/%s: %w", rec.Kind, rec.Owner, rec.PeriodKey, err)
	}

	return rec.ID, nil
}

// Patch updates the non-nil fields of p on record id.
func (s *SQLiteStore) Patch(ctx context.Context, id string, p model.Patch) (string, error) {
	var (
		sets []string
		args []interface{}
	)

	if p.Items != nil {
		items, err := encodeItems(*p.Items)
		if err != nil {
			return "", err
		}
		sets = append(sets, "items = ?")
		args = append(args, string(items))
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.LastUpdated != nil {
		sets = append(sets, "last_updated = ?")
		args = append(args, p.LastUpdated.UnixNano())
	}

	if len(sets) == 0 {
		var exists int
		err := s.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM period_records WHERE id = ?", id)
		if err != nil {
			return "", fmt.Errorf("checking record %s: %w", id, err)
		}
		if exists == 0 {
			return "", ErrNotFound
		}
		return id, nil
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE period_records SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return "", fmt.Errorf("patching record %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("checking patch result for %s: %w", id, err)
	}
	if n == 0 {
		return "", ErrNotFound
	}

	return id, nil
}

func fromRecord(rec model.Record) (recordRow, error) {
	items, err := encodeItems(rec.Items)
	if err != nil {
		return recordRow{}, err
	}

	status := rec.Status
	if status == "" {
		status = model.StatusDraft
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := recordRow{
		ID:        rec.ID,
		Kind:      string(rec.Kind),
		Owner:     rec.Owner,
		PeriodKey: rec.PeriodKey,
		Status:    string(status),
		Items:     string(items),
		CreatedAt: createdAt.UnixNano(),
	}
	if rec.Week != nil {
		row.WeekEnd = sql.NullString{String: rec.Week.WeekEnd, Valid: true}
		row.WeekNumber = sql.NullInt64{Int64: int64(rec.Week.WeekNumber), Valid: true}
		row.WeekYear = sql.NullInt64{Int64: int64(rec.Week.Year), Valid: true}
	}
	if rec.LastUpdated != nil {
		row.LastUpdated = sql.NullInt64{Int64: rec.LastUpdated.UnixNano(), Valid: true}
	}
	return row, nil
}

func (r recordRow) toRecord() (model.Record, error) {
	items, err := decodeItems([]byte(r.Items))
	if err != nil {
		return model.Record{}, fmt.Errorf("reading record %s: %w", r.ID, err)
	}

	rec := model.Record{
		ID:        r.ID,
		Kind:      model.Kind(r.Kind),
		Owner:     r.Owner,
		PeriodKey: r.PeriodKey,
		Status:    model.RecordStatus(r.Status),
		Items:     items,
		CreatedAt: time.Unix(0, r.CreatedAt),
	}
	if r.WeekEnd.Valid {
		rec.Week = &model.WeekMeta{
			WeekEnd:    r.WeekEnd.String,
			WeekNumber: int(r.WeekNumber.Int64),
			Year:       int(r.WeekYear.Int64),
		}
	}
	if r.LastUpdated.Valid {
		t := time.Unix(0, r.LastUpdated.Int64)
		rec.LastUpdated = &t
	}
	return rec, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
