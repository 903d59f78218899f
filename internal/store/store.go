package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/tracker/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned by Create when a record already exists for
	// the same (kind, owner, period key).
	ErrDuplicate = errors.New("record already exists")
)

// Store persists period records. Every backend enforces at most one record
// per (kind, owner, period key).
type Store interface {
	// FindByKey returns the record for owner and periodKey, or ErrNotFound.
	FindByKey(ctx context.Context, kind model.Kind, owner, periodKey string) (*model.Record, error)

	// ListByOwner returns the owner's records ordered by period key
	// descending. A limit <= 0 returns every record.
	ListByOwner(ctx context.Context, kind model.Kind, owner string, limit int) ([]model.Record, error)

	// Create inserts rec and returns its id. An empty rec.ID is generated.
	Create(ctx context.Context, rec model.Record) (string, error)

	// Patch applies a partial update and returns the record id, or
	// ErrNotFound for an unknown id.
	Patch(ctx context.Context, id string, p model.Patch) (string, error)

	Close() error
}

func newID() string {
	return uuid.New().String()
}

func encodeItems(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshaling items: %w", err)
	}
	return data, nil
}

func decodeItems(data []byte) ([]model.Item, error) {
	items := []model.Item{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshaling items: %w", err)
	}
	return items, nil
}

func validateNew(rec model.Record) error {
	if rec.Owner == "" {
		return fmt.Errorf("creating record: owner is required")
	}
	if rec.PeriodKey == "" {
		return fmt.Errorf("creating record: period key is required")
	}
	if _, err := model.ParseKind(string(rec.Kind)); err != nil {
		return fmt.Errorf("creating record: %w", err)
	}
	return nil
}
