// Package lifecycle implements the draft/completed state machine shared by
// daily lists and weekly goals. A Tracker is configured with a Policy that
// supplies the period arithmetic and the carry-over rule; owner and period
// key are explicit on every call.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/period"
	"github.com/nhle/tracker/internal/store"
)

// Tracker runs the lifecycle of one record kind.
type Tracker struct {
	store  store.Store
	policy Policy
	log    zerolog.Logger
	clock  func() time.Time
}

// New returns a Tracker over s. clock stamps LastUpdated; nil means
// time.Now.
func New(s store.Store, p Policy, log zerolog.Logger, clock func() time.Time) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{
		store:  s,
		policy: p,
		log:    log.With().Str("component", "lifecycle").Str("kind", string(p.Kind)).Logger(),
		clock:  clock,
	}
}

// Policy returns the tracker's policy.
func (t *Tracker) Policy() Policy {
	return t.policy
}

// Key returns the period key containing now.
func (t *Tracker) Key(now time.Time) string {
	return period.CurrentKey(t.policy.Granularity, now)
}

// normalizeKey validates key and, for weekly records, moves it to the
// Monday of its week.
func (t *Tracker) normalizeKey(key string) (string, error) {
	d, err := period.ParseKey(key)
	if err != nil {
		return "", err
	}
	if t.policy.Granularity == period.Weekly {
		return period.WeekOf(d).Format(period.KeyLayout), nil
	}
	return key, nil
}

// Initialize provisions the record for (owner, key) if it does not exist,
// seeding it from the previous period through the carry-over rule. It
// returns the id of the existing or new record.
//
// When another writer creates the same record between the lookup and the
// insert, the store rejects the second insert and the winner's id is
// returned.
func (t *Tracker) Initialize(ctx context.Context, owner, key string) (string, error) {
	key, err := t.normalizeKey(key)
	if err != nil {
		return "", fmt.Errorf("initializing %s record: %w", t.policy.Kind, err)
	}

	existing, err := t.find(ctx, owner, key)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	prevKey, err := period.Previous(key, t.policy.Granularity)
	if err != nil {
		return "", fmt.Errorf("initializing %s record: %w", t.policy.Kind, err)
	}
	prev, err := t.find(ctx, owner, prevKey)
	if err != nil {
		return "", err
	}

	items := model.NormalizeItems(t.policy.CarryOver(prev))
	rec, err := t.newRecord(owner, key, items, model.StatusDraft)
	if err != nil {
		return "", err
	}

	id, err := t.store.Create(ctx, rec)
	if errors.Is(err, store.ErrDuplicate) {
		winner, findErr := t.find(ctx, owner, key)
		if findErr != nil {
			return "", findErr
		}
		if winner == nil {
			return "", fmt.Errorf("initializing %s record %s/%s: %w", t.policy.Kind, owner, key, err)
		}
		t.log.Debug().Str("owner", owner).Str("period", key).Msg("lost initialize race")
		return winner.ID, nil
	}
	if err != nil {
		return "", fmt.Errorf("initializing %s record %s/%s: %w", t.policy.Kind, owner, key, err)
	}

	t.log.Debug().
		Str("owner", owner).
		Str("period", key).
		Int("carried", len(items)).
		Msg("initialized record")

	return id, nil
}

// Get returns the record for (owner, key), or nil when none exists.
func (t *Tracker) Get(ctx context.Context, owner, key string) (*model.Record, error) {
	key, err := t.normalizeKey(key)
	if err != nil {
		return nil, fmt.Errorf("getting %s record: %w", t.policy.Kind, err)
	}
	return t.find(ctx, owner, key)
}

// Current returns the record for the period containing now, or nil.
func (t *Tracker) Current(ctx context.Context, owner string, now time.Time) (*model.Record, error) {
	return t.find(ctx, owner, t.Key(now))
}

// List returns the owner's records, newest first, capped by the policy's
// history limit.
func (t *Tracker) List(ctx context.Context, owner string) ([]model.Record, error) {
	records, err := t.store.ListByOwner(ctx, t.policy.Kind, owner, t.policy.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("listing %s history: %w", t.policy.Kind, err)
	}
	return records, nil
}

// SetItems replaces both the items and the status of (owner, key). A
// missing record is created with the given items and no carry-over.
func (t *Tracker) SetItems(
	ctx context.Context,
	owner, key string,
	items []model.Item,
	status model.RecordStatus,
) (string, error) {
	key, err := t.normalizeKey(key)
	if err != nil {
		return "", fmt.Errorf("saving %s items: %w", t.policy.Kind, err)
	}
	items = model.NormalizeItems(items)

	existing, err := t.find(ctx, owner, key)
	if err != nil {
		return "", err
	}

	if existing == nil {
		rec, err := t.newRecord(owner, key, items, status)
		if err != nil {
			return "", err
		}
		id, err := t.store.Create(ctx, rec)
		if err == nil {
			t.log.Debug().Str("owner", owner).Str("period", key).Msg("created record on save")
			return id, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return "", fmt.Errorf("saving %s items %s/%s: %w", t.policy.Kind, owner, key, err)
		}
		if existing, err = t.find(ctx, owner, key); err != nil {
			return "", err
		}
		if existing == nil {
			return "", fmt.Errorf("saving %s items %s/%s: %w", t.policy.Kind, owner, key, store.ErrNotFound)
		}
	}

	return t.patch(ctx, existing, model.Patch{Items: &items, Status: &status}, "saved items")
}

// MarkCompleted closes the period. It returns "" when no record exists.
func (t *Tracker) MarkCompleted(ctx context.Context, owner, key string) (string, error) {
	return t.setStatus(ctx, owner, key, model.StatusCompleted)
}

// RevertToDraft reopens a completed period. It returns "" when no record
// exists.
func (t *Tracker) RevertToDraft(ctx context.Context, owner, key string) (string, error) {
	return t.setStatus(ctx, owner, key, model.StatusDraft)
}

// UpdateItems replaces only the items, typically to assign outcomes after
// completion. It returns "" when no record exists.
func (t *Tracker) UpdateItems(ctx context.Context, owner, key string, items []model.Item) (string, error) {
	key, err := t.normalizeKey(key)
	if err != nil {
		return "", fmt.Errorf("updating %s items: %w", t.policy.Kind, err)
	}

	existing, err := t.find(ctx, owner, key)
	if err != nil || existing == nil {
		return "", err
	}

	items = model.NormalizeItems(items)
	return t.patch(ctx, existing, model.Patch{Items: &items}, "updated items")
}

// DaysSinceLastUpdate returns the whole days elapsed since the owner last
// touched the current period, falling back to their most recent record. It
// returns 0 when the owner has no records.
func (t *Tracker) DaysSinceLastUpdate(ctx context.Context, owner string, now time.Time) (int, error) {
	rec, err := t.Current(ctx, owner, now)
	if err != nil {
		return 0, err
	}

	if rec == nil {
		latest, err := t.store.ListByOwner(ctx, t.policy.Kind, owner, 1)
		if err != nil {
			return 0, fmt.Errorf("reading latest %s record: %w", t.policy.Kind, err)
		}
		if len(latest) == 0 {
			return 0, nil
		}
		rec = &latest[0]
	}

	last := rec.CreatedAt
	if rec.LastUpdated != nil {
		last = *rec.LastUpdated
	}

	elapsed := now.Sub(last)
	if elapsed < 0 {
		return 0, nil
	}
	return int(elapsed / (24 * time.Hour)), nil
}

func (t *Tracker) setStatus(ctx context.Context, owner, key string, status model.RecordStatus) (string, error) {
	key, err := t.normalizeKey(key)
	if err != nil {
		return "", fmt.Errorf("setting %s status: %w", t.policy.Kind, err)
	}

	existing, err := t.find(ctx, owner, key)
	if err != nil || existing == nil {
		return "", err
	}

	return t.patch(ctx, existing, model.Patch{Status: &status}, "status "+string(status))
}

func (t *Tracker) patch(ctx context.Context, rec *model.Record, p model.Patch, what string) (string, error) {
	if t.policy.StampUpdates {
		now := t.clock()
		p.LastUpdated = &now
	}

	id, err := t.store.Patch(ctx, rec.ID, p)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		t.log.Error().Err(err).Str("owner", rec.Owner).Str("period", rec.PeriodKey).Msg("patch failed")
		return "", fmt.Errorf("patching %s record %s/%s: %w", t.policy.Kind, rec.Owner, rec.PeriodKey, err)
	}

	t.log.Debug().Str("owner", rec.Owner).Str("period", rec.PeriodKey).Msg(what)
	return id, nil
}

func (t *Tracker) find(ctx context.Context, owner, key string) (*model.Record, error) {
	rec, err := t.store.FindByKey(ctx, t.policy.Kind, owner, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s record %s/%s: %w", t.policy.Kind, owner, key, err)
	}
	return rec, nil
}

func (t *Tracker) newRecord(owner, key string, items []model.Item, status model.RecordStatus) (model.Record, error) {
	now := t.clock()
	rec := model.Record{
		Kind:      t.policy.Kind,
		Owner:     owner,
		PeriodKey: key,
		Status:    status,
		Items:     items,
		CreatedAt: now,
	}

	if t.policy.WithMeta {
		info, err := period.Metadata(key)
		if err != nil {
			return model.Record{}, fmt.Errorf("computing week metadata: %w", err)
		}
		rec.Week = &model.WeekMeta{
			WeekEnd:    info.WeekEnd,
			WeekNumber: info.WeekNumber,
			Year:       info.Year,
		}
	}
	if t.policy.StampUpdates {
		rec.LastUpdated = &now
	}

	return rec, nil
}
