package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nhle/tracker/internal/model"
)

const patchAttempts = 3

var _ Store = (*RedisStore)(nil)

// RedisStore implements Store on Redis. Each record is one JSON document
// keyed by (kind, owner, period key); a sorted set per (kind, owner) indexes
// the period keys and a hash maps record ids back to document keys.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects with opts and verifies the connection. All keys
// are namespaced under prefix.
func NewRedisStore(ctx context.Context, opts *redis.Options, prefix string) (*RedisStore, error) {
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", opts.Addr, err)
	}

	if prefix == "" {
		prefix = "tracker"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) docKey(kind model.Kind, owner, periodKey string) string {
	return fmt.Sprintf("%s:%s:%s:%s", s.prefix, kind, owner, periodKey)
}

func (s *RedisStore) indexKey(kind model.Kind, owner string) string {
	return fmt.Sprintf("%s:%s:%s:index", s.prefix, kind, owner)
}

func (s *RedisStore) idsKey() string {
	return s.prefix + ":ids"
}

// FindByKey returns the record for (kind, owner, periodKey).
func (s *RedisStore) FindByKey(
	ctx context.Context,
	kind model.Kind,
	owner, periodKey string,
) (*model.Record, error) {
	data, err := s.rdb.Get(ctx, s.docKey(kind, owner, periodKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s record %s/%s: %w", kind, owner, periodKey, err)
	}

	var rec model.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding %s record %s/%s: %w", kind, owner, periodKey, err)
	}
	return &rec, nil
}

// ListByOwner returns the owner's records, newest period first.
func (s *RedisStore) ListByOwner(
	ctx context.Context,
	kind model.Kind,
	owner string,
	limit int,
) ([]model.Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	periodKeys, err := s.rdb.ZRevRange(ctx, s.indexKey(kind, owner), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("listing %s records for %s: %w", kind, owner, err)
	}
	if len(periodKeys) == 0 {
		return []model.Record{}, nil
	}

	keys := make([]string, len(periodKeys))
	for i, pk := range periodKeys {
		keys[i] = s.docKey(kind, owner, pk)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading %s records for %s: %w", kind, owner, err)
	}

	records := make([]model.Record, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // index entry without a document
		}
		var rec model.Record
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", keys[i], err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// createScript inserts a document together with its index entries, or
// nothing at all. KEYS: document, period index, id hash. ARGV: document,
// score, period key, id. The document is written last so a failed index
// write never leaves an unindexed record behind.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
local res = redis.pcall('ZADD', KEYS[2], ARGV[2], ARGV[3])
if type(res) == 'table' and res.err then
  return res
end
res = redis.pcall('HSET', KEYS[3], ARGV[4], KEYS[1])
if type(res) == 'table' and res.err then
  redis.call('ZREM', KEYS[2], ARGV[3])
  return res
end
redis.call('SET', KEYS[1], ARGV[1])
return 1
`)

// Create inserts a new record. The uniqueness check, the index writes and
// the insert run as one script, so they succeed or fail together.
func (s *RedisStore) Create(ctx context.Context, rec model.Record) (string, error) {
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
	if rec.Items == nil {
		rec.Items = []model.Item{}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}

	key := s.docKey(rec.Kind, rec.Owner, rec.PeriodKey)
	created, err := createScript.Run(ctx, s.rdb,
		[]string{key, s.indexKey(rec.Kind, rec.Owner), s.idsKey()},
		data, dayOrdinal(rec.PeriodKey), rec.PeriodKey, rec.ID,
	).Int()
	if err != nil {
		return "", fmt.Errorf("creating %s record %s/%s: %w", rec.Kind, rec.Owner, rec.PeriodKey, err)
	}
	if created == 0 {
		return "", ErrDuplicate
	}

	return rec.ID, nil
}

// Patch updates the non-nil fields of p on record id using an optimistic
// WATCH transaction on the document key.
func (s *RedisStore) Patch(ctx context.Context, id string, p model.Patch) (string, error) {
	key, err := s.rdb.HGet(ctx, s.idsKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolving record %s: %w", id, err)
	}

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			return err
		}

		var rec model.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decoding record %s: %w", id, err)
		}
		p.Apply(&rec)

		updated, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for range patchAttempts {
		err = s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("patching record %s: %w", id, err)
		}
		return id, nil
	}

	return "", fmt.Errorf("patching record %s: %w", id, err)
}

// dayOrdinal scores a period key by days since the Unix epoch.
func dayOrdinal(periodKey string) float64 {
	t, err := time.Parse("2006-01-02", periodKey)
	if err != nil {
		return 0
	}
	return float64(t.Unix() / 86400)
}
