package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nhle/tracker/internal/credential"
	"github.com/nhle/tracker/internal/model"
)

// Open returns the backend selected by cfg.Store.Driver. Secrets missing
// from the config are read from the environment or the keyring.
func Open(ctx context.Context, cfg *model.AppConfig) (Store, error) {
	switch cfg.Store.Driver {
	case "", model.DriverSQLite:
		return NewSQLiteStore(cfg.StorePath())

	case model.DriverPostgres:
		dsn := cfg.Store.DSN
		if dsn == "" {
			var err error
			dsn, err = credential.Lookup(credential.EnvStoreDSN, credential.StoreDSNKey)
			if err != nil {
				return nil, fmt.Errorf("resolving postgres dsn: %w", err)
			}
		}
		return NewPostgresStore(ctx, dsn)

	case model.DriverRedis:
		// The password is optional; an unreadable keyring means none.
		password := cfg.Store.Redis.Password
		if password == "" {
			password, _ = credential.Lookup(credential.EnvRedisPass, credential.RedisPasswordKey)
		}
		return NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: password,
			DB:       cfg.Store.Redis.DB,
		}, "tracker")

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
