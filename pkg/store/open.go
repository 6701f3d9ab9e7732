package store

import (
	"context"

	"github.com/matzehuels/nodeweave/pkg/config"
	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// Open returns the backend selected by cfg, instrumented with the store
// hooks.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Backend {
	case "", "file":
		st, err = NewFileStore(cfg.Dir)
	case "redis":
		st = NewRedisStore(RedisOptions{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.Prefix,
			TTL:      cfg.TTL,
		})
	case "sqlite":
		st, err = NewSQLiteStore(ctx, SQLiteOptions{Path: cfg.Path})
	case "mongo":
		st, err = NewMongoStore(ctx, MongoOptions{
			URI:        cfg.URI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = "file"
	}
	return Instrument(st, backend), nil
}
