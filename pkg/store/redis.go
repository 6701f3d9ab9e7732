package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
)

// RedisOptions configures a [RedisStore].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "nodeweave:"
	TTL      time.Duration // Expiration for documents, default 0 (no expiration)
}

// RedisStore keeps documents in Redis. Each document is a JSON string; an
// index hash maps names to their entry metadata.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis document store.
func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisStoreWithClient(client, opts)
}

// NewRedisStoreWithClient uses an existing client.
func NewRedisStoreWithClient(client redis.UniversalClient, opts RedisOptions) *RedisStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "nodeweave:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: opts.TTL}
}

func (s *RedisStore) docKey(name string) string {
	return fmt.Sprintf("%sdoc:%s", s.prefix, name)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "docs"
}

func (s *RedisStore) Put(ctx context.Context, name string, doc *graphio.Document) error {
	if err := checkPut(name, doc); err != nil {
		return err
	}
	data, err := graphio.Marshal(doc)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(entryFor(name, doc, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.docKey(name), data, s.ttl)
	pipe.HSet(ctx, s.indexKey(), name, meta)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save document to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, name string) (*graphio.Document, error) {
	if err := errs.ValidateKey(name); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.docKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("load document from redis: %w", err)
	}
	return graphio.Parse(data)
}

// List returns the indexed entries whose documents have not expired.
// Index entries of expired documents are pruned.
func (s *RedisStore) List(ctx context.Context) ([]Entry, error) {
	index, err := s.client.HGetAll(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	out := make([]Entry, 0, len(index))
	var stale []string
	for name, raw := range index {
		n, err := s.client.Exists(ctx, s.docKey(name)).Result()
		if err != nil {
			return nil, fmt.Errorf("check document %s: %w", name, err)
		}
		if n == 0 {
			stale = append(stale, name)
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	if len(stale) > 0 {
		s.client.HDel(ctx, s.indexKey(), stale...)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateKey(name); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.docKey(name))
	pipe.HDel(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete document from redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
