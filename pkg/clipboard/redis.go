package clipboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a [RedisBuffer].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // key prefix, default "nodeweave:clipboard:"
	TTL      time.Duration // expiration of entries, 0 keeps them forever
	Keep     int           // number of past entries kept, default 10
}

// RedisBuffer shares the clipboard between processes through Redis.
//
// Every Set stores the payload as a new entry keyed by a random UUID and
// pushes the entry ID onto a list, so older payloads stay available through
// [RedisBuffer.Entries] until they are trimmed or expire.
type RedisBuffer struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	keep   int
}

// NewRedisBuffer connects to Redis with opts.
func NewRedisBuffer(opts RedisOptions) *RedisBuffer {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisBufferWithClient(client, opts)
}

// NewRedisBufferWithClient uses an existing client. Connection fields of
// opts are ignored.
func NewRedisBufferWithClient(client redis.UniversalClient, opts RedisOptions) *RedisBuffer {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "nodeweave:clipboard:"
	}
	keep := opts.Keep
	if keep <= 0 {
		keep = 10
	}
	return &RedisBuffer{client: client, prefix: prefix, ttl: opts.TTL, keep: keep}
}

func (b *RedisBuffer) entryKey(id string) string { return b.prefix + "entry:" + id }
func (b *RedisBuffer) listKey() string           { return b.prefix + "entries" }

// Set stores data as the newest entry.
func (b *RedisBuffer) Set(ctx context.Context, data []byte) error {
	id := uuid.NewString()
	pipe := b.client.TxPipeline()
	pipe.Set(ctx, b.entryKey(id), data, b.ttl)
	pipe.LPush(ctx, b.listKey(), id)
	pipe.LTrim(ctx, b.listKey(), 0, int64(b.keep-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store clipboard entry: %w", err)
	}
	return nil
}

// Get returns the newest entry that has not expired.
func (b *RedisBuffer) Get(ctx context.Context) ([]byte, error) {
	ids, err := b.Entries(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		data, err := b.Entry(ctx, id)
		if errors.Is(err, ErrEmpty) {
			continue
		}
		return data, err
	}
	return nil, ErrEmpty
}

// Entry returns the payload stored under an entry ID.
func (b *RedisBuffer) Entry(ctx context.Context, id string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.entryKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("load clipboard entry %s: %w", id, err)
	}
	return data, nil
}

// Entries returns the IDs of kept entries, newest first.
func (b *RedisBuffer) Entries(ctx context.Context) ([]string, error) {
	ids, err := b.client.LRange(ctx, b.listKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list clipboard entries: %w", err)
	}
	return ids, nil
}

// Close closes the underlying client.
func (b *RedisBuffer) Close() error { return b.client.Close() }

var _ Buffer = (*RedisBuffer)(nil)
