package profile

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"iter"
	"strings"
	"time"

	"github.com/HartBrook/penman/internal/errors"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps each profile under its own key as the JSON document.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects and verifies the connection with a ping.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.StoreFailed("connect", err)
	}

	return NewRedisStore(client, opts.Prefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

// Save sets the profile key with no expiry.
func (s *RedisStore) Save(ctx context.Context, name, style string) error {
	if err := checkName(name); err != nil {
		return err
	}

	data, err := json.Marshal(document{Style: style})
	if err != nil {
		return errors.StoreFailed("save", err)
	}

	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return errors.StoreFailed("save", err)
	}
	return nil
}

// Get reads and decodes the profile key.
func (s *RedisStore) Get(ctx context.Context, name string) (string, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return "", errors.ProfileNotFound(name, nil)
	}
	if err != nil {
		return "", errors.StoreFailed("get", err)
	}
	return decodeDocument(name, data)
}

// List walks matching keys with SCAN. SCAN may repeat a key, so names are de-duplicated.
func (s *RedisStore) List(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		seen := make(map[string]struct{})
		it := s.client.Scan(ctx, 0, globEscape(s.prefix)+"*", 100).Iterator()
		for it.Next(ctx) {
			name := strings.TrimPrefix(it.Val(), s.prefix)
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			if !yield(name, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield("", errors.StoreFailed("list", err))
		}
	}
}

// globEscape quotes the characters SCAN MATCH treats as pattern syntax.
func globEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`).Replace(s)
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
