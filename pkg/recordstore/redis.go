package recordstore

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harunnryd/callpanel/pkg/configutil"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "callpanel:record:"
	defaultTTL       = 24 * time.Hour
)

// RedisSettings configures the redis record store.
type RedisSettings struct {
	Addr      string        `mapstructure:"addr"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Namespace string        `mapstructure:"namespace"`
	TTL       time.Duration `mapstructure:"ttl"`
	TLS       bool          `mapstructure:"tls"`
}

// RedisSchema lists the accepted settings keys.
var RedisSchema = configutil.Schema{
	Required: []string{"addr"},
	Optional: []string{"username", "password", "db", "key_prefix", "namespace", "ttl", "tls"},
}

type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps each record as a JSON string under prefix+namespace+id.
type RedisStore struct {
	client redisClient
	prefix string
	ttl    time.Duration
	closer func() error
}

// NewRedisStore decodes settings and dials lazily; go-redis connects on first use.
func NewRedisStore(settings map[string]any) (*RedisStore, error) {
	if err := configutil.ValidateSettings(settings, RedisSchema); err != nil {
		return nil, configutil.Describe("record_store", err)
	}
	var cfg RedisSettings
	if err := configutil.DecodeSettings(settings, &cfg); err != nil {
		return nil, fmt.Errorf("record_store.settings: %w", err)
	}
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	s := newRedisStore(client, cfg)
	s.closer = client.Close
	return s, nil
}

func newRedisStore(client redisClient, cfg RedisSettings) *RedisStore {
	prefix := cfg.KeyPrefix
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultKeyPrefix
	}
	if ns := strings.TrimSpace(cfg.Namespace); ns != "" {
		prefix += ns + ":"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Upsert(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id is required")
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(rec.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Fetch(ctx context.Context, id string) (Record, bool, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("redis get: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return Record{}, false, fmt.Errorf("decode record: %w", err)
	}
	return rec, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

var _ Store = (*RedisStore)(nil)
