// Package redis implements core.KeyValue on a Redis server.
//
// Every key lives under a namespace (default "voxnote:") so the store can
// share a database with other applications. Keys enumerates with SCAN.
package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/aretw0/voxnote/pkg/core"
)

const (
	// DefaultNamespace prefixes every key written by the store.
	DefaultNamespace = "voxnote:"
	// scanCount is the COUNT hint given to SCAN.
	scanCount = 100
)

// Config holds the connection settings for NewStore.
type Config struct {
	Addr      string
	Username  string
	Password  string
	DB        int
	Namespace string
	Logger    *slog.Logger
}

// Store implements core.KeyValue using Redis strings.
type Store struct {
	client    redis.Cmdable
	namespace string
	addr      string
	logger    *slog.Logger
}

// NewStore dials nothing; the connection is established lazily and checked
// by Initialize.
func NewStore(cfg Config) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	s := NewWithClient(client, cfg.Namespace, cfg.Logger)
	s.addr = cfg.Addr
	return s
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.Cmdable, namespace string, logger *slog.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{client: client, namespace: namespace, logger: logger}
}

// Initialize pings the server.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	s.logger.Debug("redis store ready", "addr", s.addr, "namespace", s.namespace)
	return nil
}

// Get reads the string stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.namespace+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

// Set stores value under key without expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.namespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. DEL on a missing key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.namespace+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Keys walks the namespace with SCAN. SCAN may repeat keys, so results are
// de-duplicated while keeping the first occurrence.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		seen   = make(map[string]bool)
		cursor uint64
		match  = escapeGlob(s.namespace) + "*"
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		for _, k := range batch {
			key := strings.TrimPrefix(k, s.namespace)
			if seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Close releases the underlying client when it owns one.
func (s *Store) Close() error {
	if c, ok := s.client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// StoreState exposes the store configuration for observability.
type StoreState struct {
	Addr      string `json:"addr,omitempty"`
	Namespace string `json:"namespace"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{Addr: s.addr, Namespace: s.namespace}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "redis"
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ core.KeyValue = (*Store)(nil)
