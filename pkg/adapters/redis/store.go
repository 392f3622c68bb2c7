// Package redis implements the record store and the distributed locker on
// Redis, letting several bot replicas share one wave's survey state.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmelnikov/healthwave/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.RecordStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for stored records. Zero keeps them forever,
// matching the in-memory store's no-eviction behavior.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "healthwave:record:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(identity, date string) string {
	return s.prefix + date + ":" + identity
}

// Save persists the record as JSON.
func (s *Store) Save(ctx context.Context, identity, date string, rec *domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(identity, date), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the record for (identity, date).
func (s *Store) Load(ctx context.Context, identity, date string) (*domain.Record, error) {
	data, err := s.client.Get(ctx, s.key(identity, date)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load from redis: %w", err)
	}

	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}
