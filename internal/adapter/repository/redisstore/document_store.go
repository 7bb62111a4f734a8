package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/airline_desk/internal/core/domain"
)

// DocumentStore keeps each document under one key, <prefix>:<name>.
type DocumentStore struct {
	client *redis.Client
	prefix string
}

func NewDocumentStore(client *redis.Client, prefix string) *DocumentStore {
	if prefix == "" {
		prefix = "doc"
	}
	return &DocumentStore{client: client, prefix: prefix}
}

func (s *DocumentStore) key(name string) string {
	return fmt.Sprintf("%s:%s", s.prefix, name)
}

func (s *DocumentStore) Load(ctx context.Context, name string, v any) error {
	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return fmt.Errorf("failed to read document %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", name, err)
	}

	return nil
}

func (s *DocumentStore) Save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", name, err)
	}

	if err := s.client.Set(ctx, s.key(name), string(data), 0).Err(); err != nil {
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}

	return nil
}
