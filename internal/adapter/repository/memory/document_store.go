package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/srgjo27/airline_desk/internal/core/domain"
)

// DocumentStore keeps encoded documents in a map. Values are stored as JSON
// so callers never share memory with the store.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]byte)}
}

func (s *DocumentStore) Load(ctx context.Context, name string, v any) error {
	s.mu.RLock()
	data, ok := s.docs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
	}

	return json.Unmarshal(data, v)
}

func (s *DocumentStore) Save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", name, err)
	}

	s.mu.Lock()
	s.docs[name] = data
	s.mu.Unlock()

	return nil
}
