package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/srgjo27/airline_desk/internal/core/domain"
)

// DocumentStore keeps each named document as one JSONB row.
type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Load(ctx context.Context, name string, v any) error {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = $1`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", name, err)
	}

	return nil
}

func (s *DocumentStore) Save(ctx context.Context, name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", name, err)
	}

	query := `
	INSERT INTO documents (name, body, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (name) DO UPDATE
	SET body = EXCLUDED.body,
		updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, name, body); err != nil {
		return fmt.Errorf("failed to save document %s: %w", name, err)
	}

	return nil
}
