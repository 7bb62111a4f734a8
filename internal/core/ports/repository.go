package ports

import (
	"context"

	"github.com/srgjo27/airline_desk/internal/core/domain"
)

// DocumentStore loads and saves whole named JSON documents.
type DocumentStore interface {
	Load(ctx context.Context, name string, v any) error
	Save(ctx context.Context, name string, v any) error
}

// TicketRepository owns ticket records and the username -> ticket ids index.
// Create and Delete keep both in step.
type TicketRepository interface {
	Get(ctx context.Context, ticketID string) (*domain.Ticket, error)
	Exists(ctx context.Context, ticketID string) (bool, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, ticketID string) error
	ListByUser(ctx context.Context, username string) ([]domain.Ticket, error)
	OwnerOf(ctx context.Context, ticketID string) (string, bool, error)
	IDs(ctx context.Context) ([]string, error)
}
