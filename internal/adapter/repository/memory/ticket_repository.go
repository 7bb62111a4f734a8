package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/srgjo27/airline_desk/internal/core/domain"
)

// TicketRepository holds ticket records and the user index for the lifetime
// of the process.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
	users   map[string][]string
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{
		tickets: make(map[string]domain.Ticket),
		users:   make(map[string][]string),
	}
}

func (r *TicketRepository) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}

	return &t, nil
}

func (r *TicketRepository) Exists(ctx context.Context, ticketID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tickets[ticketID]
	return ok, nil
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[ticket.ID]; ok {
		return domain.ErrTicketExists
	}

	r.tickets[ticket.ID] = *ticket
	r.users[ticket.Owner] = append(r.users[ticket.Owner], ticket.ID)

	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[ticketID]; !ok {
		return domain.ErrTicketNotFound
	}
	delete(r.tickets, ticketID)

	for username, ids := range r.users {
		idx := slices.Index(ids, ticketID)
		if idx < 0 {
			continue
		}

		ids = slices.Delete(ids, idx, idx+1)
		if len(ids) == 0 {
			delete(r.users, username)
		} else {
			r.users[username] = ids
		}
		break
	}

	return nil
}

func (r *TicketRepository) ListByUser(ctx context.Context, username string) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.users[username]
	if len(ids) == 0 {
		return nil, domain.ErrUserNotFound
	}

	out := make([]domain.Ticket, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.tickets[id]; ok {
			out = append(out, t)
		}
	}

	return out, nil
}

func (r *TicketRepository) OwnerOf(ctx context.Context, ticketID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for username, ids := range r.users {
		if slices.Contains(ids, ticketID) {
			return username, true, nil
		}
	}

	return "", false, nil
}

func (r *TicketRepository) IDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.tickets))
	for id := range r.tickets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}
