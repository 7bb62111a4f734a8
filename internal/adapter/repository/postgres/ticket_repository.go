package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/srgjo27/airline_desk/internal/core/domain"
)

const uniqueViolation = "23505"

// TicketRepository stores tickets in one table; the user index is the set of
// rows per username ordered by insertion sequence.
type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, departure_city, destination_city, weekday, departure_time, aircraft_id, seat, zone, price, username, booked_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var t domain.Ticket
	var zone string

	err := row.Scan(
		&t.ID,
		&t.Trip.From,
		&t.Trip.To,
		&t.Trip.Weekday,
		&t.DepartureTime,
		&t.AircraftID,
		&t.Seat,
		&zone,
		&t.Price,
		&t.Owner,
		&t.BookedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Zone = domain.ZoneName(zone)
	return &t, nil
}

func (r *TicketRepository) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	t, err := scanTicket(r.db.QueryRowContext(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}

	return t, nil
}

func (r *TicketRepository) Exists(ctx context.Context, ticketID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id = $1)`, ticketID).Scan(&exists)
	return exists, err
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	query := `
	INSERT INTO tickets (` + ticketColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Trip.From, t.Trip.To, t.Trip.Weekday, t.DepartureTime,
		t.AircraftID, t.Seat, string(t.Zone), t.Price, t.Owner, t.BookedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrTicketExists
		}
		return fmt.Errorf("failed to insert ticket %s: %w", t.ID, err)
	}

	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, ticketID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrTicketNotFound
	}

	return nil
}

func (r *TicketRepository) ListByUser(ctx context.Context, username string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE username = $1 ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(tickets) == 0 {
		return nil, domain.ErrUserNotFound
	}

	return tickets, nil
}

func (r *TicketRepository) OwnerOf(ctx context.Context, ticketID string) (string, bool, error) {
	var username string
	err := r.db.QueryRowContext(ctx, `SELECT username FROM tickets WHERE id = $1`, ticketID).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return username, username != "", nil
}

func (r *TicketRepository) IDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM tickets ORDER BY id`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
