package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srgjo27/airline_desk/internal/core/domain"
	"github.com/srgjo27/airline_desk/internal/core/ports"
)

type BookRequest struct {
	AircraftID    string `json:"aircraft_id"`
	DepartureTime string `json:"departure_time"`
	Seat          string `json:"seat"`
	Username      string `json:"username"`
}

type RefundResult struct {
	TicketID string `json:"ticket_id"`
	Username string `json:"username"`
	Price    int    `json:"price"`
}

func (r RefundResult) Confirmation() string {
	return fmt.Sprintf("Ticket %s refunded: %d$ returned to %s", r.TicketID, r.Price, r.Username)
}

type BookingService struct {
	inventory ports.Inventory
	directory ports.FlightDirectory
	tickets   ports.TicketRepository
	ids       *TicketIDGenerator
	log       logrus.FieldLogger
	now       func() time.Time

	mu sync.Mutex
}

func NewBookingService(inventory ports.Inventory, directory ports.FlightDirectory, tickets ports.TicketRepository, ids *TicketIDGenerator, log logrus.FieldLogger) *BookingService {
	if ids == nil {
		ids = NewTicketIDGenerator(nil, DefaultTicketIDAttempts)
	}
	return &BookingService{
		inventory: inventory,
		directory: directory,
		tickets:   tickets,
		ids:       ids,
		log:       log,
		now:       time.Now,
	}
}

func (s *BookingService) Book(ctx context.Context, req BookRequest) (string, error) {
	req.AircraftID = strings.TrimSpace(req.AircraftID)
	req.Seat = strings.TrimSpace(req.Seat)
	req.Username = strings.TrimSpace(req.Username)
	req.DepartureTime = strings.TrimSpace(req.DepartureTime)

	if req.AircraftID == "" || req.Seat == "" || req.Username == "" {
		return "", fmt.Errorf("%w: aircraft, seat and username are required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price, err := s.inventory.SeatPrice(ctx, req.AircraftID, req.Seat)
	if err != nil {
		return "", err
	}
	if price == 0 {
		return "", fmt.Errorf("%w: %s on %s", domain.ErrSeatUnavailable, req.Seat, req.AircraftID)
	}

	trip, found, err := s.directory.Locate(ctx, req.AircraftID, req.DepartureTime)
	if err != nil {
		return "", err
	}
	if !found {
		s.log.WithFields(logrus.Fields{
			"aircraft_id": req.AircraftID,
			"departure":   req.DepartureTime,
		}).Warn("no scheduled flight matches booking, trip details left empty")
	}

	zone, err := s.inventory.ZoneContaining(ctx, req.AircraftID, req.Seat)
	if err != nil {
		return "", err
	}

	if err := s.inventory.DebitSeat(ctx, req.AircraftID, req.Seat); err != nil {
		return "", err
	}

	ticket := &domain.Ticket{
		Trip:          trip,
		DepartureTime: req.DepartureTime,
		AircraftID:    req.AircraftID,
		Seat:          req.Seat,
		Zone:          zone,
		Price:         price,
		Owner:         req.Username,
		BookedAt:      s.now(),
	}

	// Another writer sharing the ticket table may claim the id between the
	// existence check and the insert; draw once more before giving up.
	for attempt := 1; ; attempt++ {
		ticket.ID, err = s.ids.Next(ctx, s.tickets)
		if err != nil {
			s.releaseSeat(ctx, req.AircraftID, zone, req.Seat)
			return "", fmt.Errorf("failed to issue ticket id: %w", err)
		}

		err = s.tickets.Create(ctx, ticket)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrTicketExists) || attempt == 2 {
			s.releaseSeat(ctx, req.AircraftID, zone, req.Seat)
			return "", fmt.Errorf("failed to store ticket: %w", err)
		}
		s.log.WithField("ticket_id", ticket.ID).Warn("ticket id taken concurrently, drawing another")
	}
	ticketID := ticket.ID

	s.log.WithFields(logrus.Fields{
		"ticket_id":   ticketID,
		"aircraft_id": req.AircraftID,
		"seat":        req.Seat,
		"zone":        zone,
		"username":    req.Username,
	}).Info("ticket booked")

	return ticketID, nil
}

// releaseSeat undoes a debit whose booking could not be completed.
func (s *BookingService) releaseSeat(ctx context.Context, aircraftID string, zone domain.ZoneName, seatID string) {
	if err := s.inventory.CreditSeat(ctx, aircraftID, zone, seatID); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"aircraft_id": aircraftID,
			"seat":        seatID,
		}).Error("failed to release seat after aborted booking")
	}
}

// Ticket returns the record and the username whose index holds it. The
// owner is empty when no user lists the ticket.
func (s *BookingService) Ticket(ctx context.Context, ticketID string) (*domain.Ticket, string, error) {
	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}

	owner, ok, err := s.tickets.OwnerOf(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		s.log.WithField("ticket_id", ticketID).Warn("ticket is not listed under any user")
	}

	return t, owner, nil
}

func (s *BookingService) Describe(ctx context.Context, ticketID string, includeUsername bool) (string, error) {
	if !includeUsername {
		t, err := s.tickets.Get(ctx, ticketID)
		if err != nil {
			return "", err
		}
		return FormatTicket(*t), nil
	}

	t, owner, err := s.Ticket(ctx, ticketID)
	if err != nil {
		return "", err
	}

	if owner == "" {
		return FormatTicket(*t), nil
	}
	return fmt.Sprintf("Ticket bought by %s\n%s", owner, FormatTicket(*t)), nil
}

func (s *BookingService) UserTickets(ctx context.Context, username string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return tickets, nil
}

func (s *BookingService) ListForUser(ctx context.Context, username string) (string, error) {
	tickets, err := s.UserTickets(ctx, username)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(tickets))
	for _, t := range tickets {
		parts = append(parts, FormatTicket(t))
	}

	return strings.Join(parts, "\n\n"), nil
}

func (s *BookingService) Refund(ctx context.Context, ticketID string) (*RefundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if t.Zone == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrZoneUnknown, ticketID)
	}

	owner, ok, err := s.tickets.OwnerOf(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ok {
		owner = t.Owner
	}

	if err := s.inventory.CreditSeat(ctx, t.AircraftID, t.Zone, t.Seat); err != nil {
		return nil, err
	}

	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if debitErr := s.inventory.DebitSeat(ctx, t.AircraftID, t.Seat); debitErr != nil {
			s.log.WithError(errors.Join(err, debitErr)).WithField("ticket_id", ticketID).Error("refund left seat credited")
		}
		return nil, fmt.Errorf("failed to delete ticket: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"ticket_id":   ticketID,
		"aircraft_id": t.AircraftID,
		"seat":        t.Seat,
		"username":    owner,
	}).Info("ticket refunded")

	return &RefundResult{TicketID: ticketID, Username: owner, Price: t.Price}, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatTicket renders the route, date and seat lines of a ticket.
func FormatTicket(t domain.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticket %s: %s -> %s\n", t.ID, orDash(t.Trip.From), orDash(t.Trip.To))
	fmt.Fprintf(&b, "Date: %s, %s\n", orDash(t.Trip.Weekday), orDash(t.DepartureTime))
	fmt.Fprintf(&b, "Flight %s, seat %s (%s), Price - %d$", t.AircraftID, t.Seat, t.Zone, t.Price)
	return b.String()
}
