package services_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/airline_desk/internal/adapter/repository/memory"
	"github.com/srgjo27/airline_desk/internal/core/domain"
	"github.com/srgjo27/airline_desk/internal/core/ports"
	"github.com/srgjo27/airline_desk/internal/core/ports/mocks"
	"github.com/srgjo27/airline_desk/internal/core/services"
)

type desk struct {
	inventory *services.InventoryService
	booking   *services.BookingService
	tickets   ports.TicketRepository
	store     *memory.DocumentStore
}

func newDesk(t *testing.T, log logrus.FieldLogger, tickets ports.TicketRepository) desk {
	t.Helper()

	store := seededStore(t)
	if tickets == nil {
		tickets = memory.NewTicketRepository()
	}
	inv := services.NewInventoryService(store, log)
	dir := services.NewFlightDirectory(store, "flights", log)
	ids := services.NewTicketIDGenerator(rand.New(rand.NewPCG(1, 2)), 8)

	return desk{
		inventory: inv,
		booking:   services.NewBookingService(inv, dir, tickets, ids, log),
		tickets:   tickets,
		store:     store,
	}
}

func book(aircraft, departure, seat, user string) services.BookRequest {
	return services.BookRequest{AircraftID: aircraft, DepartureTime: departure, Seat: seat, Username: user}
}

func TestBook_Success(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	id, err := d.booking.Book(ctx, book("A1", "08:00", "1A", "alice"))
	require.NoError(t, err)

	assert.Len(t, id, 5)
	n, err := strconv.Atoi(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, domain.MinTicketID)
	assert.LessOrEqual(t, n, domain.MaxTicketID)

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2A"}, a.Front.FreeSeats)
	assert.Equal(t, 4, a.FreeSeats)
	assert.True(t, a.Consistent())

	ticket, owner, err := d.booking.Ticket(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
	assert.Equal(t, domain.Trip{From: "Kyiv", To: "Warsaw", Weekday: "Monday"}, ticket.Trip)
	assert.Equal(t, domain.ZoneFront, ticket.Zone)
	assert.Equal(t, 100, ticket.Price)
}

func TestBookDescribeRefund_Scenario(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	id, err := d.booking.Book(ctx, book("A1", "08:00", "1A", "alice"))
	require.NoError(t, err)

	text, err := d.booking.Describe(ctx, id, true)
	require.NoError(t, err)
	assert.Contains(t, text, "bought by alice")
	assert.Contains(t, text, "Price - 100$")
	assert.Contains(t, text, "Kyiv -> Warsaw")
	assert.Contains(t, text, "Date: Monday, 08:00")

	res, err := d.booking.Refund(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Price)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "Ticket "+id+" refunded: 100$ returned to alice", res.Confirmation())

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "2A"}, a.Front.FreeSeats)
	assert.Equal(t, 5, a.FreeSeats)

	_, err = d.booking.Describe(ctx, id, true)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)

	_, err = d.booking.ListForUser(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDescribe_WithoutUsername(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	id, err := d.booking.Book(ctx, book("B7", "12:15", "8B", "carol"))
	require.NoError(t, err)

	text, err := d.booking.Describe(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, "Ticket "+id+": Warsaw -> Milan\nDate: Friday, 12:15\nFlight B7, seat 8B (center), Price - 200$", text)
	assert.NotContains(t, text, "bought by")
}

func TestBook_SeatUnavailableTwice(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	_, err := d.booking.Book(ctx, book("A1", "08:00", "2A", "alice"))
	require.NoError(t, err)

	before, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = d.booking.Book(ctx, book("A1", "08:00", "2A", "bob"))
		assert.ErrorIs(t, err, domain.ErrSeatUnavailable)

		after, err := d.inventory.Snapshot(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}

	_, err = d.booking.ListForUser(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestBook_InvalidSeatLeavesCountsUnchanged(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	_, err := d.booking.Book(ctx, book("A1", "08:00", "42Q", "alice"))
	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, 5, a.FreeSeats)
	assert.Equal(t, fleet()["A1"], a)
}

func TestBook_InvalidInput(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)

	_, err := d.booking.Book(context.Background(), book("A1", "08:00", "1A", "  "))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBook_UnknownAircraft(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)

	_, err := d.booking.Book(context.Background(), book("Q9", "08:00", "1A", "alice"))
	assert.ErrorIs(t, err, domain.ErrAircraftNotFound)
}

func TestBook_UniqueTicketIDs(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	seen := map[string]bool{}
	for _, seat := range []string{"1A", "2A", "5C", "10C", "20F"} {
		id, err := d.booking.Book(ctx, book("A1", "08:00", seat, "alice"))
		require.NoError(t, err)
		assert.False(t, seen[id], "ticket id %s issued twice", id)
		seen[id] = true
	}

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Zero(t, a.FreeSeats)
	assert.True(t, a.Consistent())
}

func TestListForUser_BookingOrder(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	var ids []string
	for _, seat := range []string{"20F", "1A", "10C"} {
		id, err := d.booking.Book(ctx, book("A1", "17:30", seat, "bob"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	text, err := d.booking.ListForUser(ctx, "bob")
	require.NoError(t, err)

	entries := strings.Split(text, "\n\n")
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.True(t, strings.HasPrefix(entry, "Ticket "+ids[i]+":"), entry)
		assert.Contains(t, entry, "Date: Thursday, 17:30")
	}
	assert.False(t, strings.HasSuffix(text, "\n"))
}

func TestListForUser_UnknownUser(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)

	_, err := d.booking.ListForUser(context.Background(), "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRefund_KeepsOtherTicketsOfUser(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	first, err := d.booking.Book(ctx, book("A1", "08:00", "1A", "alice"))
	require.NoError(t, err)
	second, err := d.booking.Book(ctx, book("A1", "08:00", "5C", "alice"))
	require.NoError(t, err)

	_, err = d.booking.Refund(ctx, first)
	require.NoError(t, err)

	tickets, err := d.booking.UserTickets(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, second, tickets[0].ID)

	_, err = d.booking.Refund(ctx, first)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestBook_UnscheduledDepartureLeavesTripEmpty(t *testing.T) {
	log, hook := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	id, err := d.booking.Book(ctx, book("A1", "23:59", "2A", "alice"))
	require.NoError(t, err)

	ticket, _, err := d.booking.Ticket(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Trip{}, ticket.Trip)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "no scheduled flight") {
			warned = true
		}
	}
	assert.True(t, warned)

	text, err := d.booking.Describe(ctx, id, false)
	require.NoError(t, err)
	assert.Contains(t, text, "- -> -")
}

func TestBook_ReleasesSeatWhenTicketCannotBeStored(t *testing.T) {
	log, _ := quietLogger()
	repo := mocks.NewTicketRepository(t)
	d := newDesk(t, log, repo)
	ctx := context.Background()

	repo.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).Return(errors.New("disk full"))

	_, err := d.booking.Book(ctx, book("A1", "08:00", "1A", "alice"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store ticket")

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "2A"}, a.Front.FreeSeats)
	assert.Equal(t, 5, a.FreeSeats)
}

func TestRefund_TicketWithoutZoneMutatesNothing(t *testing.T) {
	log, _ := quietLogger()
	d := newDesk(t, log, nil)
	ctx := context.Background()

	legacy := &domain.Ticket{ID: "12345", AircraftID: "A1", Seat: "3A", Price: 100, Owner: "dave"}
	require.NoError(t, d.tickets.Create(ctx, legacy))

	_, err := d.booking.Refund(ctx, "12345")
	assert.ErrorIs(t, err, domain.ErrZoneUnknown)

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, 5, a.FreeSeats)

	_, _, err = d.booking.Ticket(ctx, "12345")
	assert.NoError(t, err)
}

func TestDescribe_OwnerMissingOmitsPrefix(t *testing.T) {
	log, hook := quietLogger()
	repo := mocks.NewTicketRepository(t)
	d := newDesk(t, log, repo)
	ctx := context.Background()

	ticket := &domain.Ticket{ID: "55555", AircraftID: "A1", Seat: "9A", Zone: domain.ZoneFront, Price: 100}
	repo.On("Get", ctx, "55555").Return(ticket, nil)
	repo.On("OwnerOf", ctx, "55555").Return("", false, nil)

	text, err := d.booking.Describe(ctx, "55555", true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Ticket 55555:"))
	assert.NotContains(t, text, "bought by")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestBook_DirectoryFailureLeavesSeatFree(t *testing.T) {
	log, _ := quietLogger()
	store := seededStore(t)
	ctx := context.Background()

	dir := mocks.NewFlightDirectory(t)
	dir.On("Locate", ctx, "B7", "12:15").Return(domain.Trip{}, false, errors.New("schedule unreadable"))

	inv := services.NewInventoryService(store, log)
	booking := services.NewBookingService(inv, dir, memory.NewTicketRepository(), nil, log)

	_, err := booking.Book(ctx, book("B7", "12:15", "8B", "erin"))
	assert.EqualError(t, err, "schedule unreadable")

	a, err := inv.Snapshot(ctx, "B7")
	require.NoError(t, err)
	assert.Equal(t, []string{"8B"}, a.Center.FreeSeats)
	assert.Equal(t, 3, a.FreeSeats)
}

func TestBook_UsesTripFromDirectory(t *testing.T) {
	log, _ := quietLogger()
	store := seededStore(t)
	ctx := context.Background()

	dir := mocks.NewFlightDirectory(t)
	trip := domain.Trip{From: "Warsaw", To: "Milan", Weekday: "Friday"}
	dir.On("Locate", ctx, "B7", "12:15").Return(trip, true, nil)

	inv := services.NewInventoryService(store, log)
	booking := services.NewBookingService(inv, dir, memory.NewTicketRepository(), nil, log)

	id, err := booking.Book(ctx, book("B7", "12:15", "30C", "erin"))
	require.NoError(t, err)

	ticket, owner, err := booking.Ticket(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "erin", owner)
	assert.Equal(t, trip, ticket.Trip)
	assert.Equal(t, domain.ZoneBack, ticket.Zone)
	assert.Equal(t, 90, ticket.Price)
}

func TestRefund_DeleteFailureTakesSeatBack(t *testing.T) {
	log, _ := quietLogger()
	repo := mocks.NewTicketRepository(t)
	d := newDesk(t, log, repo)
	ctx := context.Background()

	require.NoError(t, d.inventory.DebitSeat(ctx, "A1", "1A"))

	ticket := &domain.Ticket{ID: "40404", AircraftID: "A1", Seat: "1A", Zone: domain.ZoneFront, Price: 100, Owner: "alice"}
	repo.On("Get", ctx, "40404").Return(ticket, nil)
	repo.On("OwnerOf", ctx, "40404").Return("alice", true, nil)
	repo.On("Delete", ctx, "40404").Return(errors.New("db down"))

	_, err := d.booking.Refund(ctx, "40404")
	assert.EqualError(t, err, "failed to delete ticket: db down")

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2A"}, a.Front.FreeSeats)
	assert.Equal(t, 4, a.FreeSeats)
}

func TestBook_RedrawsIDTakenBetweenCheckAndInsert(t *testing.T) {
	log, _ := quietLogger()
	repo := mocks.NewTicketRepository(t)
	d := newDesk(t, log, repo)
	ctx := context.Background()

	repo.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).Return(domain.ErrTicketExists).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).Return(nil).Once()

	id, err := d.booking.Book(ctx, book("A1", "08:00", "1A", "alice"))
	require.NoError(t, err)
	assert.Len(t, id, 5)

	repo.AssertNumberOfCalls(t, "Create", 2)

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2A"}, a.Front.FreeSeats)
}

func TestBook_GivesUpAfterSecondIDClash(t *testing.T) {
	log, _ := quietLogger()
	repo := mocks.NewTicketRepository(t)
	d := newDesk(t, log, repo)
	ctx := context.Background()

	repo.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).Return(domain.ErrTicketExists).Twice()

	_, err := d.booking.Book(ctx, book("A1", "08:00", "1A", "alice"))
	assert.ErrorIs(t, err, domain.ErrTicketExists)

	a, err := d.inventory.Snapshot(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "2A"}, a.Front.FreeSeats)
	assert.Equal(t, 5, a.FreeSeats)
}
