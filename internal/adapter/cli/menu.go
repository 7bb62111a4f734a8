package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/airline_desk/internal/core/domain"
	"github.com/srgjo27/airline_desk/internal/core/services"
)

// Menu is the operator's numbered command loop.
type Menu struct {
	booking   *services.BookingService
	inventory *services.InventoryService
	directory *services.FlightDirectory
	in        *bufio.Reader
	out       io.Writer
	log       logrus.FieldLogger
}

func NewMenu(booking *services.BookingService, inventory *services.InventoryService, directory *services.FlightDirectory, in io.Reader, out io.Writer, log logrus.FieldLogger) *Menu {
	return &Menu{
		booking:   booking,
		inventory: inventory,
		directory: directory,
		in:        bufio.NewReader(in),
		out:       out,
		log:       log.WithField("session", uuid.NewString()),
	}
}

// Run serves commands until the operator exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out, "\n=== Booking desk ===")
		fmt.Fprintln(m.out, "1) List flights between cities")
		fmt.Fprintln(m.out, "2) Show seats of an aircraft")
		fmt.Fprintln(m.out, "3) Book a seat")
		fmt.Fprintln(m.out, "4) Refund a ticket")
		fmt.Fprintln(m.out, "5) Show a ticket")
		fmt.Fprintln(m.out, "6) List tickets of a user")
		fmt.Fprintln(m.out, "0) Exit")
		fmt.Fprint(m.out, "> ")

		choice, err := m.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		switch choice {
		case "1":
			m.listFlights(ctx)
		case "2":
			m.showSeats(ctx)
		case "3":
			m.bookSeat(ctx)
		case "4":
			m.refund(ctx)
		case "5":
			m.describe(ctx)
		case "6":
			m.listUser(ctx)
		case "0":
			fmt.Fprintln(m.out, "Program stopped")
			return nil
		default:
			fmt.Fprintln(m.out, "Enter a valid command")
		}
	}
}

func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) ask(prompt string) (string, bool) {
	fmt.Fprint(m.out, prompt)
	v, err := m.readLine()
	if err != nil {
		return "", false
	}
	return v, true
}

func (m *Menu) fail(op string, err error) {
	m.log.WithError(err).WithField("op", op).Debug("command failed")
	fmt.Fprintln(m.out, "Error:", err)
}

func (m *Menu) listFlights(ctx context.Context) {
	if cities, err := m.directory.Cities(ctx); err == nil && len(cities) > 0 {
		fmt.Fprintln(m.out, "Available cities:", strings.Join(cities, ", "))
	}

	from, ok := m.ask("Departure city: ")
	if !ok {
		return
	}
	to, ok := m.ask("Destination city: ")
	if !ok {
		return
	}

	if from == to {
		fmt.Fprintln(m.out, "Departure and destination must differ")
		return
	}

	routes, err := m.directory.Routes(ctx, from, to)
	if err != nil {
		m.fail("list_flights", err)
		return
	}

	if len(routes) == 0 {
		fmt.Fprintf(m.out, "No flights between %s and %s\n", from, to)
		return
	}

	fmt.Fprintf(m.out, "Flights between %s and %s:\n", from, to)
	for _, line := range FormatDepartures(routes) {
		fmt.Fprintln(m.out, "-", line)
	}
}

func (m *Menu) showSeats(ctx context.Context) {
	id, ok := m.ask("Aircraft ID: ")
	if !ok {
		return
	}

	a, err := m.inventory.Snapshot(ctx, id)
	if err != nil {
		m.fail("show_seats", err)
		return
	}

	fmt.Fprint(m.out, FormatSeatMap(id, a))
}

func (m *Menu) bookSeat(ctx context.Context) {
	var req services.BookRequest
	var ok bool

	if req.AircraftID, ok = m.ask("Aircraft ID: "); !ok {
		return
	}
	if req.DepartureTime, ok = m.ask("Departure time: "); !ok {
		return
	}
	if req.Seat, ok = m.ask("Seat: "); !ok {
		return
	}
	if req.Username, ok = m.ask("Username: "); !ok {
		return
	}

	id, err := m.booking.Book(ctx, req)
	if err != nil {
		m.fail("book", err)
		return
	}

	fmt.Fprintf(m.out, "Ticket %s booked\n", id)
}

func (m *Menu) refund(ctx context.Context) {
	id, ok := m.ask("Ticket ID: ")
	if !ok {
		return
	}

	res, err := m.booking.Refund(ctx, id)
	if err != nil {
		m.fail("refund", err)
		return
	}

	fmt.Fprintln(m.out, res.Confirmation())
}

func (m *Menu) describe(ctx context.Context) {
	id, ok := m.ask("Ticket ID: ")
	if !ok {
		return
	}

	text, err := m.booking.Describe(ctx, id, true)
	if err != nil {
		m.fail("describe", err)
		return
	}

	fmt.Fprintln(m.out, text)
}

func (m *Menu) listUser(ctx context.Context) {
	username, ok := m.ask("Username: ")
	if !ok {
		return
	}

	text, err := m.booking.ListForUser(ctx, username)
	if err != nil {
		m.fail("list_user", err)
		return
	}

	fmt.Fprintln(m.out, text)
}

// FormatDepartures renders one line per flight, ordered by weekday name and
// flight id.
func FormatDepartures(routes domain.Departures) []string {
	var lines []string
	for weekday, flights := range routes {
		for flight, at := range flights {
			lines = append(lines, fmt.Sprintf("%s: flight %s at %s", weekday, flight, at))
		}
	}
	sort.Strings(lines)
	return lines
}

func FormatSeatMap(aircraftID string, a *domain.Aircraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Aircraft %s, free seats: %d\n", aircraftID, a.FreeSeats)
	for _, name := range domain.ZoneOrder {
		z := a.Zone(name)
		seats := "none"
		if len(z.FreeSeats) > 0 {
			seats = strings.Join(z.FreeSeats, " ")
		}
		fmt.Fprintf(&b, "  %-6s %d$: %s\n", name, z.Price, seats)
	}
	return b.String()
}
