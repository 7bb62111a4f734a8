package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/srgjo27/airline_desk/internal/core/domain"
	"github.com/srgjo27/airline_desk/internal/core/ports"
)

const DefaultFlightsDocument = "flights"

// FlightDirectory answers read-only questions about the schedule document.
type FlightDirectory struct {
	store    ports.DocumentStore
	document string
	log      logrus.FieldLogger
}

func NewFlightDirectory(store ports.DocumentStore, document string, log logrus.FieldLogger) *FlightDirectory {
	if document == "" {
		document = DefaultFlightsDocument
	}
	return &FlightDirectory{store: store, document: document, log: log}
}

func (d *FlightDirectory) schedule(ctx context.Context) (domain.Schedule, error) {
	var sched domain.Schedule
	if err := d.store.Load(ctx, d.document, &sched); err != nil {
		return nil, fmt.Errorf("failed to load flight schedule: %w", err)
	}
	return sched, nil
}

// Routes lists the departures from one city to another. A missing route
// yields an empty result, not an error.
func (d *FlightDirectory) Routes(ctx context.Context, from, to string) (domain.Departures, error) {
	sched, err := d.schedule(ctx)
	if err != nil {
		return nil, err
	}

	out := domain.Departures{}
	for weekday, flights := range sched[from][to] {
		out[weekday] = flights
	}

	return out, nil
}

func (d *FlightDirectory) Cities(ctx context.Context) ([]string, error) {
	sched, err := d.schedule(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for from, dests := range sched {
		seen[from] = struct{}{}
		for to := range dests {
			seen[to] = struct{}{}
		}
	}

	cities := make([]string, 0, len(seen))
	for c := range seen {
		cities = append(cities, c)
	}
	sort.Strings(cities)

	return cities, nil
}

// Locate finds the route and weekday of the flight departing at the given
// time. Keys are walked in sorted order and the first match wins; further
// matches are logged as ambiguous.
func (d *FlightDirectory) Locate(ctx context.Context, flightID, departure string) (domain.Trip, bool, error) {
	sched, err := d.schedule(ctx)
	if err != nil {
		return domain.Trip{}, false, err
	}

	var (
		found   domain.Trip
		matches int
	)

	for _, from := range sortedKeys(sched) {
		dests := sched[from]
		for _, to := range sortedKeys(dests) {
			days := dests[to]
			for _, weekday := range sortedKeys(days) {
				at, ok := days[weekday][flightID]
				if !ok || at != departure {
					continue
				}
				matches++
				if matches == 1 {
					found = domain.Trip{From: from, To: to, Weekday: weekday}
				}
			}
		}
	}

	if matches > 1 {
		d.log.WithFields(logrus.Fields{
			"flight_id": flightID,
			"departure": departure,
			"matches":   matches,
		}).Warn("flight lookup is ambiguous, using first match")
	}

	return found, matches > 0, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
