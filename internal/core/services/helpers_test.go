package services_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/airline_desk/internal/adapter/repository/memory"
	"github.com/srgjo27/airline_desk/internal/core/domain"
)

func fleet() domain.AircraftDocument {
	return domain.AircraftDocument{
		"A1": {
			FreeSeats: 5,
			Front:     domain.SeatZone{FreeSeats: []string{"1A", "2A"}, Price: 100},
			Center:    domain.SeatZone{FreeSeats: []string{"5C", "10C"}, Price: 70},
			Back:      domain.SeatZone{FreeSeats: []string{"20F"}, Price: 50},
		},
		"B7": {
			FreeSeats: 3,
			Front:     domain.SeatZone{FreeSeats: []string{"1A"}, Price: 300},
			Center:    domain.SeatZone{FreeSeats: []string{"8B"}, Price: 200},
			Back:      domain.SeatZone{FreeSeats: []string{"30C"}, Price: 90},
		},
	}
}

func schedule() domain.Schedule {
	return domain.Schedule{
		"Kyiv": {
			"Warsaw": {
				"Monday":   {"A1": "08:00"},
				"Thursday": {"A1": "17:30"},
			},
		},
		"Warsaw": {
			"Milan": {
				"Friday": {"B7": "12:15"},
			},
		},
	}
}

func seededStore(t *testing.T) *memory.DocumentStore {
	t.Helper()

	store := memory.NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "aircraft", fleet()))
	require.NoError(t, store.Save(ctx, "flights", schedule()))
	return store
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}
