package ports

import (
	"context"

	"github.com/srgjo27/airline_desk/internal/core/domain"
)

type Inventory interface {
	SeatPrice(ctx context.Context, aircraftID, seatID string) (int, error)
	ZoneContaining(ctx context.Context, aircraftID, seatID string) (domain.ZoneName, error)
	DebitSeat(ctx context.Context, aircraftID, seatID string) error
	CreditSeat(ctx context.Context, aircraftID string, zone domain.ZoneName, seatID string) error
	Snapshot(ctx context.Context, aircraftID string) (*domain.Aircraft, error)
}

type FlightDirectory interface {
	Locate(ctx context.Context, flightID, departure string) (domain.Trip, bool, error)
}
