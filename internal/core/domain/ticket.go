package domain

import "time"

type Trip struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Weekday string `json:"weekday"`
}

type Ticket struct {
	ID            string    `json:"id"`
	Trip          Trip      `json:"trip"`
	DepartureTime string    `json:"departure_time"`
	AircraftID    string    `json:"aircraft_id"`
	Seat          string    `json:"seat"`
	Zone          ZoneName  `json:"zone"`
	Price         int       `json:"price"`
	Owner         string    `json:"owner"`
	BookedAt      time.Time `json:"booked_at"`
}

const (
	MinTicketID = 10000
	MaxTicketID = 99999
)
