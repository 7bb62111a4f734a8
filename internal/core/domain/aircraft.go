package domain

import (
	"math"
	"slices"
	"sort"
	"strconv"
)

type ZoneName string

const (
	ZoneFront  ZoneName = "front"
	ZoneCenter ZoneName = "center"
	ZoneBack   ZoneName = "back"
)

// ZoneOrder is the scan order used by every seat lookup.
var ZoneOrder = []ZoneName{ZoneFront, ZoneCenter, ZoneBack}

type SeatZone struct {
	FreeSeats []string `json:"free_seats"`
	Price     int      `json:"price"`
}

func (z *SeatZone) Contains(seatID string) bool {
	return slices.Contains(z.FreeSeats, seatID)
}

func (z *SeatZone) Remove(seatID string) bool {
	idx := slices.Index(z.FreeSeats, seatID)
	if idx < 0 {
		return false
	}
	z.FreeSeats = slices.Delete(z.FreeSeats, idx, idx+1)
	return true
}

func (z *SeatZone) Add(seatID string) {
	z.FreeSeats = append(z.FreeSeats, seatID)
	SortSeats(z.FreeSeats)
}

type Aircraft struct {
	FreeSeats int      `json:"free_seats"`
	Front     SeatZone `json:"front"`
	Center    SeatZone `json:"center"`
	Back      SeatZone `json:"back"`
}

// AircraftDocument is the persisted form of the whole fleet.
type AircraftDocument map[string]*Aircraft

func (a *Aircraft) Zone(name ZoneName) *SeatZone {
	switch name {
	case ZoneFront:
		return &a.Front
	case ZoneCenter:
		return &a.Center
	case ZoneBack:
		return &a.Back
	}
	return nil
}

// Locate returns the first zone whose free list holds seatID.
func (a *Aircraft) Locate(seatID string) (ZoneName, *SeatZone, bool) {
	for _, name := range ZoneOrder {
		z := a.Zone(name)
		if z.Contains(seatID) {
			return name, z, true
		}
	}
	return "", nil, false
}

func (a *Aircraft) CountedFreeSeats() int {
	return len(a.Front.FreeSeats) + len(a.Center.FreeSeats) + len(a.Back.FreeSeats)
}

func (a *Aircraft) Consistent() bool {
	return a.FreeSeats == a.CountedFreeSeats()
}

// SeatRank is the numeric prefix of a seat identifier ("12C" -> 12).
// Identifiers without a numeric prefix rank last.
func SeatRank(seatID string) int {
	end := 0
	for end < len(seatID) && seatID[end] >= '0' && seatID[end] <= '9' {
		end++
	}
	if end == 0 {
		return math.MaxInt
	}
	n, err := strconv.Atoi(seatID[:end])
	if err != nil {
		return math.MaxInt
	}
	return n
}

func SortSeats(seats []string) {
	sort.SliceStable(seats, func(i, j int) bool {
		ri, rj := SeatRank(seats[i]), SeatRank(seats[j])
		if ri != rj {
			return ri < rj
		}
		return seats[i] < seats[j]
	})
}
