package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/airline_desk/internal/core/domain"
	"github.com/srgjo27/airline_desk/internal/core/ports"
)

const DefaultAircraftDocument = "aircraft"

// InventoryService owns seat availability. Every call loads the aircraft
// document afresh and every mutation rewrites it whole.
type InventoryService struct {
	store    ports.DocumentStore
	document string
	cache    *redis.Client
	cacheTTL time.Duration
	log      logrus.FieldLogger

	mu sync.Mutex
}

type InventoryOption func(*InventoryService)

func WithSeatCache(client *redis.Client, ttl time.Duration) InventoryOption {
	return func(s *InventoryService) {
		s.cache = client
		s.cacheTTL = ttl
	}
}

func WithAircraftDocument(name string) InventoryOption {
	return func(s *InventoryService) {
		if name != "" {
			s.document = name
		}
	}
}

func NewInventoryService(store ports.DocumentStore, log logrus.FieldLogger, opts ...InventoryOption) *InventoryService {
	s := &InventoryService{
		store:    store,
		document: DefaultAircraftDocument,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func seatCacheKey(aircraftID string) string {
	return fmt.Sprintf("seats:%s", aircraftID)
}

func (s *InventoryService) load(ctx context.Context) (domain.AircraftDocument, error) {
	var doc domain.AircraftDocument
	if err := s.store.Load(ctx, s.document, &doc); err != nil {
		return nil, fmt.Errorf("failed to load aircraft document: %w", err)
	}
	return doc, nil
}

func (s *InventoryService) aircraft(ctx context.Context, aircraftID string) (domain.AircraftDocument, *domain.Aircraft, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	a, ok := doc[aircraftID]
	if !ok || a == nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrAircraftNotFound, aircraftID)
	}

	return doc, a, nil
}

// SeatPrice returns the price of the zone holding seatID, or 0 when the seat
// is not free in any zone.
func (s *InventoryService) SeatPrice(ctx context.Context, aircraftID, seatID string) (int, error) {
	_, a, err := s.aircraft(ctx, aircraftID)
	if err != nil {
		return 0, err
	}

	_, zone, ok := a.Locate(seatID)
	if !ok {
		return 0, nil
	}

	return zone.Price, nil
}

func (s *InventoryService) ZoneContaining(ctx context.Context, aircraftID, seatID string) (domain.ZoneName, error) {
	_, a, err := s.aircraft(ctx, aircraftID)
	if err != nil {
		return "", err
	}

	name, _, ok := a.Locate(seatID)
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", domain.ErrSeatUnavailable, seatID, aircraftID)
	}

	return name, nil
}

func (s *InventoryService) DebitSeat(ctx context.Context, aircraftID, seatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, a, err := s.aircraft(ctx, aircraftID)
	if err != nil {
		return err
	}

	_, zone, ok := a.Locate(seatID)
	if !ok {
		return fmt.Errorf("%w: %s on %s", domain.ErrSeatUnavailable, seatID, aircraftID)
	}

	zone.Remove(seatID)
	a.FreeSeats--

	if err := s.store.Save(ctx, s.document, doc); err != nil {
		return fmt.Errorf("failed to save aircraft document: %w", err)
	}

	s.invalidate(ctx, aircraftID)
	return nil
}

func (s *InventoryService) CreditSeat(ctx context.Context, aircraftID string, zoneName domain.ZoneName, seatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, a, err := s.aircraft(ctx, aircraftID)
	if err != nil {
		return err
	}

	zone := a.Zone(zoneName)
	if zone == nil {
		return fmt.Errorf("%w: %q", domain.ErrUnknownZone, zoneName)
	}

	if holder, _, ok := a.Locate(seatID); ok {
		return fmt.Errorf("%w: %s already in %s on %s", domain.ErrSeatAlreadyFree, seatID, holder, aircraftID)
	}

	zone.Add(seatID)
	a.FreeSeats++

	if err := s.store.Save(ctx, s.document, doc); err != nil {
		return fmt.Errorf("failed to save aircraft document: %w", err)
	}

	s.invalidate(ctx, aircraftID)
	return nil
}

// Snapshot returns the seat map of one aircraft, read through the seat cache
// when one is configured. A miss is filled under the mutation lock so an
// invalidation can never land between the load and the cache write.
func (s *InventoryService) Snapshot(ctx context.Context, aircraftID string) (*domain.Aircraft, error) {
	if cached, ok := s.cached(ctx, aircraftID); ok {
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, a, err := s.aircraft(ctx, aircraftID)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, aircraftID, a)
	return a, nil
}

type Violation struct {
	AircraftID string
	Recorded   int
	Counted    int
}

func (v Violation) String() string {
	return fmt.Sprintf("aircraft %s records %d free seats but lists %d", v.AircraftID, v.Recorded, v.Counted)
}

// Audit reports every aircraft whose free-seat total disagrees with its zones.
func (s *InventoryService) Audit(ctx context.Context) ([]Violation, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Violation
	for _, id := range ids {
		a := doc[id]
		if a == nil || a.Consistent() {
			continue
		}
		out = append(out, Violation{AircraftID: id, Recorded: a.FreeSeats, Counted: a.CountedFreeSeats()})
	}

	return out, nil
}

func (s *InventoryService) cached(ctx context.Context, aircraftID string) (*domain.Aircraft, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, seatCacheKey(aircraftID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WithError(err).WithField("aircraft_id", aircraftID).Warn("seat cache read failed")
		}
		return nil, false
	}

	var a domain.Aircraft
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		s.log.WithError(err).WithField("aircraft_id", aircraftID).Warn("seat cache entry is corrupt")
		return nil, false
	}

	return &a, true
}

func (s *InventoryService) remember(ctx context.Context, aircraftID string, a *domain.Aircraft) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(a)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, seatCacheKey(aircraftID), string(data), s.cacheTTL).Err(); err != nil {
		s.log.WithError(err).WithField("aircraft_id", aircraftID).Warn("seat cache write failed")
	}
}

func (s *InventoryService) invalidate(ctx context.Context, aircraftID string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, seatCacheKey(aircraftID)).Err(); err != nil {
		s.log.WithError(err).WithField("aircraft_id", aircraftID).Warn("seat cache invalidation failed")
	}
}
