package services

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/srgjo27/airline_desk/internal/core/domain"
	"github.com/srgjo27/airline_desk/internal/core/ports"
)

const DefaultTicketIDAttempts = 64

// TicketIDGenerator samples 5-digit ids at random and rejects ones already
// in use. After maxAttempts collisions it falls back to the lowest free id.
type TicketIDGenerator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	maxAttempts int
}

func NewTicketIDGenerator(rng *rand.Rand, maxAttempts int) *TicketIDGenerator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultTicketIDAttempts
	}
	return &TicketIDGenerator{rng: rng, maxAttempts: maxAttempts}
}

func (g *TicketIDGenerator) sample() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return strconv.Itoa(domain.MinTicketID + g.rng.IntN(domain.MaxTicketID-domain.MinTicketID+1))
}

func (g *TicketIDGenerator) Next(ctx context.Context, repo ports.TicketRepository) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		id := g.sample()
		taken, err := repo.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}

	ids, err := repo.IDs(ctx)
	if err != nil {
		return "", err
	}

	used := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		used[id] = struct{}{}
	}

	for n := domain.MinTicketID; n <= domain.MaxTicketID; n++ {
		id := strconv.Itoa(n)
		if _, ok := used[id]; !ok {
			return id, nil
		}
	}

	return "", domain.ErrTicketIDsExhausted
}
