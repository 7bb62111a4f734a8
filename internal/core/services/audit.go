package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srgjo27/airline_desk/internal/core/ports"
)

// Auditor periodically checks the seat-count invariant of every aircraft and
// that every active ticket is listed under a user.
type Auditor struct {
	inventory *InventoryService
	tickets   ports.TicketRepository
	log       logrus.FieldLogger
}

func NewAuditor(inventory *InventoryService, tickets ports.TicketRepository, log logrus.FieldLogger) *Auditor {
	return &Auditor{inventory: inventory, tickets: tickets, log: log}
}

func (a *Auditor) RunBackgroundAudit(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.log.Warnf("Background audit disabled: interval %s is not positive", interval)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.log.Infof("Background audit started: checking ledger every %s", interval)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("Background audit stopped")
			return
		case <-ticker.C:
			if _, err := a.Check(ctx); err != nil {
				a.log.WithError(err).Error("ledger audit failed")
			}
		}
	}
}

// Check runs one audit pass and returns the problems found.
func (a *Auditor) Check(ctx context.Context) ([]string, error) {
	violations, err := a.inventory.Audit(ctx)
	if err != nil {
		return nil, err
	}

	var problems []string
	for _, v := range violations {
		problems = append(problems, v.String())
	}

	ids, err := a.tickets.IDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		_, ok, err := a.tickets.OwnerOf(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			problems = append(problems, fmt.Sprintf("ticket %s is not listed under any user", id))
		}
	}

	for _, p := range problems {
		a.log.Warn(p)
	}
	if len(problems) == 0 {
		a.log.Debugf("Audit passed for %d tickets", len(ids))
	}

	return problems, nil
}
