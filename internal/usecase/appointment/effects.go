package appointment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/events"
)

// AvailabilityCache is the read-through store used by slot discovery.
type AvailabilityCache interface {
	Get(ctx context.Context, q domain.SlotQuery) ([]domain.AvailableSlot, int64, bool)
	Set(ctx context.Context, q domain.SlotQuery, version int64, slots []domain.AvailableSlot)
	InvalidateSalon(ctx context.Context, salonID uint)
}

// Effects are the side effects of a committed allocator call. None of them
// can change its result. A zero Effects does nothing.
type Effects struct {
	Audit     *audit.Dispatcher
	Publisher events.Publisher
	Cache     AvailabilityCache
	Now       func() time.Time
}

func (e Effects) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Effects) invalidate(ctx context.Context, salonIDs ...uint) {
	if e.Cache == nil {
		return
	}
	for _, id := range salonIDs {
		e.Cache.InvalidateSalon(ctx, id)
	}
}

func (e Effects) publish(ctx context.Context, routingKey string, payload any) {
	if e.Publisher == nil {
		return
	}
	if err := e.Publisher.Publish(ctx, routingKey, payload); err != nil {
		log.Printf("[Allocator] publish %s failed: %v", routingKey, err)
	}
}

func (e Effects) record(ev audit.Event) {
	e.Audit.Dispatch(ev)
}

func appointmentEvent(b domain.Booking, actorID uint) events.AppointmentEvent {
	return events.AppointmentEvent{
		AppointmentID: b.ID,
		ClientID:      b.ClientID,
		SalonID:       b.SalonID,
		MasterID:      b.MasterID,
		ServiceID:     b.ServiceID,
		SlotID:        b.SlotID,
		Status:        b.DisplayStatus(),
		ActorID:       actorID,
	}
}

// lookupErr maps a missing row to notFound and any other store error to a
// persistence failure.
func lookupErr(op string, err error, notFound error) error {
	if errors.Is(err, domain.ErrNoRows) {
		return notFound
	}
	return domain.Persistence(op, err)
}
