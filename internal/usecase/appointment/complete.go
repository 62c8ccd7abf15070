package appointment

import (
	"context"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/events"
	"github.com/BruksfildServices01/smart-spa/internal/session"
)

type CompleteAppointment struct {
	repo    domain.Repository
	effects Effects
}

func NewCompleteAppointment(
	repo domain.Repository,
	effects Effects,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:    repo,
		effects: effects,
	}
}

// Execute marks a visit as done. The slot stays booked.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	appointmentID uint,
) error {

	if !sess.IsAdmin() && !sess.IsSalon() {
		return domain.ErrForbidden
	}

	var booking *domain.Booking

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return lookupErr("lock appointment", err, domain.ErrNotFound)
		}

		if err := domain.Complete(b); err != nil {
			return err
		}

		if err := tx.SetAppointmentStatus(ctx, b.ID, b.Status, uc.effects.now()); err != nil {
			return domain.Persistence("set status", err)
		}

		booking = b
		return nil
	})
	if err != nil {
		return domain.Persistence("complete appointment", err)
	}

	uc.effects.publish(ctx, events.AppointmentCompleted, appointmentEvent(*booking, sess.UserID))
	uc.effects.record(audit.Event{
		SalonID:  &booking.SalonID,
		UserID:   &sess.UserID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &booking.ID,
	})

	return nil
}
