package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/events"
	"github.com/BruksfildServices01/smart-spa/internal/session"
)

type CancelAppointment struct {
	repo    domain.Repository
	effects Effects
}

func NewCancelAppointment(
	repo domain.Repository,
	effects Effects,
) *CancelAppointment {
	return &CancelAppointment{
		repo:    repo,
		effects: effects,
	}
}

// Execute cancels the appointment and frees its slot. A client may only
// cancel its own appointments.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	appointmentID uint,
) error {

	var booking *domain.Booking

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return lookupErr("lock appointment", err, domain.ErrNotFound)
		}

		if !sess.IsAdmin() && !sess.Owns(b.ClientID) {
			return domain.ErrForbidden
		}

		if err := cancelLocked(ctx, tx, b, uc.effects.now()); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return domain.Persistence("cancel appointment", err)
	}

	uc.effects.invalidate(ctx, booking.SalonID)
	uc.effects.publish(ctx, events.AppointmentCancelled, appointmentEvent(*booking, sess.UserID))
	uc.effects.record(audit.Event{
		SalonID:  &booking.SalonID,
		UserID:   &sess.UserID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &booking.ID,
	})

	return nil
}

// cancelLocked applies the cancel transition to a row the caller already
// holds locked: status, cancellation time, then the slot flag.
func cancelLocked(
	ctx context.Context,
	tx domain.Repository,
	b *domain.Booking,
	now time.Time,
) error {

	if err := domain.Cancel(b); err != nil {
		return err
	}

	if err := tx.SetAppointmentStatus(ctx, b.ID, b.Status, now); err != nil {
		return domain.Persistence("set status", err)
	}

	if err := tx.ReleaseSlots(ctx, b.SlotID); err != nil {
		return domain.Persistence("release slot", err)
	}

	return nil
}
