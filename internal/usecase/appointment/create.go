package appointment

import (
	"context"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/events"
	"github.com/BruksfildServices01/smart-spa/internal/session"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID  uint
	SalonID   uint
	MasterID  uint
	ServiceID uint
	SlotID    uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	effects Effects
}

func NewCreateAppointment(
	repo domain.Repository,
	effects Effects,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		effects: effects,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute books the slot for the client and returns the new appointment id.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	sess session.Session,
	in CreateAppointmentInput,
) (uint, error) {

	if !sess.IsAdmin() && !sess.Owns(in.ClientID) {
		return 0, domain.ErrForbidden
	}

	booking := domain.Booking{
		ClientID:  in.ClientID,
		SalonID:   in.SalonID,
		MasterID:  in.MasterID,
		ServiceID: in.ServiceID,
		SlotID:    in.SlotID,
		Status:    domain.InitialStatus(),
	}

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		// --------------------------------------------------
		// 1. Client row (shared) then slot row lock
		// --------------------------------------------------
		if err := lockClient(ctx, tx, in.ClientID); err != nil {
			return err
		}

		slot, err := tx.LockSlot(ctx, in.SlotID)
		if err != nil {
			return lookupErr("lock slot", err, domain.ErrReferentialMismatch)
		}

		// --------------------------------------------------
		// 2. Tuple consistency
		// --------------------------------------------------
		if err := validateTuple(ctx, tx, in, slot.MasterID); err != nil {
			return err
		}

		// --------------------------------------------------
		// 3. Availability
		// --------------------------------------------------
		if slot.IsBooked || !slot.StartTime.After(uc.effects.now()) {
			return domain.ErrSlotUnavailable
		}

		// --------------------------------------------------
		// 4. Compare-and-set on the flag
		// --------------------------------------------------
		won, err := tx.MarkSlotBooked(ctx, in.SlotID)
		if err != nil {
			return domain.Persistence("mark slot booked", err)
		}
		if !won {
			return domain.ErrSlotUnavailable
		}

		// --------------------------------------------------
		// 5. Appointment row
		// --------------------------------------------------
		if err := tx.InsertAppointment(ctx, &booking); err != nil {
			return domain.Persistence("insert appointment", err)
		}
		return nil
	})
	if err != nil {
		return 0, domain.Persistence("create appointment", err)
	}

	uc.effects.invalidate(ctx, booking.SalonID)
	uc.effects.publish(ctx, events.AppointmentCreated, appointmentEvent(booking, sess.UserID))
	uc.effects.record(audit.Event{
		SalonID:  &booking.SalonID,
		UserID:   &sess.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &booking.ID,
	})

	return booking.ID, nil
}

// lockClient holds the client row in share mode until commit, which keeps
// a concurrent cleanup of the same client from running in between.
func lockClient(ctx context.Context, tx domain.Repository, clientID uint) error {
	client, err := tx.LockUser(ctx, clientID, domain.LockShared)
	if err != nil {
		return lookupErr("lock client", err, domain.ErrReferentialMismatch)
	}
	if role, err := session.ParseRole(client.Role); err != nil || role != session.RoleClient {
		return domain.ErrReferentialMismatch
	}
	return nil
}

func validateTuple(
	ctx context.Context,
	tx domain.Repository,
	in CreateAppointmentInput,
	slotMasterID uint,
) error {

	if slotMasterID != in.MasterID {
		return domain.ErrReferentialMismatch
	}

	master, err := tx.GetMaster(ctx, in.MasterID)
	if err != nil {
		return lookupErr("get master", err, domain.ErrReferentialMismatch)
	}
	if master.SalonID != in.SalonID || !master.Active {
		return domain.ErrReferentialMismatch
	}

	if _, err := tx.GetSalonService(ctx, in.SalonID, in.ServiceID); err != nil {
		return lookupErr("get salon service", err, domain.ErrReferentialMismatch)
	}

	qualified, err := tx.IsMasterQualified(ctx, in.SalonID, in.MasterID, in.ServiceID)
	if err != nil {
		return domain.Persistence("check qualification", err)
	}
	if !qualified {
		return domain.ErrReferentialMismatch
	}

	return nil
}
