package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/models"
	"github.com/BruksfildServices01/smart-spa/internal/session"
	"github.com/BruksfildServices01/smart-spa/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// CreateSlotInput carries wall-clock values in the salon's timezone.
type CreateSlotInput struct {
	SalonID     uint
	MasterID    uint
	Date        string // 2006-01-02
	Time        string // 15:04
	DurationMin int
}

// ======================================================
// USE CASE
// ======================================================

type CreateSlot struct {
	repo    domain.Repository
	effects Effects
}

func NewCreateSlot(
	repo domain.Repository,
	effects Effects,
) *CreateSlot {
	return &CreateSlot{
		repo:    repo,
		effects: effects,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute publishes a new free slot in a master's schedule.
func (uc *CreateSlot) Execute(
	ctx context.Context,
	sess session.Session,
	in CreateSlotInput,
) (*models.ScheduleSlot, error) {

	if !sess.IsAdmin() && !sess.IsSalon() {
		return nil, domain.ErrForbidden
	}

	if in.DurationMin <= 0 {
		return nil, domain.ErrInvalidSlot
	}

	// --------------------------------------------------
	// 1. Master of this salon
	// --------------------------------------------------
	master, err := uc.repo.GetMaster(ctx, in.MasterID)
	if err != nil {
		return nil, lookupErr("get master", err, domain.ErrReferentialMismatch)
	}
	if master.SalonID != in.SalonID || !master.Active {
		return nil, domain.ErrReferentialMismatch
	}

	// --------------------------------------------------
	// 2. Start / end in the salon's timezone
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(master.Salon.Timezone),
	)
	if err != nil {
		return nil, domain.ErrInvalidSlot
	}
	if !start.After(uc.effects.now()) {
		return nil, domain.ErrInvalidSlot
	}

	slot := &models.ScheduleSlot{
		MasterID:  in.MasterID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(in.DurationMin) * time.Minute),
	}

	if err := uc.repo.CreateSlot(ctx, slot); err != nil {
		return nil, domain.Persistence("create slot", err)
	}

	uc.effects.invalidate(ctx, in.SalonID)
	uc.effects.record(audit.Event{
		SalonID:  &in.SalonID,
		UserID:   &sess.UserID,
		Action:   "slot_created",
		Entity:   "schedule_slot",
		EntityID: &slot.ID,
	})

	return slot, nil
}
