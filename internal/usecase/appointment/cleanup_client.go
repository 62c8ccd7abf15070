package appointment

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/events"
	"github.com/BruksfildServices01/smart-spa/internal/session"
)

// CleanupResult reports what a client cleanup changed.
type CleanupResult struct {
	ClientID            uint
	Cancelled           []uint
	DeletedAppointments int64
	DeletedReviews      int64
	ReleasedSlots       []uint
	SalonIDs            []uint
}

type CleanupClientBookings struct {
	repo    domain.Repository
	effects Effects
}

func NewCleanupClientBookings(
	repo domain.Repository,
	effects Effects,
) *CleanupClientBookings {
	return &CleanupClientBookings{
		repo:    repo,
		effects: effects,
	}
}

// Execute removes every booking trace of the client in one transaction.
func (uc *CleanupClientBookings) Execute(
	ctx context.Context,
	sess session.Session,
	clientID uint,
) (*CleanupResult, error) {

	if !sess.IsAdmin() && !sess.Owns(clientID) {
		return nil, domain.ErrForbidden
	}

	var result *CleanupResult

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		res, err := cleanupLocked(ctx, tx, clientID, uc.effects.now())
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, domain.Persistence("cleanup client bookings", err)
	}

	afterCleanup(ctx, uc.effects, sess, result)
	return result, nil
}

// cleanupLocked runs inside the caller's transaction.
func cleanupLocked(
	ctx context.Context,
	tx domain.Repository,
	clientID uint,
	now time.Time,
) (*CleanupResult, error) {

	res := &CleanupResult{
		ClientID:      clientID,
		Cancelled:     []uint{},
		ReleasedSlots: []uint{},
		SalonIDs:      []uint{},
	}

	// --------------------------------------------------
	// 1. Client row, then the client's appointments, locked
	// --------------------------------------------------
	if _, err := tx.LockUser(ctx, clientID, domain.LockExclusive); err != nil && !errors.Is(err, domain.ErrNoRows) {
		return nil, domain.Persistence("lock client", err)
	}

	bookings, err := tx.LockClientBookings(ctx, clientID)
	if err != nil {
		return nil, domain.Persistence("lock client bookings", err)
	}

	// --------------------------------------------------
	// 2. Cancel what is still active
	// --------------------------------------------------
	for i := range bookings {
		b := &bookings[i]
		if !b.Status.Cancellable() {
			continue
		}
		if err := cancelLocked(ctx, tx, b, now); err != nil {
			return nil, err
		}
		res.Cancelled = append(res.Cancelled, b.ID)
	}

	// --------------------------------------------------
	// 3. Collect ids regardless of status
	// --------------------------------------------------
	appointmentIDs := make([]uint, 0, len(bookings))
	slots := map[uint]struct{}{}
	salons := map[uint]struct{}{}
	for _, b := range bookings {
		appointmentIDs = append(appointmentIDs, b.ID)
		slots[b.SlotID] = struct{}{}
		salons[b.SalonID] = struct{}{}
	}
	res.ReleasedSlots = sortedKeys(slots)
	res.SalonIDs = sortedKeys(salons)

	// --------------------------------------------------
	// 4. Reviews
	// --------------------------------------------------
	if res.DeletedReviews, err = tx.DeleteClientReviews(ctx, clientID, appointmentIDs); err != nil {
		return nil, domain.Persistence("delete reviews", err)
	}

	// --------------------------------------------------
	// 5. Appointments
	// --------------------------------------------------
	if res.DeletedAppointments, err = tx.DeleteClientAppointments(ctx, clientID, appointmentIDs); err != nil {
		return nil, domain.Persistence("delete appointments", err)
	}

	// --------------------------------------------------
	// 6. Slot flags
	// --------------------------------------------------
	if err := tx.ReleaseSlots(ctx, res.ReleasedSlots...); err != nil {
		return nil, domain.Persistence("release slots", err)
	}

	return res, nil
}

func afterCleanup(
	ctx context.Context,
	effects Effects,
	sess session.Session,
	res *CleanupResult,
) {
	if res == nil {
		return
	}

	effects.invalidate(ctx, res.SalonIDs...)
	effects.publish(ctx, events.ClientBookingsClean, events.CleanupEvent{
		ClientID:              res.ClientID,
		CancelledAppointments: res.Cancelled,
		DeletedAppointments:   res.DeletedAppointments,
		DeletedReviews:        res.DeletedReviews,
		ReleasedSlots:         res.ReleasedSlots,
		ActorID:               sess.UserID,
	})

	clientID := res.ClientID
	effects.record(audit.Event{
		UserID:   &sess.UserID,
		Action:   "client_bookings_cleaned",
		Entity:   "user",
		EntityID: &clientID,
		Metadata: map[string]any{
			"cancelled":            res.Cancelled,
			"deleted_appointments": res.DeletedAppointments,
			"deleted_reviews":      res.DeletedReviews,
		},
	})
}

func sortedKeys(set map[uint]struct{}) []uint {
	keys := make([]uint, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
