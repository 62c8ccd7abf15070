package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/smart-spa/internal/models"
)

type LockMode int

const (
	LockShared LockMode = iota
	LockExclusive
)

// Repository is the persistence port of the allocator. Lookups that match
// nothing return ErrNoRows.
type Repository interface {
	// Transaction runs fn against a Repository bound to one database
	// transaction. Any error from fn rolls the whole unit back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Users --------

	// LockUser reads a user row under a row lock. Bookings take LockShared
	// on their client; cleanup takes LockExclusive, so the two serialize.
	LockUser(ctx context.Context, id uint, mode LockMode) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error

	// -------- Salon menu / staff --------
	GetMaster(ctx context.Context, id uint) (*models.Master, error)

	GetSalonService(
		ctx context.Context,
		salonID uint,
		serviceID uint,
	) (*models.SalonService, error)

	// IsMasterQualified is true when the master has the service assigned,
	// or when no master of the salon has it assigned at all.
	IsMasterQualified(
		ctx context.Context,
		salonID uint,
		masterID uint,
		serviceID uint,
	) (bool, error)

	// -------- Slots --------
	LockSlot(ctx context.Context, slotID uint) (*models.ScheduleSlot, error)

	// MarkSlotBooked flips is_booked from false to true and reports
	// whether this call won the flip.
	MarkSlotBooked(ctx context.Context, slotID uint) (bool, error)

	ReleaseSlots(ctx context.Context, slotIDs ...uint) error

	CreateSlot(ctx context.Context, slot *models.ScheduleSlot) error

	ListAvailableSlots(
		ctx context.Context,
		q SlotQuery,
		now time.Time,
	) ([]AvailableSlot, error)

	// -------- Appointments --------
	InsertAppointment(ctx context.Context, b *Booking) error

	LockAppointment(ctx context.Context, id uint) (*Booking, error)

	SetAppointmentStatus(
		ctx context.Context,
		id uint,
		status Status,
		at time.Time,
	) error

	LockClientBookings(ctx context.Context, clientID uint) ([]Booking, error)

	ListClientBookingViews(ctx context.Context, clientID uint) ([]BookingView, error)

	// DeleteClientAppointments deletes only the listed appointments of the
	// client.
	DeleteClientAppointments(
		ctx context.Context,
		clientID uint,
		appointmentIDs []uint,
	) (int64, error)

	// -------- Reviews --------
	DeleteClientReviews(
		ctx context.Context,
		clientID uint,
		appointmentIDs []uint,
	) (int64, error)
}
