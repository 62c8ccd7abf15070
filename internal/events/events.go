package events

import "context"

const (
	AppointmentCreated   = "appointment.created"
	AppointmentCancelled = "appointment.cancelled"
	AppointmentCompleted = "appointment.completed"
	ClientBookingsClean  = "client.bookings_cleaned"
)

// Publisher emits domain events after the owning transaction has committed.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type AppointmentEvent struct {
	AppointmentID uint   `json:"appointment_id"`
	ClientID      uint   `json:"client_id"`
	SalonID       uint   `json:"salon_id"`
	MasterID      uint   `json:"master_id"`
	ServiceID     uint   `json:"service_id"`
	SlotID        uint   `json:"slot_id"`
	Status        string `json:"status"`
	ActorID       uint   `json:"actor_id"`
}

type CleanupEvent struct {
	ClientID              uint   `json:"client_id"`
	CancelledAppointments []uint `json:"cancelled_appointments"`
	DeletedAppointments   int64  `json:"deleted_appointments"`
	DeletedReviews        int64  `json:"deleted_reviews"`
	ReleasedSlots         []uint `json:"released_slots"`
	ActorID               uint   `json:"actor_id"`
}

type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
