package appointment

import "time"

// Booking is an appointment as the allocator sees it: identifiers plus a
// status already mapped to the canonical set.
type Booking struct {
	ID        uint
	ClientID  uint
	SalonID   uint
	MasterID  uint
	ServiceID uint
	SlotID    uint

	Status    Status
	RawStatus string
}

// DisplayStatus keeps unrecognised stored values readable.
func (b Booking) DisplayStatus() string {
	if b.Status == StatusUnknown {
		return b.RawStatus
	}
	return string(b.Status)
}

// BookingView is a booking joined with the names a client needs to see.
type BookingView struct {
	Booking

	SalonName   string
	ServiceName string
	MasterName  string
	StartTime   time.Time
	EndTime     time.Time
}

// ===============================
// Domain Actions
// ===============================

func Cancel(b *Booking) error {
	if err := CanCancel(b.Status); err != nil {
		return err
	}

	b.Status = StatusCancelled
	b.RawStatus = string(StatusCancelled)
	return nil
}

func Complete(b *Booking) error {
	if err := CanComplete(b.Status); err != nil {
		return err
	}

	b.Status = StatusCompleted
	b.RawStatus = string(StatusCompleted)
	return nil
}
