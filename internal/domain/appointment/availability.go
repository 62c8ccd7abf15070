package appointment

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultAvailabilityLimit = 20

// SlotQuery selects bookable slots of one salon. A nil ServiceID means any
// active master of the salon.
type SlotQuery struct {
	SalonID   uint
	ServiceID *uint
	Limit     int
}

type AvailableSlot struct {
	SlotID         uint             `json:"slot_id"`
	MasterID       uint             `json:"master_id"`
	MasterName     string           `json:"master_name"`
	Specialization string           `json:"specialization"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        time.Time        `json:"end_time"`
	Price          *decimal.Decimal `json:"price,omitempty"`
}
