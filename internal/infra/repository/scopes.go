package repository

import (
	"time"

	"gorm.io/gorm"
)

// Scopes below assume schedule_slots AS s joined with masters AS m.

func salonActiveMasters(salonID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("m.salon_id = ? AND m.active = ?", salonID, true)
	}
}

func freeSlotsAfter(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("s.is_booked = ? AND s.start_time > ?", false, now)
	}
}

// qualifiedFor keeps masters able to perform the service: the salon must
// offer it, and the master must have it assigned unless nobody in the
// salon does.
func qualifiedFor(salonID uint, serviceID *uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if serviceID == nil {
			return db
		}
		return db.
			Where(
				"EXISTS (SELECT 1 FROM salon_services ss WHERE ss.salon_id = ? AND ss.service_id = ?)",
				salonID, *serviceID,
			).
			Where(
				`(EXISTS (SELECT 1 FROM master_services ms WHERE ms.master_id = m.id AND ms.service_id = ?)
				OR NOT EXISTS (
					SELECT 1 FROM master_services ms
					JOIN masters mm ON mm.id = ms.master_id
					WHERE mm.salon_id = ? AND ms.service_id = ?
				))`,
				*serviceID, salonID, *serviceID,
			)
	}
}

func firstN(limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}
