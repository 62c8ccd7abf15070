package models

import "time"

type ScheduleSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MasterID uint   `gorm:"not null;index:idx_slot_master_start,priority:1" json:"master_id"`
	Master   Master `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StartTime time.Time `gorm:"not null;index:idx_slot_master_start,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	IsBooked bool `gorm:"not null;default:false" json:"is_booked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
