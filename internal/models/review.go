package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"not null;index" json:"client_id"`
	SalonID  uint `gorm:"not null;index" json:"salon_id"`

	AppointmentID *uint `gorm:"index" json:"appointment_id"`

	Rating  int    `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
