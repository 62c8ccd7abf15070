package models

import "time"

type Master struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	FullName       string `gorm:"size:100;not null" json:"full_name"`
	Specialization string `gorm:"size:100" json:"specialization"`

	SalonID uint  `gorm:"not null;index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Active bool `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MasterService records that a master is qualified to perform a service.
type MasterService struct {
	MasterID  uint    `gorm:"primaryKey" json:"master_id"`
	Master    Master  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ServiceID uint    `gorm:"primaryKey" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
