package models

import "time"

type Salon struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	City     string `gorm:"size:100;not null;index" json:"city"`
	Address  string `gorm:"size:200" json:"address"`
	Phone    string `gorm:"size:20" json:"phone"`
	Timezone string `gorm:"size:64" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
