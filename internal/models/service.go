package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	DurationMin int             `gorm:"not null" json:"duration_min"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"base_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SalonService is a service on a salon's menu. A valid Price overrides the
// service's base price for that salon.
type SalonService struct {
	SalonID   uint                `gorm:"primaryKey" json:"salon_id"`
	Salon     Salon               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ServiceID uint                `gorm:"primaryKey" json:"service_id"`
	Service   Service             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Price     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"price"`
}

func EffectivePrice(base decimal.Decimal, override decimal.NullDecimal) decimal.Decimal {
	if override.Valid {
		return override.Decimal
	}
	return base
}
