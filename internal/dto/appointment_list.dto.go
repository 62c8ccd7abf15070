package dto

import "time"

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	SalonID     uint      `json:"salon_id"`
	SalonName   string    `json:"salon_name"`
	ServiceName string    `json:"service_name"`
	MasterName  string    `json:"master_name"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Cancellable bool      `json:"cancellable"`
}
