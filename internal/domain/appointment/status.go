package appointment

import (
	"sort"
	"strings"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
	StatusCancelled           Status = "cancelled"
	StatusCompleted           Status = "completed"

	// StatusUnknown is any stored value missing from the synonym table.
	StatusUnknown Status = "unknown"
)

// Keys are lower case. Russian spellings come from the legacy schemas.
var statusAliases = map[string]Status{
	"pending_confirmation":   StatusPendingConfirmation,
	"pending confirmation":   StatusPendingConfirmation,
	"pending":                StatusPendingConfirmation,
	"awaiting confirmation":  StatusPendingConfirmation,
	"awaiting_confirmation":  StatusPendingConfirmation,
	"ожидает подтверждения":  StatusPendingConfirmation,
	"ожидание подтверждения": StatusPendingConfirmation,
	"ожидаетподтверждения":   StatusPendingConfirmation,

	"confirmed":             StatusConfirmed,
	"confirmed appointment": StatusConfirmed,
	"подтверждена":          StatusConfirmed,
	"подтвержден":           StatusConfirmed,
	"подтверждено":          StatusConfirmed,

	"cancelled": StatusCancelled,
	"canceled":  StatusCancelled,
	"declined":  StatusCancelled,
	"отменена":  StatusCancelled,
	"отменен":   StatusCancelled,
	"отменено":  StatusCancelled,

	"completed": StatusCompleted,
	"finished":  StatusCompleted,
	"done":      StatusCompleted,
	"завершена": StatusCompleted,
	"завершено": StatusCompleted,
	"выполнена": StatusCompleted,
	"выполнено": StatusCompleted,
}

// Normalize maps a stored status value to the canonical set.
func Normalize(raw string) Status {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusAliases[key]; ok {
		return s
	}
	return StatusUnknown
}

// Aliases lists every stored spelling that normalizes to s, sorted.
func Aliases(s Status) []string {
	out := []string{}
	for k, v := range statusAliases {
		if v == s {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (s Status) Cancellable() bool {
	return s == StatusPendingConfirmation || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanCancel fails closed: unknown statuses are never cancellable.
func CanCancel(current Status) error {
	if !current.Cancellable() {
		return ErrInvalidStateTransition
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusPendingConfirmation && current != StatusConfirmed {
		return ErrInvalidStateTransition
	}
	return nil
}

// InitialStatus is the status of every newly booked appointment.
func InitialStatus() Status {
	return StatusConfirmed
}
