package appointment

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/smart-spa/internal/httperr"
)

var (
	ErrSlotUnavailable        = httperr.ErrBusiness("slot_unavailable")
	ErrReferentialMismatch    = httperr.ErrBusiness("referential_mismatch")
	ErrInvalidStateTransition = httperr.ErrBusiness("invalid_state")
	ErrNotFound               = httperr.ErrBusiness("appointment_not_found")
	ErrPersistenceFailure     = httperr.ErrBusiness("persistence_failure")

	ErrForbidden        = httperr.ErrBusiness("forbidden")
	ErrUserNotFound     = httperr.ErrBusiness("user_not_found")
	ErrCannotDeleteSelf = httperr.ErrBusiness("cannot_delete_self")
	ErrInvalidSlot      = httperr.ErrBusiness("invalid_slot")
)

// ErrNoRows is returned by Repository lookups that match nothing.
var ErrNoRows = errors.New("record not found")

// Persistence wraps a store error as ErrPersistenceFailure. Business errors
// pass through untouched.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistenceFailure, op, err)
}
