package appointment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Synonyms(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"pending", StatusPendingConfirmation},
		{"Ожидает подтверждения", StatusPendingConfirmation},
		{" AWAITING_CONFIRMATION ", StatusPendingConfirmation},
		{"confirmed", StatusConfirmed},
		{"Подтверждено", StatusConfirmed},
		{"Canceled", StatusCancelled},
		{"ОТМЕНЕНА", StatusCancelled},
		{"declined", StatusCancelled},
		{"done", StatusCompleted},
		{"Выполнено", StatusCompleted},
		{"completed", StatusCompleted},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.raw), tc.raw)
	}
}

func TestNormalize_UnknownFailsClosed(t *testing.T) {
	for _, raw := range []string{"", "   ", "on hold", "7"} {
		s := Normalize(raw)
		assert.Equal(t, StatusUnknown, s, raw)
		assert.False(t, s.Cancellable(), raw)
		assert.ErrorIs(t, CanCancel(s), ErrInvalidStateTransition)
	}
}

func TestCancel_Transitions(t *testing.T) {
	for _, from := range []Status{StatusPendingConfirmation, StatusConfirmed} {
		b := Booking{Status: from}
		assert.NoError(t, Cancel(&b))
		assert.Equal(t, StatusCancelled, b.Status)
	}

	for _, from := range []Status{StatusCancelled, StatusCompleted, StatusUnknown} {
		b := Booking{Status: from}
		assert.ErrorIs(t, Cancel(&b), ErrInvalidStateTransition)
		assert.Equal(t, from, b.Status)
	}
}

func TestComplete_Transitions(t *testing.T) {
	b := Booking{Status: StatusConfirmed}
	assert.NoError(t, Complete(&b))
	assert.Equal(t, StatusCompleted, b.Status)

	b = Booking{Status: StatusCancelled}
	assert.ErrorIs(t, Complete(&b), ErrInvalidStateTransition)
}

func TestDisplayStatus_KeepsRawForUnknown(t *testing.T) {
	b := Booking{Status: Normalize("На паузе"), RawStatus: "На паузе"}
	assert.Equal(t, "На паузе", b.DisplayStatus())

	b = Booking{Status: Normalize("Подтверждено"), RawStatus: "Подтверждено"}
	assert.Equal(t, "confirmed", b.DisplayStatus())
}

func TestPersistence_Wrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence("insert appointment", cause)

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, ErrSlotUnavailable, Persistence("x", ErrSlotUnavailable))
	assert.ErrorIs(t, Persistence("x", fmt.Errorf("tx: %w", ErrNotFound)), ErrNotFound)
	assert.Nil(t, Persistence("x", nil))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus())
}

func TestAliases_RoundTrip(t *testing.T) {
	for _, s := range []Status{StatusPendingConfirmation, StatusConfirmed, StatusCancelled, StatusCompleted} {
		aliases := Aliases(s)
		assert.Contains(t, aliases, string(s))
		for _, a := range aliases {
			assert.Equal(t, s, Normalize(a), a)
		}
	}
	assert.Empty(t, Aliases(StatusUnknown))
}
