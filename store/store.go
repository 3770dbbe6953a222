package store

import (
	"context"
	"fmt"

	"mealbook/models"
)

// BookingStore is everything the booking, report and purge paths need from
// persistence. Date ranges are half-open over Booking.Date.
type BookingStore interface {
	Insert(ctx context.Context, b *models.Booking) (string, error)
	// Find returns bookings in insertion order. A nil range returns all.
	Find(ctx context.Context, r *models.DateRange) ([]models.Booking, error)
	DeleteMany(ctx context.Context, r models.DateRange) (int64, error)
}

// Error wraps any persistence failure. Callers retry on their next
// invocation; nothing treats it as fatal.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
