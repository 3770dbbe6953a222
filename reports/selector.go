package reports

import (
	"context"

	"mealbook/clock"
	"mealbook/cutoff"
	"mealbook/models"
	"mealbook/store"
)

// Selector picks the bookings a report should contain. It never writes.
type Selector struct {
	store  store.BookingStore
	policy cutoff.Policy
	clock  clock.Clock
}

func NewSelector(st store.BookingStore, policy cutoff.Policy, clk clock.Clock) *Selector {
	return &Selector{store: st, policy: policy, clock: clk}
}

// Select returns the bookings dated inside the current report window, in
// insertion order, along with the window itself.
func (s *Selector) Select(ctx context.Context) ([]models.Booking, cutoff.Window, error) {
	w := s.policy.ReportWindow(s.clock.Now())
	r := w.Dates()
	bookings, err := s.store.Find(ctx, &r)
	if err != nil {
		return nil, w, err
	}
	return bookings, w, nil
}
