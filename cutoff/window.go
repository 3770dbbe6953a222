package cutoff

import (
	"time"

	"mealbook/models"
)

// Window is a half-open [Start, End) interval. It only lives for the
// duration of a purge or report call.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Last is the final whole second inside the window (13:59:59 for the
// report and purge windows).
func (w Window) Last() time.Time {
	return w.End.Add(-time.Second)
}

// Dates converts the window into the date filter the store understands:
// every day whose midnight falls inside the window.
func (w Window) Dates() models.DateRange {
	return models.DateRange{
		From: ceilDay(w.Start).Format(models.DayLayout),
		To:   ceilDay(w.End).Format(models.DayLayout),
	}
}

// ceilDay is the first midnight at or after t, in t's location.
func ceilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	mid := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	if mid.Equal(t) {
		return mid
	}
	return mid.AddDate(0, 0, 1)
}
