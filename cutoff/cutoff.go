// Package cutoff holds the only copy of the booking and retention cutoff
// arithmetic. Booking creation, the report download and the purge job all
// call into it; nothing else should compute "which day" on its own.
package cutoff

import (
	"time"

	"mealbook/models"
)

const (
	// Lunch requests submitted after this point roll to the next day.
	DefaultLunchCutoff = 9*time.Hour + 30*time.Minute
	// Retention and report windows turn over at this point.
	DefaultPurgeCutoff = 14 * time.Hour
)

// Policy evaluates cutoffs in a fixed location. The zero value uses
// time.Local and the default cutoffs.
type Policy struct {
	Location    *time.Location
	LunchCutoff time.Duration
	PurgeCutoff time.Duration
}

var Default = Policy{}

func New(loc *time.Location) Policy {
	return Policy{
		Location:    loc,
		LunchCutoff: DefaultLunchCutoff,
		PurgeCutoff: DefaultPurgeCutoff,
	}
}

func (p Policy) loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p Policy) lunchCutoff() time.Duration {
	if p.LunchCutoff <= 0 {
		return DefaultLunchCutoff
	}
	return p.LunchCutoff
}

func (p Policy) purgeCutoff() time.Duration {
	if p.PurgeCutoff <= 0 {
		return DefaultPurgeCutoff
	}
	return p.PurgeCutoff
}

// Midnight returns 00:00 of t's calendar day in the policy location.
func (p Policy) Midnight(t time.Time) time.Time {
	y, m, d := t.In(p.loc()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.loc())
}

// at builds the wall-clock time `offset` into day. Built from components so
// DST days still land on e.g. 09:30 rather than midnight+9.5h.
func (p Policy) at(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	h := int(offset / time.Hour)
	min := int(offset % time.Hour / time.Minute)
	sec := int(offset % time.Minute / time.Second)
	return time.Date(y, m, d, h, min, sec, 0, p.loc())
}

// EffectiveDate returns the midnight of the day a booking is served on.
// requested defaults to today. Only Lunch rolls over: if now is strictly
// after 09:30 of the requested day the booking moves to the following day.
func (p Policy) EffectiveDate(now time.Time, meal models.Meal, requested *time.Time) time.Time {
	day := p.Midnight(now)
	if requested != nil {
		day = p.Midnight(*requested)
	}
	if meal == models.Lunch && now.After(p.at(day, p.lunchCutoff())) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// EffectiveDay is EffectiveDate formatted for storage.
func (p Policy) EffectiveDay(now time.Time, meal models.Meal, requested *time.Time) string {
	return p.EffectiveDate(now, meal, requested).Format(models.DayLayout)
}

// PurgeWindow is [today 00:00, today 14:00) regardless of now's time of
// day. The purge job deletes every booking dated inside it.
//
// NOTE: this removes same-day bookings, including ones not yet served if the
// job ticks before 14:00. It mirrors the behaviour the service has always
// had; see DESIGN.md before changing it.
func (p Policy) PurgeWindow(now time.Time) Window {
	today := p.Midnight(now)
	return Window{Start: today, End: p.at(today, p.purgeCutoff())}
}

// ReportWindow selects the bookings still pending service. Before 14:00 it
// is today [00:00, 14:00); from 14:00 on it is [tomorrow 00:00, day after
// tomorrow 14:00). The two never overlap on the same day.
func (p Policy) ReportWindow(now time.Time) Window {
	today := p.Midnight(now)
	if now.Before(p.at(today, p.purgeCutoff())) {
		return Window{Start: today, End: p.at(today, p.purgeCutoff())}
	}
	tomorrow := today.AddDate(0, 0, 1)
	return Window{Start: tomorrow, End: p.at(tomorrow.AddDate(0, 0, 1), p.purgeCutoff())}
}

// ParseDay parses a stored YYYY-MM-DD into its midnight in the policy location.
func (p Policy) ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(models.DayLayout, day, p.loc())
}
