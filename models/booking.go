package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DayLayout is how effective dates are stored. Range queries compare these
// strings lexically, so they must never carry a time component.
const DayLayout = "2006-01-02"

type Meal string

const (
	Breakfast Meal = "Breakfast"
	Lunch     Meal = "Lunch"
)

// ParseMeal accepts any casing and returns the canonical value.
func ParseMeal(s string) (Meal, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return Breakfast, true
	case "lunch":
		return Lunch, true
	}
	return "", false
}

type Booking struct {
	ID         string    `json:"id" bson:"id"`
	Name       string    `json:"name" bson:"name"`
	EmployeeID string    `json:"employeeId" bson:"employeeId"`
	Department string    `json:"department" bson:"department"`
	Meal       Meal      `json:"meal" bson:"meal"`
	Date       string    `json:"date" bson:"date"` // effective date, YYYY-MM-DD
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// MarshalJSON also writes the employee id as psNumber, the key the admin
// page reads it from.
func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	return json.Marshal(struct {
		plain
		PSNumber string `json:"psNumber"`
	}{plain(b), b.EmployeeID})
}

type BookingCounts struct {
	BreakfastCount int `json:"breakfastCount"`
	LunchCount     int `json:"lunchCount"`
}

// DateRange is a half-open [From, To) filter over Booking.Date.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r DateRange) Contains(day string) bool {
	return day >= r.From && day < r.To
}

func (r DateRange) Empty() bool {
	return r.From >= r.To
}
