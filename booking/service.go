package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mealbook/clock"
	"mealbook/cutoff"
	"mealbook/models"
	"mealbook/mq"
	"mealbook/store"

	"github.com/google/uuid"
)

// ValidationError rejects a request before it reaches the cutoff policy.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Request is the booking form. psNumber is the name the original form used
// for the employee id and is still accepted.
type Request struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
	PSNumber   string `json:"psNumber"`
	Department string `json:"department"`
	Meal       string `json:"meal"`
	Date       string `json:"date,omitempty"`
}

type Service struct {
	store  store.BookingStore
	policy cutoff.Policy
	clock  clock.Clock
	emit   func(ctx context.Context, evt mq.Event)
}

func NewService(st store.BookingStore, policy cutoff.Policy, clk clock.Clock) *Service {
	return &Service{store: st, policy: policy, clock: clk, emit: mq.Emit}
}

type validated struct {
	name, employeeID, department string
	meal                         models.Meal
	requested                    *time.Time
}

func (s *Service) validate(req Request) (validated, error) {
	v := validated{
		name:       strings.TrimSpace(req.Name),
		employeeID: strings.TrimSpace(req.EmployeeID),
		department: strings.TrimSpace(req.Department),
	}
	if v.employeeID == "" {
		v.employeeID = strings.TrimSpace(req.PSNumber)
	}

	if v.name == "" {
		return v, &ValidationError{Field: "name", Reason: "is required"}
	}
	if v.employeeID == "" {
		return v, &ValidationError{Field: "employeeId", Reason: "is required"}
	}
	if v.department == "" {
		return v, &ValidationError{Field: "department", Reason: "is required"}
	}

	meal, ok := models.ParseMeal(req.Meal)
	if !ok {
		return v, &ValidationError{Field: "meal", Reason: fmt.Sprintf("must be %s or %s", models.Breakfast, models.Lunch)}
	}
	v.meal = meal

	req.Date = strings.TrimSpace(req.Date)
	if req.Date != "" {
		d, err := s.parseDate(req.Date)
		if err != nil {
			return v, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD or RFC3339"}
		}
		v.requested = &d
	}
	return v, nil
}

// parseDate accepts a plain day or a full timestamp; only its calendar day
// in the policy location matters.
func (s *Service) parseDate(raw string) (time.Time, error) {
	if d, err := s.policy.ParseDay(raw); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// Create validates req, resolves its effective date and stores it.
func (s *Service) Create(ctx context.Context, req Request) (*models.Booking, error) {
	v, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	b := &models.Booking{
		ID:         uuid.NewString(),
		Name:       v.name,
		EmployeeID: v.employeeID,
		Department: v.department,
		Meal:       v.meal,
		Date:       s.policy.EffectiveDay(now, v.meal, v.requested),
		CreatedAt:  now,
	}
	if _, err := s.store.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	s.emit(ctx, mq.Event{Type: mq.BookingCreated, Date: b.Date, Count: 1, At: now})
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]models.Booking, error) {
	return s.store.Find(ctx, nil)
}

// Counts tallies every stored booking by meal.
func (s *Service) Counts(ctx context.Context) (models.BookingCounts, error) {
	var c models.BookingCounts
	bookings, err := s.store.Find(ctx, nil)
	if err != nil {
		return c, err
	}
	for _, b := range bookings {
		switch b.Meal {
		case models.Breakfast:
			c.BreakfastCount++
		case models.Lunch:
			c.LunchCount++
		}
	}
	return c, nil
}

type Preview struct {
	Meal   models.Meal `json:"meal"`
	Date   string      `json:"date"`
	Rolled bool        `json:"rolled"`
}

// Preview reports which day a booking submitted right now would land on,
// so the form never has to repeat the cutoff rule.
func (s *Service) Preview(mealRaw, dateRaw string) (Preview, error) {
	meal, ok := models.ParseMeal(mealRaw)
	if !ok {
		return Preview{}, &ValidationError{Field: "meal", Reason: fmt.Sprintf("must be %s or %s", models.Breakfast, models.Lunch)}
	}
	now := s.clock.Now()

	var requested *time.Time
	base := s.policy.Midnight(now)
	if dateRaw = strings.TrimSpace(dateRaw); dateRaw != "" {
		d, err := s.parseDate(dateRaw)
		if err != nil {
			return Preview{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD or RFC3339"}
		}
		requested = &d
		base = s.policy.Midnight(d)
	}

	eff := s.policy.EffectiveDate(now, meal, requested)
	return Preview{Meal: meal, Date: eff.Format(models.DayLayout), Rolled: !eff.Equal(base)}, nil
}

// IsValidation reports whether err should be shown to the caller as a 400.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
