package store

import (
	"context"
	"sync"

	"mealbook/models"

	"github.com/google/uuid"
)

// Memory is a process-local BookingStore. Used when STORE=memory and by
// tests across the module.
type Memory struct {
	mu       sync.RWMutex
	bookings []models.Booking
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Insert(ctx context.Context, b *models.Booking) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap("insert", err)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	m.mu.Lock()
	m.bookings = append(m.bookings, *b)
	m.mu.Unlock()
	return b.ID, nil
}

func (m *Memory) Find(ctx context.Context, r *models.DateRange) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("find", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range m.bookings {
		if r == nil || r.Contains(b.Date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *Memory) DeleteMany(ctx context.Context, r models.DateRange) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrap("delete", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.bookings[:0]
	var deleted int64
	for _, b := range m.bookings {
		if r.Contains(b.Date) {
			deleted++
			continue
		}
		kept = append(kept, b)
	}
	m.bookings = kept
	return deleted, nil
}
