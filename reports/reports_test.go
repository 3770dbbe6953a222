package reports

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mealbook/clock"
	"mealbook/cutoff"
	"mealbook/models"
	"mealbook/store"
)

var loc = time.FixedZone("IST", 5*3600+1800)

func fixture(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	rows := []struct {
		name, day string
		meal      models.Meal
	}{
		{"Asha", "2024-01-10", models.Lunch},
		{"Ravi", "2024-01-11", models.Breakfast},
		{"Meena", "2024-01-12", models.Lunch},
		{"Kiran", "2024-01-11", models.Lunch},
		{"Old", "2024-01-09", models.Lunch},
		{"Far", "2024-01-13", models.Lunch},
	}
	for _, r := range rows {
		if _, err := m.Insert(context.Background(), &models.Booking{Name: r.name, EmployeeID: "PS1", Department: "Ops", Meal: r.meal, Date: r.day}); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func names(bs []models.Booking) []string {
	var out []string
	for _, b := range bs {
		out = append(out, b.Name)
	}
	return out
}

func TestSelectBeforeCutoffIsToday(t *testing.T) {
	st := fixture(t)
	s := NewSelector(st, cutoff.New(loc), clock.NewManual(time.Date(2024, 1, 10, 11, 0, 0, 0, loc)))

	got, w, err := s.Select(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n := names(got); len(n) != 1 || n[0] != "Asha" {
		t.Fatalf("selected %v, want [Asha]", n)
	}
	if !w.Start.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, loc)) {
		t.Fatalf("window start = %v", w.Start)
	}
}

func TestSelectAfterCutoffIsNextServingDays(t *testing.T) {
	st := fixture(t)
	s := NewSelector(st, cutoff.New(loc), clock.NewManual(time.Date(2024, 1, 10, 15, 0, 0, 0, loc)))

	got, _, err := s.Select(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Ravi", "Meena", "Kiran"}
	n := names(got)
	if len(n) != len(want) {
		t.Fatalf("selected %v, want %v", n, want)
	}
	for i := range want {
		if n[i] != want[i] {
			t.Fatalf("selected %v, want %v (insertion order)", n, want)
		}
	}

	all, _ := st.Find(context.Background(), nil)
	if len(all) != 6 {
		t.Fatalf("Select mutated the store: %d bookings left", len(all))
	}
}

type brokenStore struct{ *store.Memory }

func (brokenStore) Find(context.Context, *models.DateRange) ([]models.Booking, error) {
	return nil, &store.Error{Op: "find", Err: errors.New("timeout")}
}

func TestDownloadReport(t *testing.T) {
	s := NewSelector(fixture(t), cutoff.New(loc), clock.NewManual(time.Date(2024, 1, 10, 15, 0, 0, 0, loc)))

	rec := httptest.NewRecorder()
	s.DownloadReport(rec, httptest.NewRequest(http.MethodGet, "/bookings/download", nil), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=bookings_report.pdf" {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body is not a PDF")
	}
}

func TestDownloadReportStoreError(t *testing.T) {
	s := NewSelector(brokenStore{store.NewMemory()}, cutoff.New(loc), clock.NewManual(time.Date(2024, 1, 10, 15, 0, 0, 0, loc)))

	rec := httptest.NewRecorder()
	s.DownloadReport(rec, httptest.NewRequest(http.MethodGet, "/bookings/download", nil), nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestWritePDFManyRows(t *testing.T) {
	var bs []models.Booking
	for i := 0; i < 80; i++ {
		bs = append(bs, models.Booking{Name: "Zoë Müller", EmployeeID: "PS", Department: "R&D", Meal: models.Lunch, Date: "2024-01-11"})
	}
	p := cutoff.New(loc)
	var buf bytes.Buffer
	if err := WritePDF(&buf, bs, p.ReportWindow(time.Date(2024, 1, 10, 15, 0, 0, 0, loc)), time.Now()); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty PDF")
	}
}
