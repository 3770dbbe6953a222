package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mealbook/auth"
	"mealbook/booking"
	"mealbook/clock"
	"mealbook/cutoff"
	"mealbook/globals"
	"mealbook/models"
	"mealbook/purge"
	"mealbook/ratelim"
	"mealbook/reports"
	"mealbook/store"

	"github.com/julienschmidt/httprouter"
)

var loc = time.FixedZone("IST", 5*3600+1800)

type harness struct {
	router *httprouter.Router
	store  *store.Memory
	clock  *clock.Manual
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	globals.JwtSecret = []byte("routes-test")

	st := store.NewMemory()
	clk := clock.NewManual(time.Date(2024, 1, 10, 8, 0, 0, 0, loc))
	policy := cutoff.New(loc)

	// tokens are validated against wall time
	authSvc := auth.NewService(auth.NewMemoryUsers(), clock.System{})
	if err := authSvc.EnsureAdmin(context.Background(), "admin", "pw"); err != nil {
		t.Fatal(err)
	}

	router := httprouter.New()
	AddBookingRoutes(router, booking.NewHandler(booking.NewService(st, policy, clk), booking.NewHub()), ratelim.NewRateLimiter(600, 100))
	AddReportRoutes(router, reports.NewSelector(st, policy, clk))
	AddPurgeRoutes(router, purge.New(st, policy, clk))
	AddAuthRoutes(router, authSvc, ratelim.NewRateLimiter(600, 100))
	return &harness{router: router, store: st, clock: clk}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T) string {
	t.Helper()
	rec := h.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "admin", "password": "pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp["token"]
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h := newHarness(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/bookings"},
		{http.MethodGet, "/bookings/download"},
		{http.MethodGet, "/bookings/report"},
		{http.MethodPost, "/bookings/purge"},
	} {
		if rec := h.do(tc.method, tc.path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	for _, meal := range []string{"Breakfast", "Lunch"} {
		rec := h.do(http.MethodPost, "/bookings", "", map[string]string{
			"name": "Asha", "employeeId": "PS1", "department": "Ops", "meal": meal,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s = %d: %s", meal, rec.Code, rec.Body)
		}
	}

	rec := h.do(http.MethodGet, "/bookings/counts", "", nil)
	var counts models.BookingCounts
	json.Unmarshal(rec.Body.Bytes(), &counts)
	if counts.BreakfastCount != 1 || counts.LunchCount != 1 {
		t.Fatalf("counts = %+v", counts)
	}

	rec = h.do(http.MethodGet, "/bookings/report", token, nil)
	var report struct {
		Bookings []models.Booking `json:"bookings"`
	}
	json.Unmarshal(rec.Body.Bytes(), &report)
	if rec.Code != http.StatusOK || len(report.Bookings) != 2 {
		t.Fatalf("report status=%d bookings=%d", rec.Code, len(report.Bookings))
	}

	rec = h.do(http.MethodPost, "/bookings/purge", token, nil)
	var purged map[string]int64
	json.Unmarshal(rec.Body.Bytes(), &purged)
	if rec.Code != http.StatusOK || purged["deleted"] != 2 {
		t.Fatalf("purge status=%d body=%s", rec.Code, rec.Body)
	}

	rec = h.do(http.MethodGet, "/bookings", token, nil)
	var left []models.Booking
	json.Unmarshal(rec.Body.Bytes(), &left)
	if rec.Code != http.StatusOK || len(left) != 0 {
		t.Fatalf("list after purge status=%d len=%d", rec.Code, len(left))
	}
}

func TestCutoffPreviewRoute(t *testing.T) {
	h := newHarness(t)
	h.clock.Advance(2 * time.Hour) // 10:00

	rec := h.do(http.MethodGet, "/bookings/cutoff?meal=lunch", "", nil)
	var p booking.Preview
	json.Unmarshal(rec.Body.Bytes(), &p)
	if rec.Code != http.StatusOK || p.Date != "2024-01-11" || !p.Rolled {
		t.Fatalf("status=%d preview=%+v", rec.Code, p)
	}
}
