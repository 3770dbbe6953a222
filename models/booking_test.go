package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBookingJSONCarriesPSNumber(t *testing.T) {
	b := Booking{ID: "b1", Name: "Asha", EmployeeID: "PS100", Department: "Ops", Meal: Lunch, Date: "2024-01-10", CreatedAt: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["psNumber"] != "PS100" || raw["employeeId"] != "PS100" {
		t.Fatalf("psNumber=%v employeeId=%v", raw["psNumber"], raw["employeeId"])
	}

	var back Booking
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.EmployeeID != b.EmployeeID || back.Date != b.Date || !back.CreatedAt.Equal(b.CreatedAt) {
		t.Fatalf("decoded %+v, want %+v", back, b)
	}
}

func TestParseMeal(t *testing.T) {
	for in, want := range map[string]Meal{"lunch": Lunch, " BREAKFAST ": Breakfast, "Lunch": Lunch} {
		if got, ok := ParseMeal(in); !ok || got != want {
			t.Errorf("ParseMeal(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseMeal("dinner"); ok {
		t.Error("ParseMeal accepted dinner")
	}
}
