package booking

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mealbook/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
	hub *Hub
}

func NewHandler(svc *Service, hub *Hub) *Handler {
	return &Handler{svc: svc, hub: hub}
}

// POST /bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.Create(ctx, req)
	if err != nil {
		if IsValidation(err) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error saving booking: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit booking")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, b)
}

// GET /bookings
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.svc.List(ctx)
	if err != nil {
		log.Printf("Error fetching bookings: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// GET /bookings/counts
func (h *Handler) GetCounts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	counts, err := h.svc.Counts(ctx)
	if err != nil {
		log.Printf("Error fetching booking counts: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking counts")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, counts)
}

// GET /bookings/cutoff?meal=Lunch&date=2024-01-10
func (h *Handler) GetCutoff(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	p, err := h.svc.Preview(q.Get("meal"), q.Get("date"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// GET /bookings/ws
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.hub.Serve(w, r)
}
