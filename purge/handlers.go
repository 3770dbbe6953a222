package purge

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"mealbook/utils"

	"github.com/julienschmidt/httprouter"
)

// POST /bookings/purge runs a purge now instead of waiting for the next tick.
func (s *Scheduler) TriggerPurge(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	deleted, err := s.RunOnce(ctx)
	if errors.Is(err, ErrBusy) {
		utils.RespondWithError(w, http.StatusConflict, "A purge is already running")
		return
	}
	if err != nil {
		log.Printf("Error deleting bookings: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to purge bookings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
