package reports

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"mealbook/utils"

	"github.com/julienschmidt/httprouter"
)

// GET /bookings/download
func (s *Selector) DownloadReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookings, window, err := s.Select(ctx)
	if err != nil {
		log.Printf("Error generating PDF: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, bookings, window, s.clock.Now()); err != nil {
		log.Printf("Error generating PDF: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=bookings_report.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GET /bookings/report returns the same selection as JSON.
func (s *Selector) GetReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bookings, window, err := s.Select(ctx)
	if err != nil {
		log.Printf("Error selecting report bookings: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch report")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"window":   window,
		"dates":    window.Dates(),
		"bookings": bookings,
	})
}
