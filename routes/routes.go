package routes

import (
	"mealbook/auth"
	"mealbook/booking"
	"mealbook/middleware"
	"mealbook/purge"
	"mealbook/ratelim"
	"mealbook/reports"

	"github.com/julienschmidt/httprouter"
)

func AddBookingRoutes(router *httprouter.Router, h *booking.Handler, rl *ratelim.RateLimiter) {
	router.POST("/bookings", rl.Limit(h.CreateBooking))
	router.GET("/bookings", middleware.RequireAdmin(h.ListBookings))
	router.GET("/bookings/counts", h.GetCounts)
	router.GET("/bookings/cutoff", h.GetCutoff)
	router.GET("/bookings/ws", h.HandleWS)
}

func AddReportRoutes(router *httprouter.Router, s *reports.Selector) {
	router.GET("/bookings/download", middleware.RequireAdmin(s.DownloadReport))
	router.GET("/bookings/report", middleware.RequireAdmin(s.GetReport))
}

func AddPurgeRoutes(router *httprouter.Router, s *purge.Scheduler) {
	router.POST("/bookings/purge", middleware.RequireAdmin(s.TriggerPurge))
}

func AddAuthRoutes(router *httprouter.Router, a *auth.Service, rl *ratelim.RateLimiter) {
	router.POST("/auth/login", rl.Limit(a.LoginHandler))
}
