package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealbook/auth"
	"mealbook/booking"
	"mealbook/clock"
	"mealbook/config"
	"mealbook/cutoff"
	"mealbook/db"
	"mealbook/globals"
	"mealbook/mq"
	"mealbook/purge"
	"mealbook/ratelim"
	"mealbook/rdx"
	"mealbook/reports"
	"mealbook/routes"
	"mealbook/store"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		// counts and reports change every few minutes
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

type app struct {
	bookings  *booking.Handler
	selector  *reports.Selector
	scheduler *purge.Scheduler
	auth      *auth.Service
	hub       *booking.Hub
}

func setupRouter(a *app, bookingLimiter, loginLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddBookingRoutes(router, a.bookings, bookingLimiter)
	routes.AddReportRoutes(router, a.selector)
	routes.AddPurgeRoutes(router, a.scheduler)
	routes.AddAuthRoutes(router, a.auth, loginLimiter)
	return router
}

// openStores picks Mongo or the in-process store from STORE.
func openStores(ctx context.Context, cfg config.App) (store.BookingStore, auth.UserStore, error) {
	if cfg.Store == "memory" {
		log.Println("STORE=memory: bookings will not survive a restart")
		return store.NewMemory(), auth.NewMemoryUsers(), nil
	}

	if err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	bookings := store.NewMongo(db.BookingsCollection)
	if err := bookings.EnsureIndexes(ctx); err != nil {
		return nil, nil, err
	}
	users := auth.NewMongoUsers(db.UserCollection)
	if err := users.EnsureIndexes(ctx); err != nil {
		return nil, nil, fmt.Errorf("user indexes: %w", err)
	}
	return bookings, users, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	globals.JwtSecret = []byte(cfg.JWTSecret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bookingStore, userStore, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := rdx.Connect(ctx, cfg.RedisAddr); err != nil {
		log.Fatalf("❌ redis: %v", err)
	}

	clk := clock.System{}
	policy := cutoff.New(cfg.Location)

	authSvc := auth.NewService(userStore, clk)
	if err := authSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("❌ seed admin: %v", err)
	}

	hub := booking.NewHub()
	hub.Listen()
	go mq.StartEventWorker(ctx)

	purgeOpts := []purge.Option{
		purge.WithInterval(cfg.PurgeInterval),
		purge.WithNotify(func(ctx context.Context, w cutoff.Window, n int64) {
			mq.Emit(ctx, mq.Event{Type: mq.BookingsPurged, Date: w.Start.Format("2006-01-02"), Count: n})
		}),
	}
	if rdx.Conn != nil {
		purgeOpts = append(purgeOpts, purge.WithLocker(rdx.NewLock(rdx.Conn)))
	}
	scheduler := purge.New(bookingStore, policy, clk, purgeOpts...)

	a := &app{
		bookings:  booking.NewHandler(booking.NewService(bookingStore, policy, clk), hub),
		selector:  reports.NewSelector(bookingStore, policy, clk),
		scheduler: scheduler,
		auth:      authSvc,
		hub:       hub,
	}

	bookingLimiter := ratelim.NewRateLimiter(30, 10)
	loginLimiter := ratelim.NewRateLimiter(5, 5)
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				bookingLimiter.Cleanup(now)
				loginLimiter.Cleanup(now)
			}
		}
	}()

	router := setupRouter(a, bookingLimiter, loginLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing websocket subscribers...")
		hub.Close()
	})

	scheduler.Start()

	go func() {
		log.Printf("🚀 Server listening on %s (cutoffs in %s)", cfg.Port, cfg.Location)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	cancel()
	db.Disconnect(shutdownCtx)
	rdx.Close()

	log.Println("✅ Server stopped cleanly")
}
