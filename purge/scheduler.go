package purge

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"mealbook/clock"
	"mealbook/cutoff"
	"mealbook/store"
)

const (
	DefaultInterval = time.Hour
	lockKey         = "purge:lock"
)

// ErrBusy is returned by RunOnce when another purge is still in flight,
// here or (with a Locker) on another replica.
var ErrBusy = errors.New("purge already running")

// Locker is a cross-process mutex, see rdx.Lock.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithLocker(l Locker) Option {
	return func(s *Scheduler) { s.locker = l }
}

// WithNotify is called after every successful run that deleted something.
func WithNotify(fn func(ctx context.Context, r cutoff.Window, deleted int64)) Option {
	return func(s *Scheduler) { s.notify = fn }
}

// Scheduler deletes the bookings inside cutoff.PurgeWindow on a fixed
// interval. At most one run is ever in flight.
type Scheduler struct {
	store    store.BookingStore
	policy   cutoff.Policy
	clock    clock.Clock
	interval time.Duration
	locker   Locker
	notify   func(ctx context.Context, r cutoff.Window, deleted int64)

	running atomic.Bool

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func New(st store.BookingStore, policy cutoff.Policy, clk clock.Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    st,
		policy:   policy,
		clock:    clk,
		interval: DefaultInterval,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins ticking. Calling it on a started scheduler does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.clock.NewTicker(s.interval), s.stop, s.done)
	log.Printf("[purge] scheduler started, every %v", s.interval)
}

// Stop halts ticking and waits for the loop to exit. A run already in
// progress is allowed to finish first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	log.Println("[purge] scheduler stopped")
}

func (s *Scheduler) loop(t clock.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.Chan():
			s.tick()
		}
	}
}

// tick never lets an error escape; the next tick is the retry.
func (s *Scheduler) tick() {
	_, err := s.RunOnce(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, ErrBusy):
		log.Println("[purge] previous run still in flight, skipping tick")
	default:
		log.Printf("[purge] run failed, retrying next tick: %v", err)
	}
}

// RunOnce performs a single purge and returns how many bookings it removed.
// notify runs after the in-flight guard and lock are released.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	window, deleted, err := s.purge(ctx)
	if err != nil {
		return 0, err
	}
	if deleted > 0 && s.notify != nil {
		s.notify(ctx, window, deleted)
	}
	return deleted, nil
}

func (s *Scheduler) purge(ctx context.Context) (cutoff.Window, int64, error) {
	if !s.running.CompareAndSwap(false, true) {
		return cutoff.Window{}, 0, ErrBusy
	}
	defer s.running.Store(false)

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, lockKey, s.interval)
		if err != nil {
			return cutoff.Window{}, 0, err
		}
		if !ok {
			return cutoff.Window{}, 0, ErrBusy
		}
		defer release()
	}

	window := s.policy.PurgeWindow(s.clock.Now())
	deleted, err := s.store.DeleteMany(ctx, window.Dates())
	if err != nil {
		return window, 0, err
	}
	log.Printf("[purge] removed %d booking(s) dated %s..%s", deleted, window.Start.Format("2006-01-02 15:04"), window.End.Format("15:04"))
	return window, deleted, nil
}
