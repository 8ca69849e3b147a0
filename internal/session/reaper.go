package session

import (
	"fmt"
	"log"
	"time"

	rcron "github.com/robfig/cron/v3"
)

// Reaper periodically expires idle sessions. A user who messages right as
// their session is reaped simply restarts at the greeting (last writer wins).
type Reaper struct {
	store    *Store
	timeout  time.Duration
	interval time.Duration
	cron     *rcron.Cron
}

func NewReaper(store *Store, timeout, interval time.Duration) *Reaper {
	return &Reaper{
		store:    store,
		timeout:  timeout,
		interval: interval,
	}
}

func (r *Reaper) Start() error {
	if r.cron != nil {
		return fmt.Errorf("reaper already started")
	}

	c := rcron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", r.interval), func() {
		if n := r.Sweep(time.Now()); n > 0 {
			log.Printf("[reaper] expired %d idle session(s)", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reaper: %w", err)
	}

	r.cron = c
	c.Start()
	log.Printf("[reaper] started, interval=%s timeout=%s", r.interval, r.timeout)
	return nil
}

func (r *Reaper) Stop() {
	if r.cron != nil {
		r.cron.Stop()
		r.cron = nil
		log.Printf("[reaper] stopped")
	}
}

// Sweep removes sessions idle beyond the timeout as of now. Exposed so tests
// can drive time without waiting on the schedule.
func (r *Reaper) Sweep(now time.Time) int {
	return r.store.removeIdle(now, r.timeout)
}
