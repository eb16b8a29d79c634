// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
)

const (
	sweepSchedule = "0 * * * * *"
	warmSchedule  = "0 */15 * * * *"
	jobTimeout    = 30 * time.Second
)

// StorySweeper is the story side of the jobs.
type StorySweeper interface {
	SweepPublished(ctx context.Context, from, to time.Time) (int64, error)
	FlushViews(ctx context.Context) error
}

// MeetingWarmer refreshes the cached meetings listing.
type MeetingWarmer interface {
	Warm(ctx context.Context) int
}

// Manager owns the cron instance and the sweep window.
type Manager struct {
	cron     *cron.Cron
	stories  StorySweeper
	meetings MeetingWarmer
	now      func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

func NewManager(stories StorySweeper, meetings MeetingWarmer, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		cron:      cron.New(cron.WithSeconds()),
		stories:   stories,
		meetings:  meetings,
		now:       now,
		lastSweep: now(),
	}
}

// Start registers the jobs and starts the scheduler.
func (m *Manager) Start() error {
	if _, err := m.cron.AddFunc(sweepSchedule, func() { m.run("publication_sweep", m.SweepPublication) }); err != nil {
		return err
	}
	if m.meetings != nil {
		if _, err := m.cron.AddFunc(warmSchedule, func() { m.run("meetings_warm", m.WarmMeetings) }); err != nil {
			return err
		}
	}
	m.cron.Start()
	log.Infof("[Scheduler] started with %d job(s)", len(m.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
	log.Info("[Scheduler] stopped")
}

func (m *Manager) run(name string, job func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	started := time.Now()
	if err := job(ctx); err != nil {
		log.Errorf("[Scheduler] %s failed after %s: %v", name, time.Since(started), err)
	}
}

// SweepPublication evicts story lists when a scheduled story went live since
// the previous sweep, then writes buffered view counts.
func (m *Manager) SweepPublication(ctx context.Context) error {
	m.mu.Lock()
	from := m.lastSweep
	to := m.now()
	m.mu.Unlock()

	n, err := m.stories.SweepPublished(ctx, from, to)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Infof("[Scheduler] %d story(ies) went live, story lists evicted", n)
	}

	m.mu.Lock()
	m.lastSweep = to
	m.mu.Unlock()

	return m.stories.FlushViews(ctx)
}

func (m *Manager) WarmMeetings(ctx context.Context) error {
	n := m.meetings.Warm(ctx)
	log.Infof("[Scheduler] meetings cache warmed with %d meeting(s)", n)
	return nil
}
