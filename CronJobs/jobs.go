package CronJobs

import (
	"log"
	"time"

	"VisitReport/Models"

	"github.com/robfig/cron/v3"
)

// SessionSweeper clears abandoned work sessions. A tab that never reaches
// visit closure leaves its session behind; nothing else deletes it.
type SessionSweeper struct {
	cronScheduler  *cron.Cron
	maxAge         time.Duration
	runImmediately bool
	jobID          cron.EntryID
}

// NewSessionSweeper creates a sweeper removing sessions older than maxAge.
func NewSessionSweeper(maxAge time.Duration, runImmediately bool) *SessionSweeper {
	return &SessionSweeper{
		cronScheduler:  cron.New(),
		maxAge:         maxAge,
		runImmediately: runImmediately,
	}
}

// Start schedules the nightly sweep.
func (s *SessionSweeper) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("30 2 * * *", func() {
		log.Println("Running scheduled work-session sweep")
		s.sweep()
	})
	if err != nil {
		return err
	}

	s.cronScheduler.Start()

	if s.runImmediately {
		go s.sweep()
	}

	return nil
}

// Stop halts the scheduler.
func (s *SessionSweeper) Stop() {
	s.cronScheduler.Stop()
}

func (s *SessionSweeper) sweep() {
	removed, err := Models.CleanupStaleSessions(s.maxAge)
	if err != nil {
		log.Println("Session sweep failed:", err)
		return
	}
	if removed > 0 {
		log.Printf("Session sweep removed %d stale sessions", removed)
	}
}
