package scheduler

import (
	"fmt"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// Scheduler runs named jobs on cron schedules. Both five-field expressions
// and the six-field form with seconds are accepted, as are descriptors like
// "@daily".
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID // name -> entry_id
	jobsMux sync.RWMutex
}

// NewScheduler creates a new scheduler
func NewScheduler() *Scheduler {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		jobs: make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	utils.LogInfo("scheduler started", map[string]interface{}{"jobs": len(s.Jobs())})
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	utils.LogInfo("scheduler stopped", nil)
}

// AddJob schedules job under name, replacing any job with the same name
func (s *Scheduler) AddJob(name, schedule string, job func()) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}

	entryID, err := s.cron.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	utils.LogInfo("scheduled job", map[string]interface{}{"job": name, "schedule": schedule})
	return nil
}

// RemoveJob removes a job from the scheduler
func (s *Scheduler) RemoveJob(name string) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		utils.LogInfo("removed scheduled job", map[string]interface{}{"job": name})
	}
}

// Jobs returns the names of all scheduled jobs, sorted
func (s *Scheduler) Jobs() []string {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunNow runs a scheduled job synchronously, outside its schedule
func (s *Scheduler) RunNow(name string) bool {
	s.jobsMux.RLock()
	entryID, exists := s.jobs[name]
	s.jobsMux.RUnlock()
	if !exists {
		return false
	}

	entry := s.cron.Entry(entryID)
	if entry.Job == nil {
		return false
	}
	entry.Job.Run()
	return true
}
