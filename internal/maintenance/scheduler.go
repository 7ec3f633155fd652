package maintenance

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Onimbus/proz/internal/config"
)

// Store is the database surface the scheduler needs
type Store interface {
	config.SettingsGetter
	QuickCheck() error
	Optimize() error
	Vacuum() error
}

// Config controls scheduled maintenance
type Config struct {
	Enabled  bool
	Schedule string
	Vacuum   bool
}

// DefaultConfig returns the default maintenance configuration
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Schedule: "@daily",
		Vacuum:   false,
	}
}

// LoadConfig reads the maintenance.* settings
func LoadConfig(loader *config.Loader) Config {
	def := DefaultConfig()
	return Config{
		Enabled:  loader.Bool("maintenance.enabled", def.Enabled),
		Schedule: loader.String("maintenance.schedule", def.Schedule),
		Vacuum:   loader.Bool("maintenance.vacuum", def.Vacuum),
	}
}

// Scheduler runs database maintenance on a cron schedule
type Scheduler struct {
	db      Store
	config  Config
	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.Mutex
	running bool
	lastRun *time.Time
}

// New creates a scheduler with configuration loaded from the store settings
func New(db Store) *Scheduler {
	return &Scheduler{
		db:     db,
		config: LoadConfig(config.NewLoader(db)),
		cron:   cron.New(),
	}
}

// Config returns the active configuration
func (s *Scheduler) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetVacuum overrides whether VACUUM runs after PRAGMA optimize
func (s *Scheduler) SetVacuum(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.Vacuum = enabled
}

// Start registers the schedule and starts cron. Returns false when
// maintenance is disabled.
func (s *Scheduler) Start() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return true, nil
	}
	if !s.config.Enabled || s.config.Schedule == "" {
		return false, nil
	}

	id, err := s.cron.AddFunc(s.config.Schedule, s.scheduledRun)
	if err != nil {
		return false, err
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	log.Info().
		Str("schedule", s.config.Schedule).
		Bool("vacuum", s.config.Vacuum).
		Msg("Maintenance scheduler started")
	return true, nil
}

// Stop stops cron and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cron.Remove(s.entryID)
	s.entryID = 0
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Maintenance scheduler stopped")
}

// NextRun returns the next scheduled run, or nil when not scheduled
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID == 0 {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

// LastRun returns when maintenance last completed, or nil
func (s *Scheduler) LastRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// RunOnce checks integrity, runs PRAGMA optimize and, when configured, VACUUM.
// A failed integrity check stops the run before anything is rewritten.
func (s *Scheduler) RunOnce() error {
	s.mu.Lock()
	vacuum := s.config.Vacuum
	s.mu.Unlock()

	start := time.Now()
	if err := s.db.QuickCheck(); err != nil {
		return err
	}
	if err := s.db.Optimize(); err != nil {
		return err
	}
	if vacuum {
		if err := s.db.Vacuum(); err != nil {
			return err
		}
	}

	finished := time.Now()
	s.mu.Lock()
	s.lastRun = &finished
	s.mu.Unlock()

	log.Info().
		Bool("vacuum", vacuum).
		Dur("duration", finished.Sub(start)).
		Msg("Database maintenance complete")
	return nil
}

func (s *Scheduler) scheduledRun() {
	if err := s.RunOnce(); err != nil {
		log.Error().Err(err).Msg("Scheduled database maintenance failed")
	}
}
