package maintenance

import (
	"errors"
	"testing"
)

type fakeStore struct {
	settings  map[string]string
	checked   int
	optimized int
	vacuumed  int
	checkErr  error
	err       error
}

func (f *fakeStore) GetSetting(key string) (string, error) {
	return f.settings[key], nil
}

func (f *fakeStore) QuickCheck() error {
	if f.checkErr != nil {
		return f.checkErr
	}
	f.checked++
	return nil
}

func (f *fakeStore) Optimize() error {
	if f.err != nil {
		return f.err
	}
	f.optimized++
	return nil
}

func (f *fakeStore) Vacuum() error {
	f.vacuumed++
	return nil
}

func TestNew_LoadsConfigFromSettings(t *testing.T) {
	store := &fakeStore{settings: map[string]string{
		"maintenance.enabled":  "true",
		"maintenance.schedule": "@hourly",
		"maintenance.vacuum":   "true",
	}}

	cfg := New(store).Config()

	if !cfg.Enabled || cfg.Schedule != "@hourly" || !cfg.Vacuum {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestNew_DefaultsWhenSettingsMissing(t *testing.T) {
	cfg := New(&fakeStore{}).Config()
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestRunOnce_VacuumOnlyWhenEnabled(t *testing.T) {
	store := &fakeStore{}
	s := New(store)

	if err := s.RunOnce(); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if store.checked != 1 || store.optimized != 1 || store.vacuumed != 0 {
		t.Fatalf("expected 1 optimize and 0 vacuum, got %d/%d", store.optimized, store.vacuumed)
	}
	if s.LastRun() == nil {
		t.Fatal("expected last run to be recorded")
	}

	s.SetVacuum(true)
	if err := s.RunOnce(); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if store.optimized != 2 || store.vacuumed != 1 {
		t.Fatalf("expected 2 optimize and 1 vacuum, got %d/%d", store.optimized, store.vacuumed)
	}
}

func TestRunOnce_PropagatesOptimizeError(t *testing.T) {
	want := errors.New("disk full")
	s := New(&fakeStore{err: want})

	if err := s.RunOnce(); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if s.LastRun() != nil {
		t.Fatal("expected no last run after failure")
	}
}

func TestRunOnce_StopsOnFailedCheck(t *testing.T) {
	store := &fakeStore{checkErr: errors.New("malformed page")}
	s := New(store)
	s.SetVacuum(true)

	if err := s.RunOnce(); err == nil {
		t.Fatal("expected integrity error")
	}
	if store.optimized != 0 || store.vacuumed != 0 {
		t.Fatalf("expected nothing to run after failed check, got %d/%d", store.optimized, store.vacuumed)
	}
}

func TestStart_SchedulesAndStops(t *testing.T) {
	s := New(&fakeStore{})

	started, err := s.Start()
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !started {
		t.Fatal("expected scheduler to start")
	}
	if s.NextRun() == nil {
		t.Fatal("expected a next run time")
	}

	s.Stop()
	if s.NextRun() != nil {
		t.Fatal("expected no next run after stop")
	}
}

func TestStart_DisabledDoesNotSchedule(t *testing.T) {
	s := New(&fakeStore{settings: map[string]string{"maintenance.enabled": "false"}})

	started, err := s.Start()
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if started {
		t.Fatal("expected scheduler not to start when disabled")
	}
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	s := New(&fakeStore{settings: map[string]string{"maintenance.schedule": "not a schedule"}})

	if _, err := s.Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
