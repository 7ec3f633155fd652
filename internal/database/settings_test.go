package database

import (
	"testing"

	"github.com/Onimbus/proz/internal/config"
)

func TestInitializeDefaults_DoesNotOverwrite(t *testing.T) {
	db := newTestDB(t)

	if err := db.SetSetting("maintenance.schedule", "@hourly"); err != nil {
		t.Fatalf("SetSetting returned error: %v", err)
	}
	if err := db.InitializeDefaults(); err != nil {
		t.Fatalf("InitializeDefaults returned error: %v", err)
	}

	loader := config.NewLoader(db)
	if got := loader.String("maintenance.schedule", ""); got != "@hourly" {
		t.Fatalf("expected existing schedule to be kept, got %q", got)
	}
	if got := loader.Int("log.max_backups", -1); got != 5 {
		t.Fatalf("expected default max backups 5, got %d", got)
	}
	if !loader.Bool("maintenance.enabled", false) {
		t.Fatal("expected maintenance to be enabled by default")
	}

	all, err := db.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings returned error: %v", err)
	}
	if len(all) != len(DefaultSettings) {
		t.Fatalf("expected %d settings, got %d", len(DefaultSettings), len(all))
	}
}

func TestMigrate_IsRepeatable(t *testing.T) {
	db := newTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate returned error: %v", err)
	}
	if err := db.CreateQuestionsTables(); err != nil {
		t.Fatalf("CreateQuestionsTables returned error: %v", err)
	}
	if err := db.CreateUsersTable(); err != nil {
		t.Fatalf("CreateUsersTable returned error: %v", err)
	}
	if err := db.QuickCheck(); err != nil {
		t.Fatalf("QuickCheck returned error: %v", err)
	}
	if err := db.Optimize(); err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
}
