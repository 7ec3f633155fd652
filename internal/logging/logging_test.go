package logging

import (
	"path/filepath"
	"testing"

	"github.com/Onimbus/proz/internal/config"
)

type staticSettings map[string]string

func (s staticSettings) GetSetting(key string) (string, error) {
	return s[key], nil
}

func TestFilePathForDB_UsesDatabaseDirectory(t *testing.T) {
	dir := t.TempDir()
	got := FilePathForDB(filepath.Join(dir, "quiz.db"))
	want := filepath.Join(dir, DefaultLogFilePath)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFilePathForDB_EmptyPath(t *testing.T) {
	if got := FilePathForDB(""); got != DefaultLogFilePath {
		t.Fatalf("expected %q, got %q", DefaultLogFilePath, got)
	}
}

func TestLoadFileOptions_FallsBackOnInvalidValues(t *testing.T) {
	loader := config.NewLoader(staticSettings{
		"log.max_size_mb":  "0",
		"log.max_backups":  "-1",
		"log.max_age_days": "7",
		"log.compress":     "false",
	})

	opts := LoadFileOptions(loader)

	if opts.MaxSizeMB != DefaultMaxSizeMB {
		t.Fatalf("expected max size %d, got %d", DefaultMaxSizeMB, opts.MaxSizeMB)
	}
	if opts.MaxBackups != DefaultMaxBackups {
		t.Fatalf("expected max backups %d, got %d", DefaultMaxBackups, opts.MaxBackups)
	}
	if opts.MaxAgeDays != 7 {
		t.Fatalf("expected max age 7, got %d", opts.MaxAgeDays)
	}
	if opts.Compress {
		t.Fatal("expected compress to be disabled")
	}
}

func TestLoadFileOptions_NilLoader(t *testing.T) {
	opts := LoadFileOptions(nil)
	if opts.MaxSizeMB != DefaultMaxSizeMB || opts.MaxBackups != DefaultMaxBackups {
		t.Fatalf("expected defaults, got %+v", opts)
	}
}
