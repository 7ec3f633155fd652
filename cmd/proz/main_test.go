package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	// flags are package globals; reset between runs
	dbPath, gameFile, verbosity = defaultDBPath, "", 0

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("proz %v returned error: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestSeedThenRating(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quiz.db")

	out := runCLI(t, "seed", "--db", db)
	if !strings.Contains(out, "16 questions in 4 levels") {
		t.Fatalf("unexpected seed output %q", out)
	}
	if !strings.Contains(out, "level 2: 4 questions, bonus 20\n") {
		t.Fatalf("expected per-level summary in %q", out)
	}

	out = runCLI(t, "seed", "--db", db)
	if !strings.Contains(out, "16 questions in 4 levels") {
		t.Fatalf("expected re-seed to keep 16 questions, got %q", out)
	}

	if out := runCLI(t, "rating", "--db", db); out != "" {
		t.Fatalf("expected empty rating, got %q", out)
	}
	if out := runCLI(t, "teams", "--db", db); out != "" {
		t.Fatalf("expected no teams, got %q", out)
	}
}

func TestRegisterAndAnswer(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quiz.db")
	runCLI(t, "seed", "--db", db)

	if out := runCLI(t, "register", "7", "Owls", "--db", db); out != "user 7 in team 1\n" {
		t.Fatalf("unexpected register output %q", out)
	}
	if out := runCLI(t, "question", "7", "--db", db); !strings.HasPrefix(out, "#1 (level 1, 5 points): ") {
		t.Fatalf("unexpected question output %q", out)
	}

	if out := runCLI(t, "answer", "7", "Spanish", "--db", db); out != "wrong answer\n" {
		t.Fatalf("unexpected output for wrong answer %q", out)
	}
	out := runCLI(t, "answer", "7", "Portuguese", "--db", db)
	for _, want := range []string{"correct, +5 points", "key: P", "next question: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	if out := runCLI(t, "rating", "--db", db); out != "1. Owls - 5\n" {
		t.Fatalf("unexpected rating %q", out)
	}
}

func TestSettingsList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quiz.db")

	out := runCLI(t, "settings", "--db", db)
	if !strings.Contains(out, "maintenance.schedule=@daily\n") {
		t.Fatalf("expected default schedule in %q", out)
	}
}

func TestMaintainOnce(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quiz.db")
	runCLI(t, "maintain", "--once", "--vacuum", "--db", db)
}

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      string
	}{
		{0, "warn"},
		{1, "debug"},
		{2, "trace"},
		{3, "trace"},
	}
	for _, tt := range tests {
		if got := levelForVerbosity(tt.verbosity, "warn"); got != tt.want {
			t.Fatalf("verbosity %d: expected %q, got %q", tt.verbosity, tt.want, got)
		}
	}
}
