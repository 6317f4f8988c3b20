package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studyplanner/internal/planner"
)

func setupTestConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "studyplanner.toml")
	body := "backend = \"" + backend + "\"\n" +
		"data_file = \"" + filepath.ToSlash(filepath.Join(dir, "tasks.db")) + "\"\n" +
		"sqlite_path = \"" + filepath.ToSlash(filepath.Join(dir, "data", "tasks.sqlite")) + "\"\n" +
		"log_level = \"error\"\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands_ImportListPlan(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := setupTestConfig(t, backend)

			out, err := execute(t, "", "--config", cfg, "import-sample")
			if err != nil {
				t.Fatalf("import-sample failed: %v", err)
			}
			if !strings.Contains(out, "Sample data imported.") {
				t.Errorf("expected import confirmation, got %q", out)
			}

			out, err = execute(t, "", "--config", cfg, "list")
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(lines) != 4 {
				t.Fatalf("expected 4 tasks, got %d: %q", len(lines), out)
			}
			if !strings.Contains(lines[0], "ID:3 | Revise Networking notes") {
				t.Errorf("expected networking task first, got %q", lines[0])
			}

			out, err = execute(t, "", "--config", cfg, "plan", "--minutes", "100", "--json")
			if err != nil {
				t.Fatalf("plan failed: %v", err)
			}
			var plan planner.Plan
			if err := json.Unmarshal([]byte(out), &plan); err != nil {
				t.Fatalf("failed to decode plan: %v", err)
			}
			if plan.Outcome != planner.OutcomeScheduled || plan.TotalMinutes != 45 || plan.TimeLeft != 55 {
				t.Errorf("unexpected plan: %+v", plan)
			}
		})
	}
}

func TestCommands_MenuIsDefault(t *testing.T) {
	cfg := setupTestConfig(t, "file")

	out, err := execute(t, "8\n2\n0\n", "--config", cfg)
	if err != nil {
		t.Fatalf("menu failed: %v", err)
	}
	if !strings.Contains(out, "Study Planner Menu") || !strings.Contains(out, "Goodbye!") {
		t.Errorf("expected menu session, got %q", out)
	}
	if !strings.Contains(out, "[ ] ID:4 | Implement C++ assignment") {
		t.Errorf("expected sample listing, got %q", out)
	}
}

func TestCommands_PlanRequiresMinutes(t *testing.T) {
	cfg := setupTestConfig(t, "file")

	if _, err := execute(t, "", "--config", cfg, "plan"); err == nil {
		t.Error("expected error without --minutes")
	}
}

func TestCommands_InvalidBackend(t *testing.T) {
	cfg := setupTestConfig(t, "file")

	if _, err := execute(t, "", "--config", cfg, "--backend", "postgres", "list"); err == nil {
		t.Error("expected error for unknown backend")
	}
}
