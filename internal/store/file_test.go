package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"studyplanner/internal/models"
	"studyplanner/internal/planner"
)

func TestEncodeTask(t *testing.T) {
	task := models.Task{ID: 3, Title: "Revise Networking notes", Subject: "Networking", DurationMinutes: 45, Priority: 1, DueDate: "2025-11-19", Completed: true}

	got := EncodeTask(task)
	want := "3|Revise Networking notes|Networking|45|1|2025-11-19|1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDecodeTask(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    models.Task
		wantErr bool
	}{
		{
			name: "complete record",
			line: "1|Read OS: Paging|Operating Systems|60|1|2025-11-20|0",
			want: models.Task{ID: 1, Title: "Read OS: Paging", Subject: "Operating Systems", DurationMinutes: 60, Priority: 1, DueDate: "2025-11-20"},
		},
		{
			name: "empty text fields",
			line: "7|||0|4||1",
			want: models.Task{ID: 7, Priority: 4, Completed: true},
		},
		{
			name:    "too few fields",
			line:    "1|title|subject|60",
			wantErr: true,
		},
		{
			name:    "delimiter inside title shifts fields",
			line:    "1|a|b|subject|60|1|2025-11-20|0",
			wantErr: true,
		},
		{
			name:    "non-numeric id",
			line:    "x|title|subject|60|1|2025-11-20|0",
			wantErr: true,
		},
		{
			name:    "non-numeric duration",
			line:    "1|title|subject|sixty|1|2025-11-20|0",
			wantErr: true,
		},
		{
			name:    "non-numeric priority",
			line:    "1|title|subject|60|high|2025-11-20|0",
			wantErr: true,
		},
		{
			name:    "negative duration",
			line:    "1|neg|s|-500|1||0",
			wantErr: true,
		},
		{
			name:    "unknown completed flag",
			line:    "1|title|subject|60|1|2025-11-20|yes",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTask(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, ErrMalformedRecord) {
					t.Errorf("expected ErrMalformedRecord, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	ctx := context.Background()

	tasks := []models.Task{
		{ID: 1, Title: "Read OS: Paging", Subject: "Operating Systems", DurationMinutes: 60, Priority: 1, DueDate: "2025-11-20"},
		{ID: 5, Title: "", Subject: "", DurationMinutes: 0, Priority: -2, DueDate: "", Completed: true},
		{ID: 9, Title: "Ünïcode title", Subject: "Lang", DurationMinutes: 15, Priority: 10, DueDate: "2026-01-01"},
	}

	fs := NewFileStore(path)
	if err := fs.Save(ctx, tasks); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(tasks) {
		t.Fatalf("expected %d tasks, got %d", len(tasks), len(got))
	}
	for i := range tasks {
		if got[i] != tasks[i] {
			t.Errorf("task %d: expected %+v, got %+v", i, tasks[i], got[i])
		}
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "missing.db"))

	tasks, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}
}

func TestFileStore_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	content := "\n1|a|s|10|1||0\n\n2|b|s|20|2||1\n\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tasks, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[1].ID != 2 || !tasks[1].Completed {
		t.Errorf("unexpected second task: %+v", tasks[1])
	}
}

func TestFileStore_MalformedLineAbortsByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	content := "1|a|s|10|1||0\n2|b|s|ten|2||0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := NewFileStore(path).Load(context.Background())
	var mre *MalformedRecordError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if mre.Line != 2 {
		t.Errorf("expected line 2, got %d", mre.Line)
	}
}

func TestFileStore_SkipMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	content := "1|a|s|10|1||0\nbroken line\n3|c|s|30|3||0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	var buf bytes.Buffer
	logger := log.New(&buf)

	tasks, err := NewFileStore(path, SkipMalformed(true), WithFileLogger(logger)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 3 {
		t.Errorf("expected tasks 1 and 3, got %+v", tasks)
	}
	if !strings.Contains(buf.String(), "skipping malformed record") {
		t.Errorf("expected warning to be logged, got %q", buf.String())
	}
}

func TestFileStore_NegativeDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	content := "1|neg|s|-500|1||0\n2|big|s|400|2||0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := Open(context.Background(), NewFileStore(path))
	var mre *MalformedRecordError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if mre.Line != 1 {
		t.Errorf("expected line 1, got %d", mre.Line)
	}

	s, err := Open(context.Background(), NewFileStore(path, SkipMalformed(true), WithFileLogger(log.New(io.Discard))))
	if err != nil {
		t.Fatalf("Open with skip failed: %v", err)
	}

	plan := planner.Generate(s.All(), 100)
	if plan.Outcome != planner.OutcomeNothingFits {
		t.Errorf("expected nothing_fits, got %s", plan.Outcome)
	}
	if plan.TimeLeft != 100 {
		t.Errorf("expected 100 minutes left, got %d", plan.TimeLeft)
	}
}

func TestFileStore_DuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	content := "1|first|s|10|1||0\n1|second|s|20|1||0\n2|other|s|30|2||0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := NewFileStore(path).Load(context.Background())
	var mre *MalformedRecordError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if mre.Line != 2 {
		t.Errorf("expected line 2, got %d", mre.Line)
	}

	var buf bytes.Buffer
	tasks, err := NewFileStore(path, SkipMalformed(true), WithFileLogger(log.New(&buf))).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "first" || tasks[1].ID != 2 {
		t.Errorf("expected first and other, got %+v", tasks)
	}
	if !strings.Contains(buf.String(), "skipping duplicate record") {
		t.Errorf("expected warning to be logged, got %q", buf.String())
	}
}

func TestFileStore_SaveRewritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	ctx := context.Background()
	fs := NewFileStore(path)

	fs.Save(ctx, []models.Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}})
	fs.Save(ctx, []models.Task{{ID: 2, Title: "b"}})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != "2|b||0|0||0\n" {
		t.Errorf("unexpected file content %q", string(data))
	}
}

func TestFileStore_SaveUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "tasks.db")

	err := NewFileStore(path).Save(context.Background(), []models.Task{{ID: 1}})
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestTaskStore_WithFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	ctx := context.Background()

	s, err := Open(ctx, NewFileStore(path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.ImportSample(ctx); err != nil {
		t.Fatalf("ImportSample failed: %v", err)
	}
	if _, err := s.Toggle(ctx, 2); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	reopened, err := Open(ctx, NewFileStore(path))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	want := s.All()
	got := reopened.All()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if reopened.NextID() != 5 {
		t.Errorf("expected next id 5, got %d", reopened.NextID())
	}
}

func TestTaskStore_PersistenceUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "tasks.db")
	s := New(NewFileStore(path))

	_, err := s.Add(context.Background(), models.Task{Title: "a"})
	if !errors.Is(err, ErrPersistenceUnavailable) {
		t.Fatalf("expected ErrPersistenceUnavailable, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected in-memory task to remain, got %d", s.Len())
	}
}
