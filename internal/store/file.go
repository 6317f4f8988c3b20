package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"studyplanner/internal/models"
)

// FileStore persists tasks to a flat file, one delimited record per line.
// Save truncates and rewrites the file; a crash mid-write may leave it short.
type FileStore struct {
	path          string
	skipMalformed bool
	logger        *log.Logger
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// SkipMalformed makes Load log and skip undecodable lines, and later lines
// repeating an earlier id, instead of failing.
func SkipMalformed(skip bool) FileOption {
	return func(f *FileStore) { f.skipMalformed = skip }
}

// WithFileLogger sets the logger used to report skipped lines.
func WithFileLogger(l *log.Logger) FileOption {
	return func(f *FileStore) { f.logger = l }
}

// NewFileStore creates a flat-file persister at path.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	f := &FileStore{
		path:   path,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads every record from the file. A missing file yields no tasks.
func (f *FileStore) Load(ctx context.Context) ([]models.Task, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open task file: %w", err)
	}
	defer file.Close()

	var tasks []models.Task
	seen := make(map[int]struct{})
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		task, err := DecodeTask(line)
		if err != nil {
			var mre *MalformedRecordError
			if errors.As(err, &mre) {
				mre.Line = lineNo
			}
			if f.skipMalformed {
				f.logger.Warn("skipping malformed record", "file", f.path, "line", lineNo, "err", err)
				continue
			}
			return nil, err
		}
		if _, dup := seen[task.ID]; dup {
			err := &MalformedRecordError{Line: lineNo, Text: line, Err: fmt.Errorf("duplicate task id %d", task.ID)}
			if f.skipMalformed {
				f.logger.Warn("skipping duplicate record", "file", f.path, "line", lineNo, "id", task.ID)
				continue
			}
			return nil, err
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	return tasks, nil
}

// Save truncates the file and writes every task as one line.
func (f *FileStore) Save(ctx context.Context, tasks []models.Task) error {
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("failed to open task file for writing: %w", err)
	}

	w := bufio.NewWriter(file)
	for _, t := range tasks {
		if _, err := w.WriteString(EncodeTask(t) + "\n"); err != nil {
			file.Close()
			return fmt.Errorf("failed to write task %d: %w", t.ID, err)
		}
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush task file: %w", err)
	}

	return file.Close()
}

// Close is a no-op; the file is only held open during Load and Save.
func (f *FileStore) Close() error {
	return nil
}
