package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"studyplanner/internal/metrics"
	"studyplanner/internal/models"
)

var (
	// ErrNotFound is returned when an operation references an id absent from the store.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidTask is returned when a task fails validation.
	ErrInvalidTask = errors.New("invalid task")
	// ErrPersistenceUnavailable is returned when the backing store cannot be written.
	// The in-memory change has already been applied when this is returned.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// Persister loads and saves the complete task list. Save always rewrites
// the whole backing store.
type Persister interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error
	Close() error
}

// TaskStore owns task identity and lifecycle. Every mutation is persisted
// in full before the call returns.
type TaskStore struct {
	mu        sync.Mutex
	persister Persister
	tasks     []models.Task
	nextID    int
	logger    *log.Logger
	recorder  *metrics.Recorder
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *TaskStore) { s.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *TaskStore) { s.recorder = r }
}

// New creates an empty task store backed by p.
func New(p Persister, opts ...Option) *TaskStore {
	s := &TaskStore{
		persister: p,
		nextID:    1,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a task store and loads its contents from p.
func Open(ctx context.Context, p Persister, opts ...Option) (*TaskStore, error) {
	s := New(p, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the store contents with what the persister holds and
// resets the id counter past the highest loaded id.
func (s *TaskStore) Load(ctx context.Context) error {
	tasks, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	seen := make(map[int]struct{}, len(tasks))
	maxID := 0
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("failed to load tasks: %w: duplicate task id %d", ErrMalformedRecord, t.ID)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("failed to load tasks: %w: task %d: %v", ErrMalformedRecord, t.ID, err)
		}
		seen[t.ID] = struct{}{}
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.nextID = maxID + 1
	s.recorder.SetTasks(len(s.tasks))
	s.logger.Debug("loaded tasks", "count", len(tasks), "next_id", s.nextID)
	return nil
}

// Close closes the underlying persister.
func (s *TaskStore) Close() error {
	return s.persister.Close()
}

// NextID returns the id the next added task will receive.
func (s *TaskStore) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// Add assigns the next id to task, appends it and persists the store.
// The id is returned even when persisting fails.
func (s *TaskStore) Add(ctx context.Context, task models.Task) (int, error) {
	if err := task.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	s.tasks = append(s.tasks, task)
	return task.ID, s.persist(ctx, "add")
}

// Find returns a copy of the task with the given id.
func (s *TaskStore) Find(id int) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// Update applies patch to the task with the given id and persists the store.
func (s *TaskStore) Update(ctx context.Context, id int, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	updated := s.tasks[i]
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return s.tasks[i], fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}

	s.tasks[i] = updated
	return updated, s.persist(ctx, "update")
}

// Toggle flips the completion flag of the task with the given id and persists the store.
func (s *TaskStore) Toggle(ctx context.Context, id int) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.tasks[i], s.persist(ctx, "toggle")
}

// Remove deletes the task with the given id and persists the store.
// Nothing is written when the id is absent.
func (s *TaskStore) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	return s.persist(ctx, "remove")
}

// ImportSample replaces the store contents with the sample dataset.
// Sample tasks receive fresh ids; earlier ids are not reused.
func (s *TaskStore) ImportSample(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample := SampleTasks()
	s.tasks = make([]models.Task, 0, len(sample))
	for _, t := range sample {
		t.ID = s.nextID
		s.nextID++
		s.tasks = append(s.tasks, t)
	}
	return s.persist(ctx, "import_sample")
}

// Save writes the full store to the persister without changing it.
func (s *TaskStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, "save")
}

// All returns a snapshot of every task in insertion order.
func (s *TaskStore) All() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Incomplete returns a snapshot of the tasks not yet completed.
func (s *TaskStore) Incomplete() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Incomplete(s.tasks)
}

// Len returns the number of tasks in the store.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *TaskStore) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// persist records a mutation and writes the store. It must be called with
// s.mu held.
func (s *TaskStore) persist(ctx context.Context, op string) error {
	s.recorder.Mutation(op)
	s.recorder.SetTasks(len(s.tasks))
	return s.write(ctx, op)
}

// write must be called with s.mu held.
func (s *TaskStore) write(ctx context.Context, op string) error {
	s.recorder.Save()

	snapshot := make([]models.Task, len(s.tasks))
	copy(snapshot, s.tasks)

	if err := s.persister.Save(ctx, snapshot); err != nil {
		s.recorder.PersistFailure()
		s.logger.Error("failed to save tasks", "op", op, "err", err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	return nil
}
