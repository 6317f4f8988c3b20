package models

import (
	"errors"
	"strings"
)

// FieldDelimiter separates fields in a persisted task record.
const FieldDelimiter = "|"

// Task represents a single unit of study work.
type Task struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
	Priority        int    `json:"priority"` // 1 = highest
	DueDate         string `json:"due_date"` // YYYY-MM-DD or empty
	Completed       bool   `json:"completed"`
}

// TaskPatch holds optional field changes for an existing task.
// A nil field leaves the current value untouched.
type TaskPatch struct {
	Title           *string `json:"title,omitempty"`
	Subject         *string `json:"subject,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Priority        *int    `json:"priority,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if t.DurationMinutes < 0 {
		return errors.New("duration must not be negative")
	}

	for _, field := range []string{t.Title, t.Subject, t.DueDate} {
		if strings.Contains(field, FieldDelimiter) {
			return errors.New("text fields must not contain '|'")
		}
		if strings.ContainsAny(field, "\r\n") {
			return errors.New("text fields must not contain line breaks")
		}
	}

	return nil
}

// Apply writes the non-nil patch fields onto the task. The ID is never changed.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.DurationMinutes != nil {
		t.DurationMinutes = *p.DurationMinutes
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Subject == nil && p.DurationMinutes == nil &&
		p.Priority == nil && p.DueDate == nil
}
