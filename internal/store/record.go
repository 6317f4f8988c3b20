package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"studyplanner/internal/models"
)

// recordFields is the number of delimited fields in a persisted task line.
const recordFields = 7

// ErrMalformedRecord is the sentinel wrapped by MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a persisted line that could not be decoded.
type MalformedRecordError struct {
	Line int    // 1-based line number, 0 when unknown
	Text string // raw line
	Err  error  // underlying cause
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed record: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Is reports ErrMalformedRecord as a match.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// EncodeTask renders a task as id|title|subject|duration|priority|due|flag.
// Text fields are written unescaped; a '|' inside them corrupts the line.
func EncodeTask(t models.Task) string {
	completed := "0"
	if t.Completed {
		completed = "1"
	}

	return strings.Join([]string{
		strconv.Itoa(t.ID),
		t.Title,
		t.Subject,
		strconv.Itoa(t.DurationMinutes),
		strconv.Itoa(t.Priority),
		t.DueDate,
		completed,
	}, models.FieldDelimiter)
}

// DecodeTask parses a line produced by EncodeTask.
func DecodeTask(line string) (models.Task, error) {
	fields := strings.Split(line, models.FieldDelimiter)
	if len(fields) != recordFields {
		return models.Task{}, &MalformedRecordError{
			Text: line,
			Err:  fmt.Errorf("expected %d fields, got %d", recordFields, len(fields)),
		}
	}

	id, err := parseIntField("id", fields[0])
	if err != nil {
		return models.Task{}, &MalformedRecordError{Text: line, Err: err}
	}
	duration, err := parseIntField("duration_minutes", fields[3])
	if err != nil {
		return models.Task{}, &MalformedRecordError{Text: line, Err: err}
	}
	if duration < 0 {
		return models.Task{}, &MalformedRecordError{
			Text: line,
			Err:  fmt.Errorf("duration_minutes must not be negative, got %d", duration),
		}
	}
	priority, err := parseIntField("priority", fields[4])
	if err != nil {
		return models.Task{}, &MalformedRecordError{Text: line, Err: err}
	}

	var completed bool
	switch fields[6] {
	case "1":
		completed = true
	case "0":
		completed = false
	default:
		return models.Task{}, &MalformedRecordError{
			Text: line,
			Err:  fmt.Errorf("completed flag must be 0 or 1, got %q", fields[6]),
		}
	}

	return models.Task{
		ID:              id,
		Title:           fields[1],
		Subject:         fields[2],
		DurationMinutes: duration,
		Priority:        priority,
		DueDate:         fields[5],
		Completed:       completed,
	}, nil
}

func parseIntField(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return n, nil
}
