package models

import (
	"cmp"
	"slices"
)

// CompareDisplay orders tasks for listing: incomplete first, then ascending
// priority, then ascending due date. Empty due dates sort first.
func CompareDisplay(a, b Task) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	return cmp.Compare(a.DueDate, b.DueDate)
}

// CompareCandidate orders incomplete tasks for plan selection: ascending
// priority, then ascending due date, then shorter duration.
func CompareCandidate(a, b Task) int {
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.DueDate, b.DueDate); c != 0 {
		return c
	}
	return cmp.Compare(a.DurationMinutes, b.DurationMinutes)
}

// SortForDisplay sorts tasks in place by CompareDisplay. Equal tasks keep
// their relative order.
func SortForDisplay(tasks []Task) {
	slices.SortStableFunc(tasks, CompareDisplay)
}

// SortForPlan sorts tasks in place by CompareCandidate. Equal tasks keep
// their relative order.
func SortForPlan(tasks []Task) {
	slices.SortStableFunc(tasks, CompareCandidate)
}

// Incomplete returns a new slice holding only the tasks not yet completed.
func Incomplete(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}
