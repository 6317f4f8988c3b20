package store

import "studyplanner/internal/models"

// SampleTasks returns the fixed sample dataset without ids.
func SampleTasks() []models.Task {
	return []models.Task{
		{Title: "Read OS: Paging", Subject: "Operating Systems", DurationMinutes: 60, Priority: 1, DueDate: "2025-11-20"},
		{Title: "Practice DB SQL queries", Subject: "Database Systems", DurationMinutes: 90, Priority: 2, DueDate: "2025-11-25"},
		{Title: "Revise Networking notes", Subject: "Networking", DurationMinutes: 45, Priority: 1, DueDate: "2025-11-19"},
		{Title: "Implement C++ assignment", Subject: "Programming", DurationMinutes: 120, Priority: 3, DueDate: "2025-11-30"},
	}
}
