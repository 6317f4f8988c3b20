package console

import (
	"fmt"
	"io"

	"studyplanner/internal/models"
	"studyplanner/internal/planner"
)

// FormatTask renders a task on one line.
func FormatTask(t models.Task) string {
	mark := " "
	if t.Completed {
		mark = "X"
	}
	return fmt.Sprintf("[%s] ID:%d | %s | Subject: %s | %dm | Pri:%d | Due: %s",
		mark, t.ID, t.Title, t.Subject, t.DurationMinutes, t.Priority, t.DueDate)
}

// WriteTasks prints tasks in display order. Completed tasks are skipped
// unless showCompleted is set.
func WriteTasks(w io.Writer, tasks []models.Task, showCompleted bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet.")
		return
	}

	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)
	models.SortForDisplay(sorted)

	for _, t := range sorted {
		if !showCompleted && t.Completed {
			continue
		}
		fmt.Fprintln(w, FormatTask(t))
	}
}

// WritePlan prints a generated plan with a message matching its outcome.
func WritePlan(w io.Writer, plan planner.Plan) {
	if plan.Outcome == planner.OutcomeNoTasks {
		fmt.Fprintln(w, "No incomplete tasks.")
		return
	}

	fmt.Fprintln(w, "\n--- Suggested Plan for Today ---")
	if plan.Outcome == planner.OutcomeNothingFits {
		fmt.Fprintln(w, "No single task fits into the available time. Consider breaking tasks into smaller chunks.")
	} else {
		for _, t := range plan.Tasks {
			fmt.Fprintln(w, FormatTask(t))
		}
		fmt.Fprintf(w, "Total scheduled: %dm. Free time left: %dm.\n", plan.TotalMinutes, plan.TimeLeft)
	}
	fmt.Fprintln(w, "--------------------------------")
}
