// Package planner builds a greedy daily study plan from incomplete tasks.
package planner

import (
	"studyplanner/internal/models"
)

// Outcome classifies a generated plan.
type Outcome string

const (
	// OutcomeNoTasks means there were no incomplete tasks to consider.
	OutcomeNoTasks Outcome = "no_tasks"
	// OutcomeNothingFits means incomplete tasks exist but none fit the budget.
	OutcomeNothingFits Outcome = "nothing_fits"
	// OutcomeScheduled means at least one task was selected.
	OutcomeScheduled Outcome = "scheduled"
)

// Plan is the result of a single greedy pass.
type Plan struct {
	Tasks        []models.Task `json:"tasks"`
	TotalMinutes int           `json:"total_minutes"`
	TimeLeft     int           `json:"time_left"`
	Available    int           `json:"available"`
	Outcome      Outcome       `json:"outcome"`
}

// Generate selects tasks for the available minutes. Incomplete tasks are
// walked once in candidate order; each task is taken if its duration fits
// the remaining time and skipped for good otherwise. There is no
// backtracking, so time may be left over even when a different subset
// would pack tighter.
//
// Negative availability counts as zero capacity. A task with a negative
// duration is never selected.
func Generate(tasks []models.Task, available int) Plan {
	if available < 0 {
		available = 0
	}

	plan := Plan{
		Tasks:     []models.Task{},
		TimeLeft:  available,
		Available: available,
	}

	pool := models.Incomplete(tasks)
	if len(pool) == 0 {
		plan.Outcome = OutcomeNoTasks
		return plan
	}

	models.SortForPlan(pool)

	for _, t := range pool {
		if t.DurationMinutes >= 0 && t.DurationMinutes <= plan.TimeLeft {
			plan.Tasks = append(plan.Tasks, t)
			plan.TimeLeft -= t.DurationMinutes
			plan.TotalMinutes += t.DurationMinutes
		}
	}

	if len(plan.Tasks) == 0 {
		plan.Outcome = OutcomeNothingFits
	} else {
		plan.Outcome = OutcomeScheduled
	}
	return plan
}
