package handlers

import (
	"net/http"
	"strconv"

	"studyplanner/internal/planner"
)

// Plan generates a daily plan for ?minutes=N available minutes.
func (h *Handlers) Plan(w http.ResponseWriter, r *http.Request) {
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "minutes must be an integer")
		return
	}

	plan := planner.Generate(h.store.All(), minutes)
	h.recorder.Plan(string(plan.Outcome))
	h.logger.Debug("generated plan", "available", plan.Available, "selected", len(plan.Tasks), "outcome", plan.Outcome)

	respondJSON(w, http.StatusOK, plan)
}
