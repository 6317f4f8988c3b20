package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"studyplanner/internal/models"
)

type createTaskRequest struct {
	Title           string `json:"title"`
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
	Priority        int    `json:"priority"`
	DueDate         string `json:"due_date"`
}

// ListTasks returns tasks in display order. ?incomplete=true hides completed tasks.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	var tasks []models.Task

	incompleteOnly := false
	if v := r.URL.Query().Get("incomplete"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid incomplete flag")
			return
		}
		incompleteOnly = b
	}

	if incompleteOnly {
		tasks = h.store.Incomplete()
	} else {
		tasks = h.store.All()
	}
	models.SortForDisplay(tasks)

	respondJSON(w, http.StatusOK, tasks)
}

// GetTask returns a single task.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, ok := h.store.Find(id)
	if !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// CreateTask adds a new incomplete task.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	id, err := h.store.Add(ctx, models.Task{
		Title:           req.Title,
		Subject:         req.Subject,
		DurationMinutes: req.DurationMinutes,
		Priority:        req.Priority,
		DueDate:         req.DueDate,
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	task, _ := h.store.Find(id)
	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask applies a partial update to an existing task.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.store.Update(ctx, id, patch)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.store.Remove(ctx, id); err != nil {
		h.respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleTask toggles the completion status of a task.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.store.Toggle(ctx, id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// ImportSample replaces all tasks with the sample dataset.
func (h *Handlers) ImportSample(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ImportSample(r.Context()); err != nil {
		h.respondStoreError(w, err)
		return
	}

	tasks := h.store.All()
	models.SortForDisplay(tasks)
	respondJSON(w, http.StatusOK, tasks)
}

// Save forces a full write of the store.
func (h *Handlers) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Save(r.Context()); err != nil {
		h.respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
