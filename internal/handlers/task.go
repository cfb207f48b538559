package handlers

import (
	"net/http"

	"todolist/internal/models"
)

// ListTasks returns the filtered list and counters as JSON.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// CreateTask adds a task from the "text" form field. Blank text is ignored.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	task, ok := h.store.AddTask(r.Context(), r.FormValue("text"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if wantsJSON(r) {
		respondJSON(w, http.StatusCreated, task)
		return
	}
	h.respondView(w, r)
}

// ToggleTask toggles the completion status of a task.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	h.store.ToggleTask(r.Context(), id)
	h.respondView(w, r)
}

// DeleteTask deletes a task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	h.store.DeleteTask(r.Context(), id)
	h.respondView(w, r)
}

// ClearCompleted removes every completed task.
func (h *Handlers) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCompleted(r.Context())
	h.respondView(w, r)
}

// SetFilter switches the active filter from the "filter" form field.
func (h *Handlers) SetFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	f, err := models.ParseFilter(r.FormValue("filter"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.store.SetFilter(f)
	h.respondView(w, r)
}
