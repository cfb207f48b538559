package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"todolist/internal/todo"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store     *todo.Store
	templates *template.Template
}

// New creates a new Handlers instance.
func New(s *todo.Store, tmpl *template.Template) *Handlers {
	return &Handlers{
		store:     s,
		templates: tmpl,
	}
}

// Routes registers every page and API route on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/", h.Home)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Post("/tasks/clear-completed", h.ClearCompleted)
		r.Post("/tasks/{id}/toggle", h.ToggleTask)
		r.Delete("/tasks/{id}", h.DeleteTask)
		r.Post("/filter", h.SetFilter)
	})
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	return strconv.ParseInt(idStr, 10, 64)
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("internal server error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func respondJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		respondServerError(w, err)
	}
}

// respondView writes the current list state, as JSON for API clients or as the
// list partial for htmx swaps.
func (h *Handlers) respondView(w http.ResponseWriter, r *http.Request) {
	view := newPageData(h.store.Snapshot())
	if wantsJSON(r) || h.templates == nil {
		respondJSON(w, http.StatusOK, view.View)
		return
	}
	h.render(w, "todo_list.html", view)
}
