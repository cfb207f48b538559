package handlers

import (
	"net/http"

	"todolist/internal/models"
	"todolist/internal/todo"
)

// FilterTab describes one filter button with its counter.
type FilterTab struct {
	Filter models.Filter
	Label  string
	Count  int
	Active bool
}

// PageData holds data for the page and list templates.
type PageData struct {
	todo.View
	Title string
	Tabs  []FilterTab
}

// ShowClearCompleted reports whether the clear-completed button is shown.
func (p PageData) ShowClearCompleted() bool {
	return p.Completed > 0
}

func newPageData(v todo.View) PageData {
	counts := map[models.Filter]int{
		models.FilterAll:       v.Total,
		models.FilterActive:    v.Active,
		models.FilterCompleted: v.Completed,
	}

	tabs := make([]FilterTab, 0, len(models.Filters))
	for _, f := range models.Filters {
		tabs = append(tabs, FilterTab{
			Filter: f,
			Label:  f.Label(),
			Count:  counts[f],
			Active: f == v.Filter,
		})
	}

	return PageData{
		View:  v,
		Title: "To-do list",
		Tabs:  tabs,
	}
}

// Home renders the full page. An optional filter query parameter selects the
// filter for this response only; the active filter changes through
// POST /api/filter.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query().Get("filter")
	if v == "" {
		h.render(w, "index.html", newPageData(h.store.Snapshot()))
		return
	}

	f, err := models.ParseFilter(v)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.render(w, "index.html", newPageData(h.store.SnapshotWith(f)))
}
