package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is returned when a filter name is not recognised.
var ErrInvalidFilter = errors.New("filter must be 'all', 'active', or 'completed'")

// Filter selects which tasks are shown.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter converts a filter name into a Filter. The empty string maps to All.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Label returns the title used for the filter's counter button.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Match reports whether the task is visible under this filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// EmptyMessage is shown when no task matches the filter.
func (f Filter) EmptyMessage() string {
	switch f {
	case FilterActive:
		return "No active tasks"
	case FilterCompleted:
		return "No completed tasks"
	default:
		return "No tasks yet"
	}
}

// MarshalText lets filters round-trip through JSON and TOML as their names.
func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText parses a filter name.
func (f *Filter) UnmarshalText(b []byte) error {
	parsed, err := ParseFilter(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
