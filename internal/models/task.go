package models

import (
	"errors"
	"strings"
)

// Task represents a single to-do entry.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("text is required")
	}

	if t.ID <= 0 {
		return errors.New("id must be positive")
	}

	return nil
}
