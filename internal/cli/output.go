package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"todolist/internal/models"
	"todolist/internal/todo"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer
	Err   io.Writer
}

// Task prints a single task.
func (f *OutputFormatter) Task(t models.Task) error {
	if f.Quiet {
		_, err := fmt.Fprintf(f.Out, "%d\n", t.ID)
		return err
	}
	if f.JSON {
		return f.success(t)
	}
	_, err := fmt.Fprintln(f.Out, taskLine(t))
	return err
}

// View prints the filtered list followed by the counters.
func (f *OutputFormatter) View(v todo.View) error {
	if f.Quiet {
		for _, t := range v.Tasks {
			if _, err := fmt.Fprintf(f.Out, "%d\n", t.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if f.JSON {
		return f.success(v)
	}

	if len(v.Tasks) == 0 {
		fmt.Fprintln(f.Out, v.EmptyMessage)
	}
	for _, t := range v.Tasks {
		fmt.Fprintln(f.Out, taskLine(t))
	}
	_, err := fmt.Fprintf(f.Out, "\n%d total, %d active, %d completed\n", v.Total, v.Active, v.Completed)
	return err
}

// Message prints a human-readable note, or a JSON object with the given data.
func (f *OutputFormatter) Message(msg string, data interface{}) error {
	if f.Quiet {
		return nil
	}
	if f.JSON {
		return f.success(data)
	}
	_, err := fmt.Fprintln(f.Out, msg)
	return err
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	if f.JSON {
		return json.NewEncoder(f.Out).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":    code,
				"message": message,
			},
		})
	}

	_, err := fmt.Fprintf(f.Err, "Error: %s\n", message)
	return err
}

func (f *OutputFormatter) success(data interface{}) error {
	return json.NewEncoder(f.Out).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func taskLine(t models.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s %d  %s", box, t.ID, t.Text)
}
