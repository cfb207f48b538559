package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"todolist/internal/models"
)

// AddCmd returns the add subcommand
func AddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Long: `Add a task. All arguments are joined with spaces. Blank text is ignored.

Examples:
  todolist add buy milk
  TASK_ID=$(todolist add "walk the dog" --quiet)
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatterFor(cmd)

			sess, err := openSession(cmd.Context(), cmd)
			if err != nil {
				out.Error("INITIALIZATION_ERROR", err.Error())
				return err
			}
			defer sess.Close()

			task, ok := sess.store.AddTask(cmd.Context(), strings.Join(args, " "))
			if !ok {
				return out.Message("Nothing to add", nil)
			}
			return out.Task(task)
		},
	}
}

// ListCmd returns the list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatterFor(cmd)

			filterName, _ := cmd.Flags().GetString("filter")
			filter, err := models.ParseFilter(filterName)
			if err != nil {
				out.Error("INVALID_FILTER", err.Error())
				return err
			}

			sess, err := openSession(cmd.Context(), cmd)
			if err != nil {
				out.Error("INITIALIZATION_ERROR", err.Error())
				return err
			}
			defer sess.Close()

			sess.store.SetFilter(filter)
			return out.View(sess.store.Snapshot())
		},
	}

	cmd.Flags().String("filter", "all", "Filter: all, active or completed")
	return cmd
}

// ToggleCmd returns the toggle subcommand
func ToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatterFor(cmd)

			id, err := parseTaskID(args[0])
			if err != nil {
				out.Error("INVALID_ID", err.Error())
				return err
			}

			sess, err := openSession(cmd.Context(), cmd)
			if err != nil {
				out.Error("INITIALIZATION_ERROR", err.Error())
				return err
			}
			defer sess.Close()

			if !sess.store.ToggleTask(cmd.Context(), id) {
				return out.Message(fmt.Sprintf("No task with id %d", id), map[string]interface{}{"id": id, "found": false})
			}
			for _, t := range sess.store.Tasks() {
				if t.ID == id {
					return out.Task(t)
				}
			}
			return nil
		},
	}
}

// DeleteCmd returns the delete subcommand
func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatterFor(cmd)

			id, err := parseTaskID(args[0])
			if err != nil {
				out.Error("INVALID_ID", err.Error())
				return err
			}

			sess, err := openSession(cmd.Context(), cmd)
			if err != nil {
				out.Error("INITIALIZATION_ERROR", err.Error())
				return err
			}
			defer sess.Close()

			removed := sess.store.DeleteTask(cmd.Context(), id)
			msg := fmt.Sprintf("Deleted task %d", id)
			if !removed {
				msg = fmt.Sprintf("No task with id %d", id)
			}
			return out.Message(msg, map[string]interface{}{"id": id, "deleted": removed})
		},
	}
}

// ClearCompletedCmd returns the clear-completed subcommand
func ClearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatterFor(cmd)

			sess, err := openSession(cmd.Context(), cmd)
			if err != nil {
				out.Error("INITIALIZATION_ERROR", err.Error())
				return err
			}
			defer sess.Close()

			removed := sess.store.ClearCompleted(cmd.Context())
			return out.Message(fmt.Sprintf("Removed %d completed task(s)", removed), map[string]interface{}{"removed": removed})
		},
	}
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
