// Package cli wires the todo store to a cobra command line and the web server.
package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log"

	"github.com/spf13/cobra"

	"todolist/internal/config"
	"todolist/internal/storage"
	"todolist/internal/todo"
)

// Assets holds the embedded web files. FS must contain templates/ and static/.
type Assets struct {
	FS fs.FS
}

// NewRootCommand builds the todolist command tree.
func NewRootCommand(assets Assets) *cobra.Command {
	root := &cobra.Command{
		Use:   "todolist",
		Short: "todolist - a small to-do list manager",
		Long: `todolist keeps a list of short text tasks that can be added, toggled,
filtered and deleted. Run "todolist serve" for the web UI or use the
subcommands directly from the shell.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a TOML config file")
	flags.String("storage", "", "Storage backend: memory, file or sqlite")
	flags.String("data-dir", "", "Directory for the file backend")
	flags.String("db-path", "", "Database path for the sqlite backend")
	flags.String("key", "", "Storage key holding the task list")
	flags.Bool("json", false, "Output in JSON format")
	flags.Bool("quiet", false, "Minimal output (ID only)")

	root.AddCommand(
		ServeCmd(assets),
		AddCmd(),
		ListCmd(),
		ToggleCmd(),
		DeleteCmd(),
		ClearCompletedCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute(assets Assets) error {
	return NewRootCommand(assets).Execute()
}

// loadConfig resolves configuration from the config file, the environment and
// any explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"storage", &cfg.Storage.Kind},
		{"data-dir", &cfg.Storage.DataDir},
		{"db-path", &cfg.Storage.DBPath},
		{"key", &cfg.Storage.Key},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			*o.dst, _ = flags.GetString(o.flag)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// session bundles an open storage backend with the store hydrated from it.
type session struct {
	cfg     config.Config
	storage storage.Storage
	store   *todo.Store
}

func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	st, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	return &session{
		cfg:     cfg,
		storage: st,
		store:   todo.New(ctx, st, todo.WithLogger(logger)),
	}, nil
}

func (s *session) Close() {
	if err := s.storage.Close(); err != nil {
		log.Printf("Error closing storage: %v", err)
	}
}

func formatterFor(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}
