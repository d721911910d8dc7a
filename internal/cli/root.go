// Package cli provides the command-line interface for duetick.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/duetick/duetick/internal/app"
	"github.com/duetick/duetick/internal/config"
)

// NewRootCommand creates the root command. Without a subcommand it opens
// the interactive task list.
func NewRootCommand(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "duetick",
		Short: "Personal task list with local reminders",
		Long: `duetick is a personal task list for the terminal. Tasks carry a due
date, a priority flag, and an optional repeat cadence (daily, weekly,
monthly). Every task gets a reminder pair: a warning 10 minutes before
it is due and a final notification at the due time. Overdue recurring
tasks roll forward to their next occurrence automatically.

Run without arguments to open the interactive list.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := buildContainer(configPath)
			if err != nil {
				return err
			}
			defer c.Close()
			return runTUI(cmd.Context(), c)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/duetick/config.toml)")

	root.AddCommand(
		newAddCommand(&configPath),
		newRoutineCommand(&configPath),
		newPrayersCommand(&configPath),
		newListCommand(&configPath),
		newDoneCommand(&configPath),
		newSetCommand(&configPath),
		newDupCommand(&configPath),
		newRemoveCommand(&configPath),
		newShareCommand(&configPath),
	)
	return root
}

func buildContainer(configPath string) (*app.Container, error) {
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
