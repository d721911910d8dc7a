package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/duetick/duetick/internal/app"
	"github.com/duetick/duetick/internal/tui"
)

// runTUI loads the task list, starts the reminder engine and the
// background refresher, and runs the interactive screen until quit.
func runTUI(ctx context.Context, c *app.Container) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.Start(ctx)
	if err := c.Tasks.Load(ctx); err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(c.Tasks, c.Engine, c.Notifier, c.Log))
	_, err := program.Run()
	return err
}
