package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/duetick/duetick/internal/app"
	"github.com/duetick/duetick/internal/model"
	"github.com/duetick/duetick/internal/store"
)

const listTimeLayout = "2006-01-02 15:04"

// withStore builds the container, loads the persisted list, runs fn, and
// tears everything down again.
func withStore(configPath string, fn func(c *app.Container) error) error {
	c, err := buildContainer(configPath)
	if err != nil {
		return err
	}
	defer c.Close()
	c.Engine.Start()
	if err := c.Tasks.Load(context.Background()); err != nil {
		return err
	}
	return fn(c)
}

func newAddCommand(configPath *string) *cobra.Command {
	var opts struct {
		Due      string
		In       time.Duration
		Repeat   string
		Priority bool
	}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a one-off task",
		Long: `Create a one-off task. By default it is due 15 minutes from now; use
--in or --due to pick a different time, and --repeat to make it recur.

Examples:
  duetick add "Buy milk"
  duetick add "Standup" --due "2026-03-02 09:30" --repeat daily
  duetick add "Call mom" --in 2h --priority`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				title := ""
				if len(args) > 0 {
					title = args[0]
				}
				task, err := c.Tasks.AddOneOff(cmd.Context(), title)
				if err != nil {
					return err
				}
				task, err = applyCreateFlags(cmd, c, task, opts.Due, opts.In, opts.Repeat, opts.Priority)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %s due %s\n", shortID(task.ID), task.DueDate.Format(listTimeLayout))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Due, "due", "", `due time ("2006-01-02 15:04" or "15:04" for today)`)
	cmd.Flags().DurationVar(&opts.In, "in", 0, "due after this duration from now (e.g. 45m, 2h)")
	cmd.Flags().StringVar(&opts.Repeat, "repeat", "", "repeat cadence: daily, weekly, or monthly")
	cmd.Flags().BoolVar(&opts.Priority, "priority", false, "mark as priority")
	return cmd
}

func applyCreateFlags(cmd *cobra.Command, c *app.Container, task model.Task, due string, in time.Duration, repeat string, priority bool) (model.Task, error) {
	ctx := cmd.Context()
	if due != "" {
		at, err := parseDue(due, time.Now())
		if err != nil {
			return model.Task{}, err
		}
		task2, err := c.Tasks.Apply(ctx, task.ID, store.Reschedule{DueDate: at})
		if err != nil {
			return model.Task{}, err
		}
		task = task2
	} else if in > 0 {
		task2, err := c.Tasks.Apply(ctx, task.ID, store.Reschedule{DueDate: time.Now().Add(in)})
		if err != nil {
			return model.Task{}, err
		}
		task = task2
	}
	if repeat != "" {
		task2, err := c.Tasks.Apply(ctx, task.ID, store.SetRepeat{Repeat: model.Repeat(strings.ToLower(repeat))})
		if err != nil {
			return model.Task{}, err
		}
		task = task2
	}
	if priority {
		task2, err := c.Tasks.Apply(ctx, task.ID, store.SetPriority{Priority: true})
		if err != nil {
			return model.Task{}, err
		}
		task = task2
	}
	return task, nil
}

func newRoutineCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "routine [title]",
		Short: "Create a daily-repeating task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				title := ""
				if len(args) > 0 {
					title = args[0]
				}
				task, err := c.Tasks.AddRoutine(cmd.Context(), title)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created routine %s due %s\n", shortID(task.ID), task.DueDate.Format(listTimeLayout))
				return nil
			})
		},
	}
}

func newPrayersCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "prayers <christian|muslim|hindu>",
		Short: "Bulk-create daily prayer tasks from a fixed schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				batch, err := c.Tasks.AddPrayerTasks(cmd.Context(), model.Faith(strings.ToLower(args[0])))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d prayer tasks\n", len(batch))
				return nil
			})
		},
	}
}

func newListCommand(configPath *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				tasks := c.Tasks.Tasks()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tDUE\tREPEAT\tFLAGS")
				for _, t := range tasks {
					if t.IsComplete && !all {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						shortID(t.ID), t.Title, t.DueDate.Format(listTimeLayout), t.Repeat, flags(t))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	return cmd
}

func flags(t model.Task) string {
	out := ""
	if t.IsPriority {
		out += "!"
	}
	if t.IsComplete {
		out += "x"
	}
	return out
}

func newDoneCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				id, err := resolveID(c.Tasks, args[0])
				if err != nil {
					return err
				}
				task, err := c.Tasks.ToggleComplete(cmd.Context(), id)
				if err != nil {
					return err
				}
				state := "open"
				if task.IsComplete {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", shortID(task.ID), state)
				return nil
			})
		},
	}
}

func newSetCommand(configPath *string) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Due         string
		Repeat      string
		Priority    bool
	}

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				id, err := resolveID(c.Tasks, args[0])
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				if cmd.Flags().Changed("title") {
					if _, err := c.Tasks.Apply(ctx, id, store.RenameTitle{Title: opts.Title}); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("desc") {
					if _, err := c.Tasks.Apply(ctx, id, store.SetDescription{Description: opts.Description}); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("due") {
					at, err := parseDue(opts.Due, time.Now())
					if err != nil {
						return err
					}
					if _, err := c.Tasks.Apply(ctx, id, store.Reschedule{DueDate: at}); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("repeat") {
					if _, err := c.Tasks.Apply(ctx, id, store.SetRepeat{Repeat: model.Repeat(strings.ToLower(opts.Repeat))}); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("priority") {
					if _, err := c.Tasks.Apply(ctx, id, store.SetPriority{Priority: opts.Priority}); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", shortID(id))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "new title")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "new description")
	cmd.Flags().StringVar(&opts.Due, "due", "", `new due time ("2006-01-02 15:04" or "15:04")`)
	cmd.Flags().StringVar(&opts.Repeat, "repeat", "", "repeat cadence: none, daily, weekly, or monthly")
	cmd.Flags().BoolVar(&opts.Priority, "priority", false, "priority flag")
	return cmd
}

func newDupCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dup <id>",
		Short: "Duplicate a task under a fresh id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				id, err := resolveID(c.Tasks, args[0])
				if err != nil {
					return err
				}
				clone, err := c.Tasks.Duplicate(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created copy %s\n", shortID(clone.ID))
				return nil
			})
		},
	}
}

func newRemoveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and cancel its reminders",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				id, err := resolveID(c.Tasks, args[0])
				if err != nil {
					return err
				}
				if err := c.Tasks.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
				return nil
			})
		},
	}
}

func newShareCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Print a task as shareable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(*configPath, func(c *app.Container) error {
				id, err := resolveID(c.Tasks, args[0])
				if err != nil {
					return err
				}
				text, err := c.Tasks.Share(id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

// resolveID accepts a full task id or an unambiguous prefix.
func resolveID(s *store.Store, ref string) (string, error) {
	if _, err := s.Get(ref); err == nil {
		return ref, nil
	}
	matches := make([]string, 0, 1)
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: %s", store.ErrTaskNotFound, ref)
	default:
		return "", fmt.Errorf("cli: ambiguous task id %q (%d matches)", ref, len(matches))
	}
}

// parseDue accepts "2006-01-02 15:04" or a bare "15:04" meaning today.
func parseDue(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if at, err := time.ParseInLocation("2006-01-02 15:04", raw, now.Location()); err == nil {
		return at, nil
	}
	if at, err := time.ParseInLocation("15:04", raw, now.Location()); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, at.Hour(), at.Minute(), 0, 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("cli: cannot parse due time %q", raw)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
