package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/duetick/duetick/internal/model"
	"github.com/duetick/duetick/internal/store"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.helpModel.Width = typed.Width
		return m, nil

	case ReminderMsg:
		return m.handleReminder(typed)

	case tea.KeyMsg:
		if m.adding {
			return m.handleAddKey(typed)
		}
		return m.handleListKey(typed)
	}
	return m, nil
}

func (m Model) handleReminder(msg ReminderMsg) (tea.Model, tea.Cmd) {
	ev := msg.Event
	m.status = StatusBar{Text: fmt.Sprintf("%s: %s", ev.Title, ev.Message)}
	if m.notifier != nil {
		if err := m.notifier.Send(ev); err != nil {
			m.log.Warn("notify", fmt.Sprintf("desktop notification failed: %v", err))
		}
	}
	return m, waitForReminder(m.engine.C())
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		m.status = StatusBar{Text: "add cancelled"}
		return m, nil
	case "enter":
		return m.submitQuickAdd()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitQuickAdd() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	m.adding = false
	m.input.SetValue("")
	m.input.Blur()

	qa, err := ParseQuickAdd(raw, m.tasks.Now())
	if err != nil {
		m.status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	ctx := context.Background()
	var task model.Task
	if m.addRoutine {
		task, err = m.tasks.AddRoutine(ctx, qa.Title)
	} else {
		task, err = m.tasks.AddOneOff(ctx, qa.Title)
	}
	if err != nil {
		m.status = StatusBar{Text: fmt.Sprintf("add failed: %v", err), IsError: true}
		return m, nil
	}
	if qa.HasDue {
		if task, err = m.tasks.Apply(ctx, task.ID, store.Reschedule{DueDate: qa.Due}); err != nil {
			m.status = StatusBar{Text: fmt.Sprintf("reschedule failed: %v", err), IsError: true}
			return m, nil
		}
	}
	if qa.Repeat != model.RepeatNone && qa.Repeat != task.Repeat {
		if task, err = m.tasks.Apply(ctx, task.ID, store.SetRepeat{Repeat: qa.Repeat}); err != nil {
			m.status = StatusBar{Text: fmt.Sprintf("set repeat failed: %v", err), IsError: true}
			return m, nil
		}
	}
	if qa.Priority {
		if task, err = m.tasks.TogglePriority(ctx, task.ID); err != nil {
			m.status = StatusBar{Text: fmt.Sprintf("set priority failed: %v", err), IsError: true}
			return m, nil
		}
	}

	m.status = StatusBar{Text: fmt.Sprintf("added %q due %s", task.Title, task.DueDate.Format(dueTimeLayout))}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpVisible {
		switch {
		case key.Matches(msg, m.keys.Help), msg.String() == "esc":
			m.helpVisible = false
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks.Tasks())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.addRoutine = false
		m.input.Focus()
		m.status = StatusBar{Text: "new task"}
		return m, nil

	case key.Matches(msg, m.keys.AddDaily):
		m.adding = true
		m.addRoutine = true
		m.input.Focus()
		m.status = StatusBar{Text: "new daily routine"}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		return m.withSelected(func(ctx context.Context, id string) (string, error) {
			task, err := m.tasks.ToggleComplete(ctx, id)
			if err != nil {
				return "", err
			}
			if task.IsComplete {
				return fmt.Sprintf("completed %q", task.Title), nil
			}
			return fmt.Sprintf("reopened %q", task.Title), nil
		})

	case key.Matches(msg, m.keys.Priority):
		return m.withSelected(func(ctx context.Context, id string) (string, error) {
			task, err := m.tasks.TogglePriority(ctx, id)
			if err != nil {
				return "", err
			}
			if task.IsPriority {
				return fmt.Sprintf("prioritized %q", task.Title), nil
			}
			return fmt.Sprintf("unprioritized %q", task.Title), nil
		})

	case key.Matches(msg, m.keys.Duplicate):
		return m.withSelected(func(ctx context.Context, id string) (string, error) {
			task, err := m.tasks.Duplicate(ctx, id)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("duplicated as %q", task.Title), nil
		})

	case key.Matches(msg, m.keys.Delete):
		return m.withSelected(func(ctx context.Context, id string) (string, error) {
			task, err := m.tasks.Get(id)
			if err != nil {
				return "", err
			}
			if err := m.tasks.Delete(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("deleted %q", task.Title), nil
		})

	case key.Matches(msg, m.keys.Share):
		return m.withSelected(func(ctx context.Context, id string) (string, error) {
			text, err := m.tasks.Share(id)
			if err != nil {
				return "", err
			}
			return text, nil
		})
	}
	return m, nil
}

func (m Model) withSelected(fn func(ctx context.Context, id string) (string, error)) (tea.Model, tea.Cmd) {
	tasks := m.tasks.Tasks()
	if len(tasks) == 0 {
		m.status = StatusBar{Text: "no tasks"}
		return m, nil
	}
	if m.cursor >= len(tasks) {
		m.cursor = len(tasks) - 1
	}
	text, err := fn(context.Background(), tasks[m.cursor].ID)
	if err != nil {
		m.status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if m.cursor >= len(m.tasks.Tasks()) && m.cursor > 0 {
		m.cursor--
	}
	m.status = StatusBar{Text: text}
	return m, nil
}
