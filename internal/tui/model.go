// Package tui is the interactive task list screen.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/duetick/duetick/internal/logging"
	"github.com/duetick/duetick/internal/notify"
	"github.com/duetick/duetick/internal/store"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	AddDaily  key.Binding
	Toggle    key.Binding
	Priority  key.Binding
	Duplicate key.Binding
	Delete    key.Binding
	Share     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Add, k.AddDaily, k.Duplicate, k.Delete},
		{k.Toggle, k.Priority, k.Share},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		AddDaily:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "add routine")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		Priority:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle priority")),
		Duplicate: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "duplicate")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Share:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share text")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the bubbletea model for the task list screen.
type Model struct {
	tasks    *store.Store
	engine   *notify.Engine
	notifier notify.DesktopNotifier
	log      *logging.Logger

	cursor      int
	adding      bool
	addRoutine  bool
	input       textinput.Model
	status      StatusBar
	helpVisible bool
	helpModel   help.Model
	keys        KeyMap
	quitting    bool
}

func NewModel(tasks *store.Store, engine *notify.Engine, notifier notify.DesktopNotifier, log *logging.Logger) Model {
	input := textinput.New()
	input.Placeholder = `title [@15:04] [daily|weekly|monthly] [!]`
	input.CharLimit = 120

	return Model{
		tasks:     tasks,
		engine:    engine,
		notifier:  notifier,
		log:       log,
		input:     input,
		helpModel: help.New(),
		keys:      defaultKeyMap(),
	}
}

// ReminderMsg wraps a fired reminder event.
type ReminderMsg struct {
	Event notify.Event
}

func waitForReminder(ch <-chan notify.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderMsg{Event: ev}
	}
}

func (m Model) Init() tea.Cmd {
	if m.engine == nil {
		return nil
	}
	return waitForReminder(m.engine.C())
}
