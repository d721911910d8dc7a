package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/duetick/duetick/internal/model"
)

const dueTimeLayout = "Mon Jan 02 15:04"

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	priorityStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	listStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(64)
)

const helpMarkdown = `# duetick

## Keys

| Key | Action |
| --- | ------ |
| a   | add a task (title [@HH:MM] [daily/weekly/monthly] [!]) |
| r   | add a daily routine |
| space | toggle complete |
| p   | toggle priority |
| y   | duplicate |
| d   | delete |
| s   | show share text |
| ?   | close this help |
| q   | quit |

Completed tasks sink to the bottom; priority tasks float to the top.
Reminders fire 10 minutes before the due time and again at the due time.
`

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.helpVisible {
		return renderMarkdown(helpMarkdown)
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("duetick"))
	sb.WriteString("\n")
	sb.WriteString(listStyle.Render(m.renderList()))
	sb.WriteString("\n")

	if m.adding {
		prompt := "add"
		if m.addRoutine {
			prompt = "add routine"
		}
		sb.WriteString(fmt.Sprintf("%s> %s\n", prompt, m.input.View()))
	}

	if m.status.Text != "" {
		line := statusStyle.Render(m.status.Text)
		if m.status.IsError {
			line = errorStyle.Render(m.status.Text)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString(m.helpModel.View(m.keys))
	return sb.String()
}

func (m Model) renderList() string {
	tasks := m.tasks.Tasks()
	if len(tasks) == 0 {
		return "nothing due. press a to add a task."
	}

	now := m.tasks.Now()
	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		lines = append(lines, m.renderTask(t, i == m.cursor, now.After(t.DueDate)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTask(t model.Task, selected, overdue bool) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}

	box := "[ ]"
	if t.IsComplete {
		box = "[x]"
	}

	due := t.DueDate.Format(dueTimeLayout)
	line := fmt.Sprintf("%s %s  %s", box, t.Title, due)
	if t.Repeat != model.RepeatNone {
		line += fmt.Sprintf("  (%s)", t.Repeat)
	}

	switch {
	case t.IsComplete:
		line = doneStyle.Render(line)
	case t.IsPriority:
		line = priorityStyle.Render("! " + line)
	case overdue && !t.IsComplete:
		line = overdueStyle.Render(line)
	}
	return marker + line
}

func renderMarkdown(md string) string {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
