package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// DesktopNotifier delivers a fired reminder to the user.
type DesktopNotifier interface {
	Send(ev Event) error
}

// NoopDesktopNotifier discards reminders; used when desktop notifications
// are disabled in config.
type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Event) error { return nil }

// ExecDesktopNotifier shells out to the platform notification command.
type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(ev Event) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", ev.Title, ev.Message).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(ev.Message), escapeAppleScript(ev.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
