package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/duetick/duetick/internal/model"
)

type ParseErrorCode string

const (
	ErrCodeEmptyInput   ParseErrorCode = "empty_input"
	ErrCodeBadTime      ParseErrorCode = "bad_time"
	ErrCodeMissingTitle ParseErrorCode = "missing_title"
)

type ParseError struct {
	Code    ParseErrorCode
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// QuickAdd is a parsed quick-add line.
type QuickAdd struct {
	Title    string
	Due      time.Time
	HasDue   bool
	Repeat   model.Repeat
	Priority bool
}

// ParseQuickAdd parses the quick-add syntax:
//
//	<title words> [@HH:MM] [daily|weekly|monthly] [!]
//
// "@HH:MM" anchors the due time on today; a trailing "!" marks priority.
func ParseQuickAdd(input string, now time.Time) (QuickAdd, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return QuickAdd{}, &ParseError{Code: ErrCodeEmptyInput, Message: "quick-add line is empty"}
	}

	out := QuickAdd{Repeat: model.RepeatNone}
	titleWords := make([]string, 0, 4)

	for _, word := range strings.Fields(raw) {
		switch {
		case word == "!":
			out.Priority = true
		case strings.HasPrefix(word, "@"):
			at, err := time.ParseInLocation("15:04", strings.TrimPrefix(word, "@"), now.Location())
			if err != nil {
				return QuickAdd{}, &ParseError{Code: ErrCodeBadTime, Message: fmt.Sprintf("cannot parse time %q", word)}
			}
			y, m, d := now.Date()
			out.Due = time.Date(y, m, d, at.Hour(), at.Minute(), 0, 0, now.Location())
			out.HasDue = true
		case isRepeatWord(word):
			out.Repeat = model.Repeat(strings.ToLower(word))
		default:
			titleWords = append(titleWords, word)
		}
	}

	out.Title = strings.Join(titleWords, " ")
	if out.Title == "" {
		return QuickAdd{}, &ParseError{Code: ErrCodeMissingTitle, Message: "quick-add line has no title"}
	}
	return out, nil
}

func isRepeatWord(word string) bool {
	switch model.Repeat(strings.ToLower(word)) {
	case model.RepeatDaily, model.RepeatWeekly, model.RepeatMonthly:
		return true
	default:
		return false
	}
}
