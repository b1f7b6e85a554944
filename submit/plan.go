package submit

import (
	"fmt"
	"strconv"
	"strings"

	"chronoassist/timeentry"
)

// Token is one element of the form's tab order.
type Token string

const (
	TokenDate     Token = "date"
	TokenProject  Token = "project"
	TokenActivity Token = "activity"
	TokenWorkItem Token = "work_item"
	TokenHours    Token = "hours"
	TokenComment  Token = "comment"
	TokenTab      Token = "tab"
	// TokenSuggest accepts the autocomplete suggestion for the value typed last.
	TokenSuggest Token = "suggest"
)

var DefaultLayout = []Token{
	TokenDate, TokenTab, TokenTab, TokenProject, TokenTab, TokenActivity, TokenTab, TokenWorkItem,
	TokenTab, TokenTab, TokenHours, TokenTab, TokenTab, TokenTab, TokenComment,
}

func ParseLayout(values []string) ([]Token, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("tab order is empty")
	}
	out := make([]Token, 0, len(values))
	for i, value := range values {
		token := Token(strings.ToLower(strings.TrimSpace(value)))
		switch token {
		case TokenDate, TokenProject, TokenActivity, TokenWorkItem, TokenHours, TokenComment, TokenTab, TokenSuggest:
			out = append(out, token)
		default:
			return nil, fmt.Errorf("tab order[%d]: unsupported token %q", i, value)
		}
	}
	return out, nil
}

type StepKind int

const (
	StepType StepKind = iota
	StepTab
	StepSuggest
)

// Step is one UI action for filling a row.
type Step struct {
	Kind  StepKind
	Field Token
	Text  string
}

// Plan expands the layout into the actions for one entry. displayDate is the
// date already converted to the form's display form. Empty field values are
// not typed, and a suggestion step following an empty value is dropped.
func Plan(layout []Token, entry timeentry.Entry, displayDate string) []Step {
	values := map[Token]string{
		TokenDate:     displayDate,
		TokenProject:  strings.TrimSpace(entry.Project),
		TokenActivity: strings.TrimSpace(entry.Activity),
		TokenWorkItem: strings.TrimSpace(entry.WorkItem),
		TokenHours:    formatHours(entry.Hours),
		TokenComment:  strings.TrimSpace(entry.Comment),
	}

	steps := make([]Step, 0, len(layout))
	last := ""
	for _, token := range layout {
		switch token {
		case TokenTab:
			steps = append(steps, Step{Kind: StepTab})
		case TokenSuggest:
			if last != "" {
				steps = append(steps, Step{Kind: StepSuggest, Text: last})
			}
		default:
			last = values[token]
			if last != "" {
				steps = append(steps, Step{Kind: StepType, Field: token, Text: last})
			}
		}
	}
	return steps
}

func formatHours(hours *float64) string {
	if hours == nil {
		return ""
	}
	return strconv.FormatFloat(*hours, 'f', -1, 64)
}
