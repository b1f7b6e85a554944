// Package submit replays entries into the timesheet entry form and reports the
// outcome per entry.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chronoassist/internal/timeutil"
	"chronoassist/timeentry"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Form is the entry screen the writer drives.
type Form interface {
	// Open brings up the entry screen; an error here fails the whole batch.
	Open(ctx context.Context) error
	NewRow(ctx context.Context) error
	TypeText(ctx context.Context, text string) error
	PressTab(ctx context.Context) error
	AcceptSuggestion(ctx context.Context, value string) error
	// RowError returns the visible validation message, or "" when there is none.
	RowError(ctx context.Context) (string, error)
}

type Failure struct {
	ClientID string `json:"client_id"`
	Error    string `json:"error"`
}

type Outcome struct {
	OverallSuccess          bool      `json:"overallSuccess"`
	Message                 string    `json:"message"`
	SubmittedEntryClientIDs []string  `json:"submittedEntryClientIds"`
	FailedEntries           []Failure `json:"failedEntries"`
}

type Writer struct {
	Form       Form
	Layout     []Token
	FieldPause time.Duration
	EntryPause time.Duration
	NewRowWait time.Duration
	// Verify consults Form.RowError after each row. Without it success is
	// assumed once the row was typed.
	Verify bool
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

// entryRules are the fields a row cannot be entered without.
type entryRules struct {
	Date     string  `validate:"required"`
	Project  string  `validate:"required"`
	Activity string  `validate:"required"`
	Hours    float64 `validate:"gt=0"`
}

// AssignClientIDs returns a copy of entries where every entry carries a client ID.
func AssignClientIDs(entries []timeentry.Entry) []timeentry.Entry {
	out := make([]timeentry.Entry, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.ClientID) == "" {
			entry.ClientID = uuid.NewString()
		}
		out[i] = entry
	}
	return out
}

// FailAll marks every entry as failed with the same reason. rejected are
// input elements that never became entries; they keep their own reasons.
func FailAll(entries []timeentry.Entry, err error, rejected ...Failure) Outcome {
	outcome := newOutcome(len(entries))
	outcome.FailedEntries = append(outcome.FailedEntries, rejected...)
	for _, entry := range entries {
		outcome.FailedEntries = append(outcome.FailedEntries, Failure{ClientID: entry.ClientID, Error: err.Error()})
	}
	outcome.Message = fmt.Sprintf("Submission failed before any entry was processed: %v", err)
	return outcome
}

// Submit enters every entry into the form. One entry's failure does not stop
// the remaining entries. rejected are input elements that could not be read
// as entries; they are reported as failed and count toward the input total.
func (w *Writer) Submit(ctx context.Context, entries []timeentry.Entry, rejected ...Failure) Outcome {
	logger := w.logger()
	entries = AssignClientIDs(entries)
	total := len(entries) + len(rejected)
	for _, failure := range rejected {
		logger.Warn("entry rejected", "client_id", failure.ClientID, "err", failure.Error)
	}
	if len(entries) == 0 {
		outcome := newOutcome(0)
		outcome.FailedEntries = append(outcome.FailedEntries, rejected...)
		outcome.OverallSuccess = total == 0
		outcome.Message = "No entries to submit."
		if total > 0 {
			outcome.Message = w.summary(outcome, total)
		}
		return outcome
	}

	logger.Info("opening entry screen", "entries", len(entries))
	if err := w.Form.Open(ctx); err != nil {
		logger.Error("entry screen not available", "err", err)
		return FailAll(entries, fmt.Errorf("open entry screen: %w", err), rejected...)
	}

	layout := w.Layout
	if len(layout) == 0 {
		layout = DefaultLayout
	}
	validate := validator.New()

	outcome := newOutcome(len(entries))
	outcome.FailedEntries = append(outcome.FailedEntries, rejected...)
	for i, entry := range entries {
		logger.Info("processing entry",
			"index", i+1,
			"total", len(entries),
			"client_id", entry.ClientID,
			"date", entry.Date,
			"project", entry.Project,
		)
		if err := w.submitOne(ctx, validate, layout, entry); err != nil {
			logger.Warn("entry failed", "client_id", entry.ClientID, "err", err)
			outcome.FailedEntries = append(outcome.FailedEntries, Failure{ClientID: entry.ClientID, Error: err.Error()})
			continue
		}
		outcome.SubmittedEntryClientIDs = append(outcome.SubmittedEntryClientIDs, entry.ClientID)
		if err := w.sleep(ctx, w.EntryPause); err != nil {
			logger.Debug("entry pause interrupted", "err", err)
		}
	}

	outcome.OverallSuccess = len(outcome.FailedEntries) == 0 && len(outcome.SubmittedEntryClientIDs) == total
	outcome.Message = w.summary(outcome, total)
	logger.Info("submission finished",
		"submitted", len(outcome.SubmittedEntryClientIDs),
		"failed", len(outcome.FailedEntries),
	)
	return outcome
}

func (w *Writer) submitOne(ctx context.Context, validate *validator.Validate, layout []Token, entry timeentry.Entry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("submission interrupted: %w", err)
	}

	displayDate, err := timeutil.FormatDisplay(entry.Date)
	if err != nil {
		return fmt.Errorf("cannot format date %q for the entry form: %w", entry.Date, err)
	}
	if err := validateEntry(validate, entry); err != nil {
		return err
	}

	if err := w.Form.NewRow(ctx); err != nil {
		return fmt.Errorf("create new row: %w", err)
	}
	if err := w.sleep(ctx, w.NewRowWait); err != nil {
		return fmt.Errorf("submission interrupted: %w", err)
	}

	for _, step := range Plan(layout, entry, displayDate) {
		switch step.Kind {
		case StepType:
			if err := w.Form.TypeText(ctx, step.Text); err != nil {
				return fmt.Errorf("type %s: %w", step.Field, err)
			}
		case StepTab:
			if err := w.Form.PressTab(ctx); err != nil {
				return fmt.Errorf("press tab: %w", err)
			}
		case StepSuggest:
			if err := w.Form.AcceptSuggestion(ctx, step.Text); err != nil {
				return fmt.Errorf("accept suggestion %q: %w", step.Text, err)
			}
		}
		if err := w.sleep(ctx, w.FieldPause); err != nil {
			return fmt.Errorf("submission interrupted: %w", err)
		}
	}

	if !w.Verify {
		return nil
	}
	message, err := w.Form.RowError(ctx)
	if err != nil {
		return fmt.Errorf("verify row: %w", err)
	}
	if message != "" {
		return fmt.Errorf("rejected by application: %s", message)
	}
	return nil
}

func validateEntry(validate *validator.Validate, entry timeentry.Entry) error {
	rules := entryRules{
		Date:     strings.TrimSpace(entry.Date),
		Project:  strings.TrimSpace(entry.Project),
		Activity: strings.TrimSpace(entry.Activity),
	}
	if entry.Hours != nil {
		rules.Hours = *entry.Hours
	}
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate entry: %w", err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		switch fieldErr.Tag() {
		case "required":
			problems = append(problems, strings.ToLower(fieldErr.Field())+" is required")
		case "gt":
			problems = append(problems, strings.ToLower(fieldErr.Field())+" must be greater than "+fieldErr.Param())
		default:
			problems = append(problems, strings.ToLower(fieldErr.Field())+" is invalid")
		}
	}
	return fmt.Errorf("invalid entry: %s", strings.Join(problems, ", "))
}

func (w *Writer) summary(outcome Outcome, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Submitted %d of %d entries.", len(outcome.SubmittedEntryClientIDs), total)
	if len(outcome.FailedEntries) > 0 {
		fmt.Fprintf(&b, " %d failed.", len(outcome.FailedEntries))
	}
	if !w.Verify && len(outcome.SubmittedEntryClientIDs) > 0 {
		b.WriteString(" Rows were not verified against the application; review the timesheet to confirm.")
	}
	return b.String()
}

func (w *Writer) sleep(ctx context.Context, d time.Duration) error {
	if w.Sleep != nil {
		return w.Sleep(ctx, d)
	}
	return timeutil.Sleep(ctx, d)
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

func newOutcome(capacity int) Outcome {
	return Outcome{
		SubmittedEntryClientIDs: make([]string, 0, capacity),
		FailedEntries:           make([]Failure, 0),
	}
}
