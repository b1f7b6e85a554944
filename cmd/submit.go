package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"chronoassist/browser"
	"chronoassist/config"
	"chronoassist/importer"
	"chronoassist/output"
	"chronoassist/submit"
	"chronoassist/timeentry"

	"github.com/spf13/cobra"
)

var (
	submitInputPath   string
	submitInputFormat string
)

var submitCmd = &cobra.Command{
	Use:   "submit [entriesJSON]",
	Short: "Type timesheet entries into the entry form and print a JSON result.",
	Long: `Open the timesheet entry screen in the logged-in browser session and enter each entry
as a new row, following submit.tab_order.

Entries come from the JSON array argument, or from --input (JSON, CSV or Excel file).
Without either, three built-in sample entries are used.

Entries without an id get a generated one. An entry whose date cannot be parsed, or
which lacks Date, Project, Activity or positive Hours, fails without touching the form.
One failed entry never stops the others.

Standard output always carries one JSON object:
  {"overallSuccess": bool, "message": string, "submittedEntryClientIds": [...], "failedEntries": [{"client_id", "error"}]}
The exit code does not signal partial failure.`,
	Example: `
  # Submit entries passed as argument
  chronoassist submit '[{"id":"a","Date":"2025-05-13","Project":"Project Alpha","Activity":"Development","WorkItem":"Feature X","Hours":0.5}]'

  # Submit entries from an Excel sheet
  chronoassist submit --input ./entries.xlsx

  # Try the built-in sample entries
  chronoassist submit
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt)
		defer stop()

		logger := newLogger(cmd.ErrOrStderr(), "submit")
		stdout := cmd.OutOrStdout()

		entries, rejections, sample, err := resolveSubmitEntries(args, submitInputPath, submitInputFormat)
		if err != nil {
			logger.Error("invalid entries input", "err", err)
			return output.EmitJSON(stdout, inputFailure(err))
		}
		if sample {
			logger.Warn("no entries given, using built-in sample entries")
		}
		entries = submit.AssignClientIDs(entries)
		rejected := rejectedFailures(rejections)

		if len(entries) == 0 {
			writer := &submit.Writer{Logger: logger}
			return output.EmitJSON(stdout, writer.Submit(ctx, entries, rejected...))
		}

		cfg, err := config.LoadAndValidate()
		if err != nil {
			return output.EmitJSON(stdout, submit.FailAll(entries, fmt.Errorf("load config: %w", err), rejected...))
		}
		layout, err := submit.ParseLayout(cfg.Submit.TabOrder)
		if err != nil {
			return output.EmitJSON(stdout, submit.FailAll(entries, err, rejected...))
		}

		session, err := openSession(ctx, cfg, sessionIO{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}, logger)
		if err != nil {
			logger.Error("session setup failed", "err", err)
			return output.EmitJSON(stdout, submit.FailAll(entries, err, rejected...))
		}
		defer session.Close()

		writer := &submit.Writer{
			Form: &browser.Form{
				Session:      session,
				OpenSteps:    cfg.Submit.OpenSteps,
				ReadyMarker:  cfg.Submit.ReadyMarker,
				ReadyTimeout: cfg.Submit.ReadyTimeout,
				NewRowTarget: cfg.Submit.NewRow,
				Suggestion:   cfg.Submit.Suggestion,
				ErrorBanner:  cfg.Submit.ErrorBanner,
				Logger:       logger,
			},
			Layout:     layout,
			FieldPause: cfg.Submit.FieldPause,
			EntryPause: cfg.Submit.EntryPause,
			NewRowWait: cfg.Submit.NewRowWait,
			Verify:     strings.TrimSpace(cfg.Submit.ErrorBanner) != "",
			Logger:     logger,
		}
		return output.EmitJSON(stdout, writer.Submit(ctx, entries, rejected...))
	},
}

// resolveSubmitEntries picks the entry source: argument, then --input, then
// the sample entries. The bool reports whether the sample was used.
func resolveSubmitEntries(args []string, inputPath, inputFormat string) ([]timeentry.Entry, []importer.Rejection, bool, error) {
	if len(args) > 0 {
		entries, rejected, err := importer.DecodeEntries([]byte(args[0]))
		return entries, rejected, false, err
	}
	if strings.TrimSpace(inputPath) != "" {
		entries, rejected, err := importer.ReadEntriesFile(inputPath, inputFormat)
		return entries, rejected, false, err
	}
	return sampleEntries(), nil, true, nil
}

func rejectedFailures(rejections []importer.Rejection) []submit.Failure {
	failures := make([]submit.Failure, 0, len(rejections))
	for _, rejection := range rejections {
		failures = append(failures, submit.Failure{ClientID: rejection.ClientID, Error: rejection.Err.Error()})
	}
	return failures
}

func sampleEntries() []timeentry.Entry {
	entries := make([]timeentry.Entry, 0, 3)
	for range 3 {
		entries = append(entries, timeentry.Entry{
			Date:     "2025-05-13",
			Project:  "Project Alpha",
			Activity: "Development",
			WorkItem: "Feature X",
			Hours:    timeentry.HoursPtr(0.5),
			Comment:  "API integration and testing",
		})
	}
	return entries
}

// inputFailure is the result for input that could not be decoded at all.
func inputFailure(err error) submit.Outcome {
	return submit.Outcome{
		OverallSuccess:          false,
		Message:                 fmt.Sprintf("Invalid entries input: %v", err),
		SubmittedEntryClientIDs: []string{},
		FailedEntries:           []submit.Failure{},
	}
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&submitInputPath, "input", "i", "", "Read entries from a JSON, CSV or Excel file instead of the argument")
	submitCmd.Flags().StringVar(&submitInputFormat, "format", "", "Input format: json, csv, excel (default: inferred from --input)")
}
