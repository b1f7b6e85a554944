package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"chronoassist/browser"
	"chronoassist/config"
	"chronoassist/internal/timeutil"
	"chronoassist/output"
	"chronoassist/scrape"
	"chronoassist/timeentry"

	"github.com/spf13/cobra"
)

// navigationTimeout bounds each click on a grid navigation or focus target.
const navigationTimeout = 20 * time.Second

var (
	scrapeOutputPath   string
	scrapeOutputFormat string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [daysBack]",
	Short: "Read timesheet rows from the grid and print them as JSON.",
	Long: `Open the timesheet grid in the logged-in browser session and read every row dated
within the last daysBack days (default scrape.days_back, 30).

The grid is scrolled page by page until the cutoff date is reached, no new rows appear,
the end of data is reached, or scrape.max_scrolls is hit. Rows are deduplicated on
Date/Project/Activity/WorkItem. Dates are normalized to YYYY-MM-DD; a date that matches
no known format is passed through unchanged.

Standard output carries one JSON array. If the session cannot be set up, [] is printed
and the command exits non-zero.`,
	Example: `
  # Scrape the default window
  chronoassist scrape

  # Scrape the last 14 days and export them to Excel as well
  chronoassist scrape 14 --output ./timesheet.xlsx
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt)
		defer stop()

		logger := newLogger(cmd.ErrOrStderr(), "scrape")
		stdout := cmd.OutOrStdout()

		cfg, err := config.LoadAndValidate()
		if err != nil {
			return emitEmptyScrape(stdout, fmt.Errorf("load config: %w", err))
		}
		daysBack := parseDaysBack(args, cfg.Scrape.DaysBack, logger)

		session, err := openSession(ctx, cfg, sessionIO{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}, logger)
		if err != nil {
			logger.Error("session setup failed", "err", err)
			return emitEmptyScrape(stdout, err)
		}
		defer session.Close()

		openGrid(ctx, session, cfg.Scrape, logger)

		grid := &browser.Grid{
			Session:   session,
			Container: cfg.Scrape.Container,
			Columns: scrape.Columns{
				Date:     cfg.Scrape.Columns.Date,
				Project:  cfg.Scrape.Columns.Project,
				Activity: cfg.Scrape.Columns.Activity,
				WorkItem: cfg.Scrape.Columns.WorkItem,
				Comment:  cfg.Scrape.Columns.Comment,
			},
		}
		result, readErr := scrape.Read(ctx, grid, scrape.Options{
			DaysBack:    daysBack,
			MaxScrolls:  cfg.Scrape.MaxScrolls,
			ScrollPause: cfg.Scrape.ScrollPause,
			DateLayouts: cfg.Scrape.DateLayouts,
			Logger:      logger,
		})
		if readErr != nil {
			logger.Warn("scrape interrupted", "err", readErr, "collected", len(result.Entries))
		}

		if err := output.EmitEntries(stdout, result.Entries); err != nil {
			return err
		}
		if readErr != nil {
			return readErr
		}

		if strings.TrimSpace(scrapeOutputPath) != "" {
			if err := exportEntries(scrapeOutputPath, scrapeOutputFormat, result.Entries); err != nil {
				logger.Error("export failed", "path", scrapeOutputPath, "err", err)
				return err
			}
			logger.Info("rows exported", "path", scrapeOutputPath, "rows", len(result.Entries))
		}
		return nil
	},
}

// parseDaysBack reads the optional positional window. A missing, non-numeric
// or negative value falls back to the configured default.
func parseDaysBack(args []string, fallback int, logger *slog.Logger) int {
	if len(args) == 0 {
		return fallback
	}
	days, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || days < 0 {
		logger.Warn("invalid daysBack argument, using default", "value", args[0], "default", fallback)
		return fallback
	}
	return days
}

// openGrid navigates to the transactions grid and focuses it. Failures are
// logged only; the grid may already be showing.
func openGrid(ctx context.Context, session *browser.Session, cfg config.ScrapeConfig, logger *slog.Logger) {
	for _, step := range cfg.OpenSteps {
		logger.Info("opening grid", "click", step)
		if err := session.Click(ctx, step, navigationTimeout); err != nil {
			logger.Warn("grid navigation step failed", "click", step, "err", err)
		}
	}

	logger.Info("waiting for grid to load", "wait", cfg.GridLoadWait)
	if err := timeutil.Sleep(ctx, cfg.GridLoadWait); err != nil {
		return
	}

	if strings.TrimSpace(cfg.Focus) == "" {
		return
	}
	if err := session.Click(ctx, cfg.Focus, navigationTimeout); err != nil {
		logger.Warn("focusing grid failed, scrolling may not move", "focus", cfg.Focus, "err", err)
	}
}

func exportEntries(path, format string, entries []timeentry.Entry) error {
	if strings.TrimSpace(format) == "" {
		format = output.DetectFormat(path)
	}
	writer, err := output.WriterForFormat(format)
	if err != nil {
		return err
	}
	return writer.Write(path, entries)
}

// emitEmptyScrape prints [] so stdout stays valid JSON, then returns err.
func emitEmptyScrape(stdout io.Writer, err error) error {
	if emitErr := output.EmitEntries(stdout, nil); emitErr != nil {
		return fmt.Errorf("%w (writing output failed: %v)", err, emitErr)
	}
	return err
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&scrapeOutputPath, "output", "o", "", "Also export scraped rows to this CSV or Excel file")
	scrapeCmd.Flags().StringVar(&scrapeOutputFormat, "format", "", "Export format: csv, excel (default: inferred from --output)")
}
