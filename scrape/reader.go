// Package scrape reads timesheet rows from a lazily rendered grid. The grid is
// scrolled one page at a time until the rows leave the requested date window,
// scrolling stops producing unseen rows, or the scroll ceiling is reached.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chronoassist/internal/timeutil"
	"chronoassist/timeentry"
)

// Snapshot holds the cell values of the currently rendered rows, one slice per
// column. Columns are aligned by index; a column may be shorter than Date.
type Snapshot struct {
	Date     []string
	Project  []string
	Activity []string
	WorkItem []string
	Comment  []string
}

func (s Snapshot) Rows() int {
	return len(s.Date)
}

// Grid is the page the reader drives.
type Grid interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	// Advance scrolls the grid by one page.
	Advance(ctx context.Context) error
}

type StopReason string

const (
	StopNoRows     StopReason = "no-rows"
	StopEndOfData  StopReason = "end-of-data"
	StopCutoff     StopReason = "cutoff"
	StopStagnant   StopReason = "stagnant"
	StopMaxScrolls StopReason = "max-scrolls"
	StopGridError  StopReason = "grid-error"
)

type Options struct {
	DaysBack    int
	MaxScrolls  int
	ScrollPause time.Duration
	DateLayouts []string
	Now         func() time.Time
	Sleep       func(ctx context.Context, d time.Duration) error
	Logger      *slog.Logger
}

type Result struct {
	Entries []timeentry.Entry
	Stop    StopReason
	Passes  int
	Scrolls int
	Cutoff  time.Time
}

// Read collects entries newer than the cutoff. Only a done ctx yields an error;
// grid failures end the crawl and return what was collected so far.
func Read(ctx context.Context, grid Grid, opts Options) (Result, error) {
	opts = withDefaults(opts)
	logger := opts.Logger

	cutoff := timeutil.Cutoff(opts.Now(), opts.DaysBack)
	result := Result{Entries: make([]timeentry.Entry, 0, 64), Cutoff: cutoff}
	seen := timeentry.KeySet{}

	logger.Info("reading grid", "cutoff", cutoff.Format(timeutil.CanonicalLayout), "max_scrolls", opts.MaxScrolls)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		snapshot, err := grid.Snapshot(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			logger.Warn("querying grid rows failed", "pass", result.Passes+1, "err", err)
			result.Stop = StopGridError
			break
		}
		firstPass := result.Passes == 0
		result.Passes++

		if snapshot.Rows() == 0 {
			if firstPass {
				logger.Warn("no rows found on first read; check selectors or page load")
				result.Stop = StopNoRows
			} else {
				logger.Info("no rows found in current view")
				result.Stop = StopEndOfData
			}
			break
		}

		batch := readBatch(snapshot, cutoff, opts.DateLayouts, seen, logger)
		result.Entries = append(result.Entries, batch.fresh...)
		logger.Info("processed rows",
			"pass", result.Passes,
			"rendered", snapshot.Rows(),
			"new", len(batch.fresh),
			"total", len(result.Entries),
		)

		if batch.hasEarliest && batch.earliest.Before(cutoff) {
			logger.Info("reached rows older than cutoff",
				"earliest", batch.earliest.Format(timeutil.CanonicalLayout),
				"days_back", opts.DaysBack,
			)
			result.Stop = StopCutoff
			break
		}
		if len(batch.fresh) == 0 && !firstPass {
			logger.Info("no new rows after scrolling")
			result.Stop = StopStagnant
			break
		}
		if result.Scrolls >= opts.MaxScrolls {
			logger.Info("reached max scrolls", "scrolls", result.Scrolls)
			result.Stop = StopMaxScrolls
			break
		}

		logger.Info("scrolling down", "attempt", result.Scrolls+1)
		if err := grid.Advance(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			logger.Warn("scrolling grid failed", "err", err)
			result.Stop = StopGridError
			break
		}
		result.Scrolls++
		if err := opts.Sleep(ctx, opts.ScrollPause); err != nil {
			return result, err
		}
	}

	logger.Info("scraping finished", "entries", len(result.Entries), "stop", string(result.Stop))
	return result, nil
}

type batch struct {
	fresh       []timeentry.Entry
	earliest    time.Time
	hasEarliest bool
}

func readBatch(snapshot Snapshot, cutoff time.Time, layouts []string, seen timeentry.KeySet, logger *slog.Logger) batch {
	out := batch{}
	for i := 0; i < snapshot.Rows(); i++ {
		entry, parsed, err := buildEntry(snapshot, i, layouts)
		if err != nil {
			logger.Warn("skipping row", "row", i, "err", err)
			continue
		}
		if parsed.IsZero() {
			logger.Warn("could not parse date, keeping raw value and skipping date filter", "row", i, "date", entry.Date)
		}
		logger.Debug("row",
			"row", i,
			"date", entry.Date,
			"project", entry.Project,
			"activity", entry.Activity,
			"work_item", entry.WorkItem,
			"comment", entry.Comment,
		)

		if !parsed.IsZero() {
			if !out.hasEarliest || parsed.Before(out.earliest) {
				out.earliest = parsed
				out.hasEarliest = true
			}
			if parsed.Before(cutoff) {
				logger.Debug("row older than cutoff", "row", i, "date", entry.Date)
				continue
			}
		}

		if !seen.Add(entry.Key()) {
			logger.Debug("skipping duplicate row", "key", entry.Key().String())
			continue
		}
		out.fresh = append(out.fresh, entry)
	}
	return out
}

// buildEntry returns the zero time when the date cell could not be parsed; the
// raw text is kept as the entry date in that case.
func buildEntry(snapshot Snapshot, i int, layouts []string) (timeentry.Entry, time.Time, error) {
	rawDate := cell(snapshot.Date, i)
	if rawDate == "" {
		return timeentry.Entry{}, time.Time{}, fmt.Errorf("empty date cell")
	}

	entry := timeentry.Entry{
		Date:     rawDate,
		Project:  cell(snapshot.Project, i),
		Activity: cell(snapshot.Activity, i),
		WorkItem: cell(snapshot.WorkItem, i),
		Comment:  cell(snapshot.Comment, i),
	}

	parsed, err := timeutil.ParseDate(rawDate, layouts)
	if err != nil {
		return entry, time.Time{}, nil
	}
	entry.Date = parsed.Format(timeutil.CanonicalLayout)
	return entry, parsed, nil
}

func cell(column []string, i int) string {
	if i < 0 || i >= len(column) {
		return ""
	}
	return strings.TrimSpace(column[i])
}

func withDefaults(opts Options) Options {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = timeutil.Sleep
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = timeutil.GridLayouts
	}
	return opts
}
