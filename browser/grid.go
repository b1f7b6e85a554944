package browser

import (
	"context"
	"time"

	"chronoassist/scrape"

	"github.com/chromedp/chromedp/kb"
)

// Grid reads the rendered rows of the timesheet grid for the scrape reader.
type Grid struct {
	Session      *Session
	Container    string
	Columns      scrape.Columns
	QueryTimeout time.Duration
}

func (g *Grid) Snapshot(ctx context.Context) (scrape.Snapshot, error) {
	queryCtx, cancel := context.WithTimeout(ctx, g.queryTimeout())
	defer cancel()

	html, err := g.Session.HTML(queryCtx, g.Container)
	if err != nil {
		return scrape.Snapshot{}, err
	}
	return scrape.ExtractColumns(html, g.Columns)
}

// Advance scrolls by one page in the focused grid.
func (g *Grid) Advance(ctx context.Context) error {
	queryCtx, cancel := context.WithTimeout(ctx, g.queryTimeout())
	defer cancel()
	return g.Session.Press(queryCtx, kb.PageDown)
}

func (g *Grid) queryTimeout() time.Duration {
	if g.QueryTimeout > 0 {
		return g.QueryTimeout
	}
	return 30 * time.Second
}
