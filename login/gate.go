// Package login holds the interactive trust boundary: the run blocks until a
// human has authenticated in the browser, detected either by a page marker or
// by an explicit acknowledgment on the console.
package login

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

var ErrGateTimeout = errors.New("timed out waiting for login")

// Gate blocks until the session is usable.
type Gate interface {
	Wait(ctx context.Context) error
}

// Prober reports whether target is currently present on the page.
type Prober interface {
	Exists(ctx context.Context, target string) (bool, error)
}

// MarkerGate polls for a post-login page marker.
type MarkerGate struct {
	Prober       Prober
	Marker       string
	Timeout      time.Duration
	PollInterval time.Duration
	Logger       *slog.Logger
}

func (g MarkerGate) Wait(ctx context.Context) error {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := g.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	waitCtx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("waiting for login marker", "marker", g.Marker, "timeout", g.Timeout)
	var lastErr error
	for {
		found, err := g.Prober.Exists(waitCtx, g.Marker)
		if err == nil && found {
			logger.Info("login marker found")
			return nil
		}
		if err != nil {
			lastErr = err
			logger.Debug("probing login marker failed", "err", err)
		}

		select {
		case <-waitCtx.Done():
			if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				if lastErr != nil {
					return fmt.Errorf("%w after %s (marker %q, last probe error: %v)", ErrGateTimeout, g.Timeout, g.Marker, lastErr)
				}
				return fmt.Errorf("%w after %s (marker %q)", ErrGateTimeout, g.Timeout, g.Marker)
			}
			return fmt.Errorf("waiting for login interrupted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// ConsoleGate waits for the operator to press Enter. When In is an io.Closer
// it is closed once the gate gives up, which releases the pending read.
type ConsoleGate struct {
	In      io.Reader
	Out     io.Writer
	Timeout time.Duration
}

func (g ConsoleGate) Wait(ctx context.Context) error {
	if g.Out != nil {
		fmt.Fprintln(g.Out, "Complete the login in the opened browser, then press Enter to continue.")
	}

	// The read runs aside so the timeout and ctx can win; it ends when a line
	// arrives or In is closed below.
	done := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(g.In)
		_, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = errors.New("console closed before login was acknowledged")
		}
		done <- err
	}()

	timer := time.NewTimer(g.Timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		g.release()
		return fmt.Errorf("%w after %s (no console acknowledgment)", ErrGateTimeout, g.Timeout)
	case <-ctx.Done():
		g.release()
		return fmt.Errorf("waiting for login interrupted: %w", ctx.Err())
	}
}

func (g ConsoleGate) release() {
	if closer, ok := g.In.(io.Closer); ok {
		_ = closer.Close()
	}
}
