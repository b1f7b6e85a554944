package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"chronoassist/browser"
	"chronoassist/config"
	"chronoassist/login"
)

// sessionIO carries the operator's terminal for the console gate.
type sessionIO struct {
	In  io.Reader
	Out io.Writer
}

// openSession launches the browser on the configured profile, opens the app
// and blocks on the login gate. On error the browser is already closed.
func openSession(ctx context.Context, cfg *config.Config, console sessionIO, logger *slog.Logger) (*browser.Session, error) {
	profileDir, err := browser.ResolveProfileDir(cfg.Browser.ProfileRoot, cfg.Browser.ProfileName)
	if err != nil {
		return nil, err
	}

	session, err := browser.Launch(ctx, browser.Options{
		ProfileDir: profileDir,
		ExecPath:   cfg.Browser.ExecPath,
		Headless:   cfg.Browser.Headless,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	if err := session.Navigate(ctx, cfg.App.URL); err != nil {
		session.Close()
		return nil, err
	}

	gate := newGate(cfg.Login, session, console, logger)
	if err := gate.Wait(ctx); err != nil {
		session.Close()
		return nil, fmt.Errorf("login gate: %w", err)
	}
	return session, nil
}

func newGate(cfg config.LoginConfig, prober login.Prober, console sessionIO, logger *slog.Logger) login.Gate {
	if cfg.Mode == config.LoginModeConsole {
		return login.ConsoleGate{In: console.In, Out: console.Out, Timeout: cfg.Timeout}
	}
	return login.MarkerGate{
		Prober:       prober,
		Marker:       cfg.Marker,
		Timeout:      cfg.Timeout,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	}
}

func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
