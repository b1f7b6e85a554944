package login

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type fakeProber struct {
	foundAfter int
	calls      int
	err        error
}

func (p *fakeProber) Exists(_ context.Context, _ string) (bool, error) {
	p.calls++
	if p.err != nil {
		return false, p.err
	}
	return p.calls > p.foundAfter, nil
}

func TestMarkerGate_ReturnsWhenMarkerAppears(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{foundAfter: 2}
	gate := MarkerGate{
		Prober:       prober,
		Marker:       "Time",
		Timeout:      5 * time.Second,
		PollInterval: time.Millisecond,
	}
	if err := gate.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if prober.calls != 3 {
		t.Fatalf("expected 3 probes, got %d", prober.calls)
	}
}

func TestMarkerGate_TimesOut(t *testing.T) {
	t.Parallel()

	gate := MarkerGate{
		Prober:       &fakeProber{err: errors.New("no such node")},
		Marker:       "Time",
		Timeout:      20 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}
	err := gate.Wait(context.Background())
	if !errors.Is(err, ErrGateTimeout) {
		t.Fatalf("expected ErrGateTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "no such node") {
		t.Fatalf("expected last probe error in message, got %v", err)
	}
}

func TestMarkerGate_ParentCancellationIsNotTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gate := MarkerGate{
		Prober:       &fakeProber{foundAfter: 1000},
		Marker:       "Time",
		Timeout:      time.Second,
		PollInterval: time.Millisecond,
	}
	err := gate.Wait(ctx)
	if err == nil || errors.Is(err, ErrGateTimeout) {
		t.Fatalf("expected interruption error, got %v", err)
	}
}

func TestConsoleGate_AcknowledgedByEnter(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	gate := ConsoleGate{In: strings.NewReader("\n"), Out: &out, Timeout: time.Second}
	if err := gate.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !strings.Contains(out.String(), "press Enter") {
		t.Fatalf("expected prompt, got %q", out.String())
	}
}

func TestConsoleGate_ClosedInputFails(t *testing.T) {
	t.Parallel()

	gate := ConsoleGate{In: strings.NewReader(""), Timeout: time.Second}
	if err := gate.Wait(context.Background()); err == nil {
		t.Fatalf("expected error for closed console")
	}
}

func TestConsoleGate_TimesOut(t *testing.T) {
	t.Parallel()

	reader, writer := io.Pipe()
	defer writer.Close()
	gate := ConsoleGate{In: reader, Timeout: 10 * time.Millisecond}
	if err := gate.Wait(context.Background()); !errors.Is(err, ErrGateTimeout) {
		t.Fatalf("expected ErrGateTimeout, got %v", err)
	}
	if _, err := writer.Write([]byte("\n")); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected console input to be released after timeout, got %v", err)
	}
}

func TestConsoleGate_CancellationReleasesInput(t *testing.T) {
	t.Parallel()

	reader, writer := io.Pipe()
	defer writer.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gate := ConsoleGate{In: reader, Timeout: time.Second}
	err := gate.Wait(ctx)
	if err == nil || errors.Is(err, ErrGateTimeout) {
		t.Fatalf("expected interruption error, got %v", err)
	}
	if _, err := writer.Write([]byte("\n")); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected console input to be released after cancellation, got %v", err)
	}
}
