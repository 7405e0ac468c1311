package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/keskad/printsink/pkgs/config"
	"github.com/keskad/printsink/pkgs/printer"
	"github.com/sirupsen/logrus"
)

type PrintOptions struct {
	// Path overrides the configured output file
	Path    string
	Disable bool

	// FrameBytes is how many bytes the emulated machine sends between two idle checks
	FrameBytes int
	// Realtime paces the frames at the configured cadence instead of running flat out
	Realtime bool
	// Linger keeps ticking after the input ends until the printer closes itself
	Linger bool
}

type PrintReport struct {
	Accepted int
	Rejected int
	Frames   int
	Written  uint64
}

// PrintAction sends the whole input to the emulated printer port, frame by frame
func (app *PrintApp) PrintAction(ctx context.Context, input io.Reader, opts PrintOptions) (PrintReport, error) {
	if opts.FrameBytes <= 0 {
		return PrintReport{}, fmt.Errorf("frame size must be positive, got %d", opts.FrameBytes)
	}
	if err := app.initializeSink(opts.Path, opts.Disable); err != nil {
		return PrintReport{}, err
	}

	report, feedErr := app.feed(ctx, input, opts)
	if closeErr := app.Shutdown(); closeErr != nil {
		logrus.Warnf("Printer did not close cleanly: %s", closeErr.Error())
	}
	report.Written = app.sink.Written()

	if feedErr != nil {
		return report, feedErr
	}

	if report.Rejected > 0 {
		if !app.sink.Enabled() {
			app.P.Printf("Printing is disabled, %d bytes dropped\n", report.Rejected)
			return report, nil
		}
		if err := app.sink.LastError(); errors.Is(err, printer.ErrOpenFailure) {
			return report, fmt.Errorf("cannot print: %w", err)
		}
	}
	if app.failures > 0 {
		logrus.Warnf("Printer reported %d failures, last one: %s", app.failures, app.sink.LastError())
	}

	app.P.Printf("Printed %s to %s\n", humanize.Bytes(report.Written), app.sink.Path())
	return report, nil
}

func (app *PrintApp) feed(ctx context.Context, input io.Reader, opts PrintOptions) (PrintReport, error) {
	report := PrintReport{}
	sink := app.sink

	var frameClock <-chan time.Time
	if opts.Realtime {
		ticker := time.NewTicker(app.Config.Printer.Cadence)
		defer ticker.Stop()
		frameClock = ticker.C
	}

	frame := make([]byte, opts.FrameBytes)
	for {
		n, readErr := input.Read(frame)
		for _, b := range frame[:n] {
			if sink.AcceptByte(b) {
				report.Accepted++
			} else {
				report.Rejected++
			}
		}
		sink.Tick()
		report.Frames++

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return report, fmt.Errorf("cannot read printer input: %w", readErr)
		}
		if err := waitFrame(ctx, frameClock); err != nil {
			return report, err
		}
	}

	if opts.Linger {
		logrus.Debugf("Input finished, waiting up to %d frames for the printer to go idle", sink.IdleLimit())
		for sink.Connected() {
			if err := waitFrame(ctx, frameClock); err != nil {
				return report, err
			}
			sink.Tick()
			report.Frames++
		}
	}

	logrus.Debugf("Fed %d frames, %d bytes accepted, %d rejected", report.Frames, report.Accepted, report.Rejected)
	return report, nil
}

// waitFrame blocks until the next frame when running in real time
func waitFrame(ctx context.Context, frameClock <-chan time.Time) error {
	if frameClock == nil {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-frameClock:
		return nil
	}
}

// PathAction shows where the printer output goes
func (app *PrintApp) PathAction(path string) error {
	if path == "" {
		path = app.Config.Printer.Path
	} else if !config.ValidPath(path) {
		return fmt.Errorf("invalid printer output path: %q", path)
	}
	app.P.Printf("%s\n", path)
	return nil
}
