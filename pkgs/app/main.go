package app

import (
	"errors"
	"fmt"

	"github.com/keskad/printsink/pkgs/config"
	"github.com/keskad/printsink/pkgs/output"
	"github.com/keskad/printsink/pkgs/printer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type PrintApp struct {
	Config *config.Configuration
	P      output.Printer
	Fs     afero.Fs
	sink   *printer.Sink

	// runtime parameters
	Debug bool

	// failures counts open and write errors reported by the printer device
	failures int
}

// Initialize is running after parsing the arguments, so we know how to configure the app
func (app *PrintApp) Initialize() error {
	// logging
	if app.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if app.P == nil {
		app.P = output.ConsolePrinter{}
	}

	// configuration
	logrus.Debug("Reading configuration files")
	cfg, cfgErr := config.NewConfig()
	app.Config = cfg
	if cfgErr != nil {
		return fmt.Errorf("cannot initialize app: %s", cfgErr)
	}
	return nil
}

// initializeSink plugs the emulated printer in, the command line may override the configuration
func (app *PrintApp) initializeSink(path string, disable bool) error {
	if app.Config == nil {
		return errors.New("cannot initialize printer: app is not initialized")
	}
	if app.Fs == nil {
		app.Fs = afero.NewOsFs()
	}
	if app.P == nil {
		app.P = output.ConsolePrinter{}
	}

	app.failures = 0

	if path == "" {
		path = app.Config.Printer.Path
	} else if !config.ValidPath(path) {
		return fmt.Errorf("invalid printer output path: %q", path)
	}

	logrus.Debugf("Initializing printer, output goes to %s", path)
	sink, err := printer.New(app.Fs, path,
		printer.Enabled(app.Config.Printer.Enabled && !disable),
		printer.WithIdleTimeout(app.Config.Printer.Idle),
		printer.WithCadence(app.Config.Printer.Cadence),
		printer.WithLogger(logrus.WithField("device", "printer")),
		printer.WithErrorHandler(func(err error) {
			app.failures++
		}),
	)
	if err != nil {
		return fmt.Errorf("cannot initialize printer: %w", err)
	}
	app.sink = sink
	return nil
}

// Sink exposes the printer device for the emulator core (enable, status, force close)
func (app *PrintApp) Sink() *printer.Sink {
	return app.sink
}

// Shutdown closes all printer connections
func (app *PrintApp) Shutdown() error {
	if app.sink == nil {
		return nil
	}
	logrus.Debug("Shutting down printer")
	return app.sink.Close()
}
