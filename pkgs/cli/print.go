package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/keskad/printsink/pkgs/app"
	"github.com/keskad/printsink/pkgs/output"
	"github.com/keskad/printsink/pkgs/syntax"
	"github.com/spf13/cobra"
)

func NewPrintCommand(printApp *app.PrintApp) *cobra.Command {
	type PrintArgs struct {
		File       string
		Output     string
		Disable    bool
		Escapes    bool
		FrameBytes int
		Realtime   bool
		Linger     bool
	}

	cmdArgs := PrintArgs{}
	command := &cobra.Command{
		Use:   "print [text...]",
		Short: "Send bytes to the emulated printer, use '-' to read them from stdin",
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, args []string) error {
			printApp.P = output.WriterPrinter{W: command.OutOrStdout()}
			if err := printApp.Initialize(); err != nil {
				return err
			}

			input, closeInput, inputErr := inputFor(cmdArgs.File, args, cmdArgs.Escapes, command.InOrStdin())
			if inputErr != nil {
				return inputErr
			}
			defer closeInput()

			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt)
			defer stop()

			_, err := printApp.PrintAction(ctx, input, app.PrintOptions{
				Path:       cmdArgs.Output,
				Disable:    cmdArgs.Disable,
				FrameBytes: cmdArgs.FrameBytes,
				Realtime:   cmdArgs.Realtime,
				Linger:     cmdArgs.Linger,
			})
			return err
		},
	}

	command.Flags().BoolVarP(&printApp.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().StringVarP(&cmdArgs.File, "file", "f", "", "Read raw bytes from a file instead of the arguments")
	command.Flags().StringVarP(&cmdArgs.Output, "output", "o", "", "Print into this file instead of the configured one")
	command.Flags().BoolVarP(&cmdArgs.Disable, "disable", "", false, "Disable printing, all bytes are refused")
	command.Flags().BoolVarP(&cmdArgs.Escapes, "escapes", "e", false, "Interpret escapes like \\t, \\r, \\n and \\xNN in the arguments")
	command.Flags().IntVarP(&cmdArgs.FrameBytes, "frame-bytes", "", 64, "Bytes sent to the printer per emulated frame")
	command.Flags().BoolVarP(&cmdArgs.Realtime, "realtime", "", false, "Pace the frames at the configured cadence")
	command.Flags().BoolVarP(&cmdArgs.Linger, "linger", "", false, "Keep running after the input ends until the printer goes idle")

	return command
}

func NewPathCommand(app *app.PrintApp) *cobra.Command {
	var outputPath string
	command := &cobra.Command{
		Use:   "path",
		Short: "Show the file the printer output goes to",
		RunE: func(command *cobra.Command, args []string) error {
			app.P = output.WriterPrinter{W: command.OutOrStdout()}
			if err := app.Initialize(); err != nil {
				return err
			}
			return app.PathAction(outputPath)
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().StringVarP(&outputPath, "output", "o", "", "Path that would override the configured one")

	return command
}

// inputFor picks the byte source: a file, stdin or the arguments
func inputFor(file string, args []string, escapes bool, stdin io.Reader) (io.Reader, func(), error) {
	noop := func() {}

	if file != "" {
		if len(args) > 0 {
			return nil, noop, fmt.Errorf("cannot print both a file and arguments")
		}
		f, err := os.Open(file)
		if err != nil {
			return nil, noop, fmt.Errorf("cannot open input: %w", err)
		}
		return f, func() { f.Close() }, nil
	}

	// stream stdin as it comes when "-" is the only argument
	if len(args) == 1 && args[0] == "-" {
		return stdin, noop, nil
	}

	payload, err := parseArgsAsPayload(args, escapes, stdin)
	if err != nil {
		return nil, noop, err
	}
	return bytes.NewReader(payload), noop, nil
}

// parseArgsAsPayload joins the arguments with spaces, a trailing "-" appends stdin
func parseArgsAsPayload(args []string, escapes bool, stdin io.Reader) ([]byte, error) {
	var stdinData []byte
	if len(args) >= 1 && args[len(args)-1] == "-" {
		args = args[:len(args)-1]

		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %v", err)
		}
		stdinData = data
	}

	if len(args) == 0 && stdinData == nil {
		return nil, fmt.Errorf("nothing to print")
	}

	parts := make([]string, 0, len(args))
	for _, a := range args {
		if strings.Trim(a, " ") == "" {
			continue
		}
		parts = append(parts, a)
	}
	text := strings.Join(parts, " ")

	payload := []byte(text)
	if escapes {
		decoded, err := syntax.DecodeEscapes(text)
		if err != nil {
			return nil, err
		}
		payload = decoded
	}

	if stdinData != nil {
		if len(payload) > 0 {
			payload = append(payload, ' ')
		}
		payload = append(payload, stdinData...)
	}

	return payload, nil
}
