package output

import (
	"fmt"
	"io"
)

// Printer is where user facing messages go, not to be confused with the emulated printer
type Printer interface {
	Printf(format string, a ...any) (n int, err error)
}

type ConsolePrinter struct{}

func (c ConsolePrinter) Printf(format string, a ...any) (n int, err error) {
	return fmt.Printf(format, a...)
}

// WriterPrinter prints into any writer, e.g. cobra's command output
type WriterPrinter struct {
	W io.Writer
}

func (w WriterPrinter) Printf(format string, a ...any) (n int, err error) {
	return fmt.Fprintf(w.W, format, a...)
}
