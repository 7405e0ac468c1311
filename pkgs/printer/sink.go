package printer

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// BufferSize is the amount of bytes collected before they are written out
	BufferSize = 2048

	// TabWidth is the distance between tab stops on the emulated machine
	TabWidth = 8
)

// Sink turns bytes sent to the emulated printer port into a text file.
// Bytes are buffered and written out in bursts, the file is opened on the first
// byte and closed again after the stream stays idle, so it can be read by other
// programs in the meantime.
//
// A Sink is not safe for concurrent use, it belongs to the goroutine running the machine.
type Sink struct {
	fs   afero.Fs
	path string

	enabled bool

	buf    [BufferSize]byte
	n      int
	column int

	connected  bool
	dest       afero.File
	openFailed bool

	cadence     time.Duration
	idleTimeout time.Duration
	idleLimit   int
	idleTicks   int

	written uint64
	lastErr error
	onError func(error)
	log     logrus.FieldLogger
}

// New constructs a disconnected, enabled printer writing into path on the given filesystem
func New(fs afero.Fs, path string, options ...Option) (*Sink, error) {
	if fs == nil {
		return nil, errors.New("printer needs a filesystem")
	}
	if path == "" {
		return nil, errors.New("printer needs a destination path")
	}

	s := &Sink{
		fs:          fs,
		path:        path,
		enabled:     true,
		cadence:     DefaultCadence,
		idleTimeout: DefaultIdleTimeout,
		log:         logrus.StandardLogger().WithField("device", "printer"),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, fmt.Errorf("cannot configure printer: %w", err)
		}
	}
	s.idleLimit = idleTicks(s.idleTimeout, s.cadence)

	return s, nil
}

// Enabled sets the initial state of the printing switch
func Enabled(enabled bool) Option {
	return func(s *Sink) error {
		s.enabled = enabled
		return nil
	}
}

// WithLogger replaces the default logrus logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Sink) error {
		s.log = log
		return nil
	}
}

// WithErrorHandler registers a callback receiving open and write failures
func WithErrorHandler(handler func(error)) Option {
	return func(s *Sink) error {
		s.onError = handler
		return nil
	}
}

// AcceptByte passes a byte from the emulated machine to the printer.
// It returns false when printing is disabled or the destination cannot be opened.
// Bytes that are not printed (control codes, 8-bit characters) still count as accepted.
func (s *Sink) AcceptByte(b byte) bool {
	if !s.enabled {
		return false
	}

	if !s.connected {
		s.connect()
	}
	if !s.connected {
		return false
	}

	switch Classify(b) {
	case ClassLineBreak:
		s.appendByte(b)
		if b == charCR {
			s.column = 0
		}
	case ClassPrintable:
		s.appendByte(b)
		s.column++
	case ClassTab:
		s.appendTab()
	}

	return true
}

// Tick is called at a fixed cadence. It writes out whatever got buffered since the
// previous call, or counts an idle period and disconnects after the idle timeout.
func (s *Sink) Tick() {
	if flushed, _ := s.Flush(); flushed {
		s.idleTicks = 0
		return
	}

	s.idleTicks++
	if s.idleTicks >= s.idleLimit {
		if s.connected {
			s.log.Debugf("Printer idle for %s, closing %s", s.idleTimeout, s.path)
		}
		_ = s.Close()
		s.idleTicks = 0
	}
}

// Flush writes the buffered bytes in a single call and empties the buffer.
// It reports whether there was anything to write. Failed writes are not retried.
func (s *Sink) Flush() (bool, error) {
	if s.n == 0 {
		return false, nil
	}

	requested := s.n
	s.n = 0
	if s.dest == nil {
		return true, nil
	}

	written, err := s.dest.Write(s.buf[:requested])
	if written > 0 {
		s.written += uint64(written)
	}
	if err != nil || written < requested {
		werr := &PartialWriteError{Path: s.path, Written: written, Requested: requested, Err: err}
		s.log.Errorf("Not all characters were written: %s", werr.Error())
		s.report(werr)
		return true, werr
	}
	return true, nil
}

// Close flushes the buffer and releases the destination. Calling it on a
// disconnected printer does nothing.
func (s *Sink) Close() error {
	if !s.connected {
		return nil
	}

	_, flushErr := s.Flush()

	var closeErr error
	if err := s.dest.Close(); err != nil {
		closeErr = fmt.Errorf("cannot close printer destination %s: %w", s.path, err)
		s.log.Warn(closeErr.Error())
		s.report(closeErr)
	}
	s.dest = nil
	s.connected = false
	s.idleTicks = 0
	s.log.Debugf("Printer disconnected from %s", s.path)

	return errors.Join(flushErr, closeErr)
}

// Reset drops buffered bytes and rewinds the column counter, the connection stays as it is
func (s *Sink) Reset() {
	s.n = 0
	s.column = 0
}

// SetEnabled flips the printing switch, disabling does not close an open destination
func (s *Sink) SetEnabled(enabled bool) {
	s.enabled = enabled
}

func (s *Sink) Enabled() bool {
	return s.enabled
}

func (s *Sink) Connected() bool {
	return s.connected
}

func (s *Sink) Path() string {
	return s.path
}

// Buffered returns the number of bytes waiting for the next flush
func (s *Sink) Buffered() int {
	return s.n
}

// Column returns the number of characters printed since the last carriage return
func (s *Sink) Column() int {
	return s.column
}

func (s *Sink) IdleTicks() int {
	return s.idleTicks
}

// IdleLimit returns the number of idle Tick calls that closes the destination
func (s *Sink) IdleLimit() int {
	return s.idleLimit
}

// Written returns the number of bytes delivered to the destination so far
func (s *Sink) Written() uint64 {
	return s.written
}

// LastError returns the most recent open or write failure
func (s *Sink) LastError() error {
	return s.lastErr
}

func (s *Sink) connect() {
	dest, err := s.fs.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		openErr := fmt.Errorf("%w %s: %w", ErrOpenFailure, s.path, err)
		if !s.openFailed {
			s.log.Warn(openErr.Error())
		} else {
			s.log.Debug(openErr.Error())
		}
		s.openFailed = true
		s.report(openErr)
		return
	}

	s.openFailed = false
	s.dest = dest
	s.connected = true
	s.Reset()
	s.log.Debugf("Printer connected to %s", s.path)
}

func (s *Sink) appendByte(b byte) {
	if s.n == BufferSize {
		_, _ = s.Flush()
	}
	s.buf[s.n] = b
	s.n++
}

// appendTab never splits the spaces of one tab across two flushes
func (s *Sink) appendTab() {
	if s.n > BufferSize-TabWidth {
		_, _ = s.Flush()
	}
	spaces := TabWidth - s.column%TabWidth
	for i := 0; i < spaces; i++ {
		s.buf[s.n] = ' '
		s.n++
		s.column++
	}
}

func (s *Sink) report(err error) {
	s.lastErr = err
	if s.onError != nil {
		s.onError(err)
	}
}
