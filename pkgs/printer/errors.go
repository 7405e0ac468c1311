package printer

import (
	"errors"
	"fmt"
)

// ErrOpenFailure is wrapped by every error returned when the destination file cannot be opened
var ErrOpenFailure = errors.New("cannot open printer destination")

// PartialWriteError is reported when a flush did not deliver the whole buffer.
// The buffered bytes are dropped anyway, a printer must never stall the machine.
type PartialWriteError struct {
	Path      string
	Written   int
	Requested int
	Err       error
}

func (e *PartialWriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("printer wrote %d of %d bytes to %s: %s", e.Written, e.Requested, e.Path, e.Err.Error())
	}
	return fmt.Sprintf("printer wrote %d of %d bytes to %s", e.Written, e.Requested, e.Path)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
