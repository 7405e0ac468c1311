package printer

// ByteClass tells the sink how a byte coming from the emulated machine is handled
type ByteClass int

const (
	// ClassOther bytes are accepted but never printed
	ClassOther ByteClass = iota
	// ClassLineBreak is CR or LF, passed through untouched
	ClassLineBreak
	// ClassPrintable is plain 7-bit ASCII from space to tilde
	ClassPrintable
	// ClassTab is expanded to spaces up to the next tab stop
	ClassTab
)

const (
	charTab = 0x09
	charLF  = 0x0a
	charCR  = 0x0d
)

// Classify returns the class of a single byte
func Classify(b byte) ByteClass {
	switch {
	case b == charCR || b == charLF:
		return ClassLineBreak
	case b >= 0x20 && b <= 0x7e:
		return ClassPrintable
	case b == charTab:
		return ClassTab
	}
	return ClassOther
}

func (c ByteClass) String() string {
	switch c {
	case ClassLineBreak:
		return "line-break"
	case ClassPrintable:
		return "printable"
	case ClassTab:
		return "tab"
	}
	return "other"
}
