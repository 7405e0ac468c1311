package syntax

import (
	"fmt"
	"strconv"
)

// escapes understood by DecodeEscapes, besides \xNN
var escapes = map[byte]byte{
	't':  0x09,
	'n':  0x0a,
	'r':  0x0d,
	'f':  0x0c,
	'e':  0x1b,
	'0':  0x00,
	'\\': '\\',
}

// DecodeEscapes turns a command line string like "AB\tC\r\n" into the raw bytes
// that should be sent to the printer port
func DecodeEscapes(input string) ([]byte, error) {
	result := make([]byte, 0, len(input))

	for i := 0; i < len(input); i++ {
		c := input[i]
		if c != '\\' {
			result = append(result, c)
			continue
		}

		i++
		if i >= len(input) {
			return nil, fmt.Errorf("unterminated escape at the end of %q", input)
		}

		if b, ok := escapes[input[i]]; ok {
			result = append(result, b)
			continue
		}

		if input[i] == 'x' {
			if i+3 > len(input) {
				return nil, fmt.Errorf("incomplete hex escape in %q", input)
			}
			val, err := strconv.ParseUint(input[i+1:i+3], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex escape: \\x%s", input[i+1:i+3])
			}
			result = append(result, byte(val))
			i += 2
			continue
		}

		return nil, fmt.Errorf("unknown escape: \\%c", input[i])
	}

	return result, nil
}
