package mddoc

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	_, err := cleanInput(src)
	return err
}

// cleanInput validates src and returns a copy without control characters
// other than tab, newline and carriage return. Generated text occasionally
// carries stray escape bytes that would otherwise end up in document runs.
// Input is binary when it holds a NUL byte, or when at least maxControlPct
// percent of a sample of minBinarySample bytes or more are control bytes.
func cleanInput(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	control := 0
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return nil, ErrInvalidUTF8
		case r == 0:
			return nil, ErrBinaryInput
		case isControlRune(r):
			control++
		default:
			dst = append(dst, src[i:i+size]...)
		}
		i += size
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return nil, ErrBinaryInput
	}
	return dst, nil
}

func isControlRune(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	}
	return r < 0x20 || r == 0x7F
}
