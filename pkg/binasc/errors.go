package binasc

import (
	"errors"
	"fmt"
)

// Token syntax rules. Each EncodingError wraps exactly one of these.
var (
	ErrHexTooLong        = errors.New("size of hexadecimal number is too large, max is ff")
	ErrHexInvalid        = errors.New("invalid character in hexadecimal number")
	ErrAsciiTooLong      = errors.New("character byte word is too long, specify only one character")
	ErrBinaryExtraComma  = errors.New("extra comma in binary number")
	ErrBinaryInvalid     = errors.New("invalid character in binary number")
	ErrBinaryLeadComma   = errors.New("cannot start binary number with a comma")
	ErrBinaryTrailComma  = errors.New("cannot end binary number with a comma")
	ErrBinaryTooLong     = errors.New("too many digits in binary number")
	ErrBinaryLeftNibble  = errors.New("too many digits to left of comma")
	ErrBinaryRightNibble = errors.New("too many digits to right of comma")

	ErrExtraQuote        = errors.New("extra quote in decimal number")
	ErrExtraSign         = errors.New("cannot have more than one minus sign in number")
	ErrSignPosition      = errors.New("minus sign must immediately follow quote mark")
	ErrPeriodBeforeQuote = errors.New("cannot have decimal marker before quote")
	ErrExtraPeriod       = errors.New("extra period in decimal number")
	ErrEndianAfterQuote  = errors.New("cannot have endian specified after quote")
	ErrExtraEndian       = errors.New("extra \"u\" in decimal number")
	ErrExtraByteCount    = errors.New("invalid byte specification before quote in decimal number")
	ErrDigitBeforeQuote  = errors.New("cannot have numbers before quote in decimal number")
	ErrDecimalInvalid    = errors.New("invalid character in decimal number")
	ErrMissingQuote      = errors.New("there must be a quote to signify a decimal number")
	ErrMissingNumber     = errors.New("there must be a decimal number after the quote")
	ErrDoubleNeedsFloat  = errors.New("only floating-point numbers can use 8 bytes")
	ErrFloatSize         = errors.New("floating-point numbers can be only 4 or 8 bytes")
	ErrSignedRange       = errors.New("decimal number out of range from -128 to 127")
	ErrUnsignedRange     = errors.New("decimal number out of range from 0 to 255")
	ErrNegativeThreeByte = errors.New("negative decimal numbers cannot be stored in 3 bytes")
	ErrByteCount         = errors.New("invalid byte count specification for decimal number")
	ErrBadNumber         = errors.New("malformed number")

	ErrVLVDigit    = errors.New("'v' needs to be followed immediately by a decimal digit")
	ErrTempoNumber = errors.New("'t' needs to be followed immediately by a floating-point number")
	ErrBendNumber  = errors.New("'p' needs to be followed immediately by a floating-point number")
)

// ErrStreamExhausted is returned when the input ends inside a field
var ErrStreamExhausted = errors.New("unexpected end of input")

// ErrNoRunningStatus is returned when a MIDI data byte appears before any status byte
var ErrNoRunningStatus = errors.New("data byte without running status")

// EncodingError describes a token that could not be turned into bytes
type EncodingError struct {
	Line  int
	Token string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("error on line %d at token %q: %v", e.Line, e.Token, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ChunkTagError reports a MIDI chunk tag that does not match
type ChunkTagError struct {
	Tag   string // expected tag, "MThd" or "MTrk"
	Index int    // position of the first mismatching character
	Got   byte
}

func (e *ChunkTagError) Error() string {
	return fmt.Sprintf("not a MIDI file: expected %q at byte %d of %s chunk tag, got 0x%02X",
		e.Tag[e.Index], e.Index, e.Tag, e.Got)
}

// UnsupportedStatusError reports a status byte the decoder cannot handle
type UnsupportedStatusError struct {
	Status byte
	Offset int64
}

func (e *UnsupportedStatusError) Error() string {
	return fmt.Sprintf("unsupported status byte 0x%02X at offset %d", e.Status, e.Offset)
}
