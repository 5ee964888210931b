package binasc

import (
	"math"
	"strconv"
)

type emitFunc func(dst []byte, word string) ([]byte, error)

// emitters maps each token kind to the function producing its bytes
var emitters = map[Kind]emitFunc{
	KindHex:       emitHex,
	KindBinary:    emitBinary,
	KindDecimal:   emitDecimal,
	KindString:    emitString,
	KindAscii:     emitAscii,
	KindVLV:       emitVLV,
	KindPitchBend: emitPitchBend,
	KindTempo:     emitTempo,
}

// Emit appends the bytes described by tok to dst
func Emit(dst []byte, tok Token) ([]byte, error) {
	emit, ok := emitters[tok.Kind]
	if !ok {
		return dst, &EncodingError{Line: tok.Line, Token: tok.Text, Err: ErrBadNumber}
	}
	out, err := emit(dst, tok.Text)
	if err != nil {
		return dst, &EncodingError{Line: tok.Line, Token: tok.Text, Err: err}
	}
	return out, nil
}

func isHexDigit(ch byte) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func emitHex(dst []byte, word string) ([]byte, error) {
	if len(word) > 2 {
		return dst, ErrHexTooLong
	}
	for i := 0; i < len(word); i++ {
		if !isHexDigit(word[i]) {
			return dst, ErrHexInvalid
		}
	}
	v, err := strconv.ParseUint(word, 16, 8)
	if err != nil {
		return dst, ErrHexInvalid
	}
	return append(dst, byte(v)), nil
}

func emitString(dst []byte, word string) ([]byte, error) {
	return append(dst, word...), nil
}

// emitAscii handles "+c"; a bare "+" is a space
func emitAscii(dst []byte, word string) ([]byte, error) {
	switch len(word) {
	case 1:
		return append(dst, ' '), nil
	case 2:
		return append(dst, word[1]), nil
	default:
		return dst, ErrAsciiTooLong
	}
}

// emitBinary packs up to eight binary digits into one byte. A comma
// splits the word into a high and a low nibble.
func emitBinary(dst []byte, word string) ([]byte, error) {
	comma := -1
	for i := 0; i < len(word); i++ {
		switch word[i] {
		case ',':
			if comma != -1 {
				return dst, ErrBinaryExtraComma
			}
			comma = i
		case '0', '1':
		default:
			return dst, ErrBinaryInvalid
		}
	}

	switch {
	case comma == 0:
		return dst, ErrBinaryLeadComma
	case comma == len(word)-1:
		return dst, ErrBinaryTrailComma
	case comma == -1 && len(word) > 8:
		return dst, ErrBinaryTooLong
	}

	var out byte
	if comma == -1 {
		for i := 0; i < len(word); i++ {
			out = out<<1 | (word[i] - '0')
		}
		return append(dst, out), nil
	}

	left, right := word[:comma], word[comma+1:]
	if len(left) > 4 {
		return dst, ErrBinaryLeftNibble
	}
	if len(right) > 4 {
		return dst, ErrBinaryRightNibble
	}
	for i := 0; i < len(left); i++ {
		out = out<<1 | (left[i] - '0')
	}
	out <<= 4 - len(right)
	for i := 0; i < len(right); i++ {
		out = out<<1 | (right[i] - '0')
	}
	return append(dst, out), nil
}

// decimalSpec is the parsed form of a "[n][u]'[-]digits[.digits]" word
type decimalSpec struct {
	byteCount int // -1 when not given
	little    bool
	signed    bool
	float     bool
	number    string
}

func parseDecimal(word string) (decimalSpec, error) {
	spec := decimalSpec{byteCount: -1}
	quote, sign, period, endian := -1, -1, -1, -1

	for i := 0; i < len(word); i++ {
		switch ch := word[i]; ch {
		case '\'':
			if quote != -1 {
				return spec, ErrExtraQuote
			}
			quote = i
		case '-':
			if sign != -1 {
				return spec, ErrExtraSign
			}
			sign = i
			if i == 0 || word[i-1] != '\'' {
				return spec, ErrSignPosition
			}
		case '.':
			if quote == -1 {
				return spec, ErrPeriodBeforeQuote
			}
			if period != -1 {
				return spec, ErrExtraPeriod
			}
			period = i
		case 'u', 'U':
			if quote != -1 {
				return spec, ErrEndianAfterQuote
			}
			if endian != -1 {
				return spec, ErrExtraEndian
			}
			endian = i
		case '1', '2', '3', '4', '8':
			if quote == -1 {
				if spec.byteCount != -1 {
					return spec, ErrExtraByteCount
				}
				spec.byteCount = int(ch - '0')
			}
		case '0', '5', '6', '7', '9':
			if quote == -1 {
				return spec, ErrDigitBeforeQuote
			}
		default:
			return spec, ErrDecimalInvalid
		}
	}

	if quote == -1 {
		return spec, ErrMissingQuote
	}
	if quote == len(word)-1 {
		return spec, ErrMissingNumber
	}
	spec.little = endian != -1
	spec.signed = sign != -1
	spec.float = period != -1
	spec.number = word[quote+1:]
	return spec, nil
}

func emitDecimal(dst []byte, word string) ([]byte, error) {
	spec, err := parseDecimal(word)
	if err != nil {
		return dst, err
	}

	if !spec.float && spec.byteCount == 8 {
		return dst, ErrDoubleNeedsFloat
	}
	if spec.float {
		return emitFloat(dst, spec)
	}

	n, err := strconv.ParseInt(spec.number, 10, 64)
	if err != nil {
		return dst, ErrBadNumber
	}

	switch spec.byteCount {
	case -1:
		if spec.signed {
			if n > 127 || n < -128 {
				return dst, ErrSignedRange
			}
			return append(dst, byte(int8(n))), nil
		}
		if n > 255 {
			return dst, ErrUnsignedRange
		}
		return append(dst, byte(n)), nil
	case 1:
		return append(dst, byte(n)), nil
	case 2:
		if spec.signed {
			return appendInt16(dst, int16(n), spec.little), nil
		}
		return appendUint16(dst, uint16(n), spec.little), nil
	case 3:
		if spec.signed {
			return dst, ErrNegativeThreeByte
		}
		return appendUint24(dst, uint32(n), spec.little), nil
	case 4:
		if spec.signed {
			return appendInt32(dst, int32(n), spec.little), nil
		}
		return appendUint32(dst, uint32(n), spec.little), nil
	}
	return dst, ErrByteCount
}

func emitFloat(dst []byte, spec decimalSpec) ([]byte, error) {
	if spec.byteCount == -1 {
		spec.byteCount = 4
	}
	if spec.byteCount != 4 && spec.byteCount != 8 {
		return dst, ErrFloatSize
	}
	v, err := strconv.ParseFloat(spec.number, 64)
	if err != nil {
		return dst, ErrBadNumber
	}
	if spec.byteCount == 4 {
		return appendFloat32(dst, float32(v), spec.little), nil
	}
	return appendFloat64(dst, v, spec.little), nil
}

// EncodeVLV appends v as a MIDI variable-length value
func EncodeVLV(dst []byte, v uint32) []byte {
	groups := [5]byte{
		byte(v>>28) & 0x7f,
		byte(v>>21) & 0x7f,
		byte(v>>14) & 0x7f,
		byte(v>>7) & 0x7f,
		byte(v) & 0x7f,
	}
	started := false
	for i := 0; i < 4; i++ {
		if groups[i] != 0 {
			started = true
		}
		if started {
			dst = append(dst, groups[i]|0x80)
		}
	}
	return append(dst, groups[4])
}

func emitVLV(dst []byte, word string) ([]byte, error) {
	if len(word) < 2 || !isDigit(word[1]) {
		return dst, ErrVLVDigit
	}
	v, err := strconv.ParseUint(word[1:], 10, 32)
	if err != nil {
		return dst, ErrBadNumber
	}
	return EncodeVLV(dst, uint32(v)), nil
}

// parseMIDIFloat reads the number after a one-letter prefix
func parseMIDIFloat(word string, prefixErr error) (float64, error) {
	if len(word) < 2 {
		return 0, prefixErr
	}
	switch ch := word[1]; {
	case isDigit(ch), ch == '.', ch == '-', ch == '+':
	default:
		return 0, prefixErr
	}
	v, err := strconv.ParseFloat(word[1:], 64)
	if err != nil || math.IsNaN(v) {
		return 0, prefixErr
	}
	return v, nil
}

// emitTempo writes beats per minute as three bytes of microseconds per quarter note
func emitTempo(dst []byte, word string) ([]byte, error) {
	bpm, err := parseMIDIFloat(word, ErrTempoNumber)
	if err != nil {
		return dst, err
	}
	bpm = math.Abs(bpm)
	if bpm == 0 {
		return dst, ErrTempoNumber
	}
	us := math.Floor(60000000.0/bpm + 0.5)
	return appendUint24(dst, uint32(math.Mod(us, 1<<24)), false), nil
}

// emitPitchBend maps [-1, 1] onto the 14-bit bend range, LSB first
func emitPitchBend(dst []byte, word string) ([]byte, error) {
	v, err := parseMIDIFloat(word, ErrBendNumber)
	if err != nil {
		return dst, err
	}
	v = math.Max(-1, math.Min(1, v))
	bend := int((float64(1<<13)-0.5)*(v+1) + 0.5)
	return append(dst, byte(bend&0x7f), byte((bend>>7)&0x7f)), nil
}
