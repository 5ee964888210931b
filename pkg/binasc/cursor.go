package binasc

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// cursor reads a byte stream and tracks the absolute offset
type cursor struct {
	r      *bufio.Reader
	offset int64
}

func newCursor(r io.Reader) *cursor {
	return &cursor{r: bufio.NewReader(r)}
}

// next reads one byte; field names what was being read for error reports
func (c *cursor) next(field string) (byte, error) {
	b, err := c.r.ReadByte()
	if err == io.EOF {
		return 0, errors.Wrapf(ErrStreamExhausted, "reading %s at offset %d", field, c.offset)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s at offset %d", field, c.offset)
	}
	c.offset++
	return b, nil
}

func (c *cursor) unread() {
	if c.r.UnreadByte() == nil {
		c.offset--
	}
}

func (c *cursor) bytes(n int64, field string) ([]byte, error) {
	buf := make([]byte, 0, min(n, 4096))
	for i := int64(0); i < n; i++ {
		b, err := c.next(field)
		if err != nil {
			return buf, err
		}
		buf = append(buf, b)
	}
	return buf, nil
}

// bigEndian reads an n-byte big-endian unsigned integer
func (c *cursor) bigEndian(n int, field string) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		b, err := c.next(field)
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint32(b)
	}
	return v, nil
}

// vlv reads a MIDI variable-length value along with the bytes it was
// stored in
func (c *cursor) vlv(field string) (uint32, []byte, error) {
	var v uint32
	var raw []byte
	for {
		b, err := c.next(field)
		if err != nil {
			return 0, raw, err
		}
		raw = append(raw, b)
		v = v<<7 | uint32(b&0x7f)
		if b < 0x80 {
			return v, raw, nil
		}
	}
}

// vlvWord renders a variable-length value as a v word, or as hex bytes
// when v would not encode back to raw
func vlvWord(v uint32, raw []byte) string {
	if len(raw) > 4 || len(raw) != len(EncodeVLV(nil, v)) {
		return hexList(raw)
	}
	return fmt.Sprintf("v%d", v)
}

// DecodeVLV reads a variable-length value from the front of data and
// returns it with the number of bytes used
func DecodeVLV(data []byte) (uint32, int, error) {
	var v uint32
	for i, b := range data {
		v = v<<7 | uint32(b&0x7f)
		if b < 0x80 {
			return v, i + 1, nil
		}
	}
	return 0, len(data), errors.Wrap(ErrStreamExhausted, "reading variable-length value")
}
