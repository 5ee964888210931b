package binasc

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Decode reads binary data from r and writes its text form to w.
// MIDI mode wins over hex+comments, which wins over plain hex; with hex
// bytes off the ASCII word dump is used.
func (c *Codec) Decode(w io.Writer, r io.Reader) error {
	switch {
	case c.opts.ParseAsMIDI:
		_, err := c.DecodeMIDI(w, r)
		return err
	case c.opts.ShowHexBytes && c.opts.ShowComments:
		return c.dumpBoth(w, r)
	case c.opts.ShowHexBytes:
		return c.dumpHex(w, r)
	default:
		return c.dumpASCII(w, r)
	}
}

// DecodeBytes returns the text form of data
func (c *Codec) DecodeBytes(data []byte) (string, error) {
	var buf bytes.Buffer
	err := c.Decode(&buf, bytes.NewReader(data))
	return buf.String(), err
}

func isPrint(ch byte) bool {
	return ch >= 0x20 && ch < 0x7f
}

func isGraphic(ch byte) bool {
	return ch > 0x20 && ch < 0x7f
}

func readErr(err error) error {
	return errors.Wrap(err, "reading input")
}

// dumpASCII prints runs of printable characters as words, wrapping
// lines at MaxLineLength. Words are never split.
func (c *Codec) dumpASCII(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	var word []byte
	lineLen := 0
	place := func() {
		if len(word) == 0 {
			return
		}
		if lineLen > 0 && lineLen+1+len(word) > c.opts.MaxLineLength {
			bw.WriteByte('\n')
			lineLen = 0
		}
		if lineLen > 0 {
			bw.WriteByte(' ')
			lineLen++
		}
		bw.Write(word)
		lineLen += len(word)
		word = word[:0]
	}

	for {
		ch, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return readErr(err)
		}
		if isGraphic(ch) {
			word = append(word, ch)
		} else {
			place()
		}
	}
	place()
	if lineLen > 0 {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// dumpHex prints every byte as two hex digits, MaxLineBytes per line
func (c *Codec) dumpHex(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	count := 0
	for {
		ch, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return readErr(err)
		}
		writeHexByte(bw, ch)
		bw.WriteByte(' ')
		count++
		if count >= c.opts.MaxLineBytes {
			bw.WriteByte('\n')
			count = 0
		}
	}
	if count != 0 {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// dumpBoth prints hex lines each followed by a comment line showing the
// printable characters under their bytes
func (c *Codec) dumpBoth(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	var ascii []byte
	flush := func() {
		bw.WriteByte('\n')
		bw.Write(ascii)
		bw.WriteString("\n\n")
		ascii = ascii[:0]
	}

	count := 0
	for {
		ch, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return readErr(err)
		}
		if len(ascii) == 0 {
			ascii = append(ascii, ';')
			bw.WriteByte(' ')
		}
		writeHexByte(bw, ch)
		bw.WriteByte(' ')
		count++

		shown := byte(' ')
		if isPrint(ch) {
			shown = ch
		}
		ascii = append(ascii, ' ', shown, ' ')

		if count >= c.opts.MaxLineBytes {
			flush()
			count = 0
		}
	}
	if count != 0 {
		flush()
	}
	return bw.Flush()
}

const hexDigits = "0123456789abcdef"

func writeHexByte(bw *bufio.Writer, ch byte) {
	bw.WriteByte(hexDigits[ch>>4])
	bw.WriteByte(hexDigits[ch&0x0f])
}
