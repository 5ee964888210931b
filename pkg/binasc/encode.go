package binasc

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EncodeLine converts one line of text into bytes. On error the bytes of
// the tokens before the failing one are returned along with it.
func (c *Codec) EncodeLine(line string, lineNum int) ([]byte, error) {
	var out []byte
	for _, tok := range Tokenize(line, lineNum) {
		var err error
		out, err = Emit(out, tok)
		if err != nil {
			c.log.WithFields(logrus.Fields{
				"line":  lineNum,
				"token": tok.Text,
				"kind":  tok.Kind.String(),
			}).Debug(err)
			return out, err
		}
	}
	return out, nil
}

// Encode reads text from r and writes the bytes it describes to w.
// Encoding stops at the first malformed token; output for the lines
// before it has already been written.
func (c *Codec) Encode(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for lineNum := 1; ; lineNum++ {
		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return errors.Wrapf(readErr, "reading line %d", lineNum)
		}
		if len(line) > 0 {
			data, err := c.EncodeLine(strings.TrimSuffix(line, "\n"), lineNum)
			if _, werr := bw.Write(data); werr != nil {
				return errors.Wrap(werr, "writing output")
			}
			if err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			return bw.Flush()
		}
	}
}

// EncodeString converts a whole text document into bytes
func (c *Codec) EncodeString(text string) ([]byte, error) {
	var buf bytes.Buffer
	err := c.Encode(&buf, strings.NewReader(text))
	return buf.Bytes(), err
}
