package binasc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatText    Format = "text"
	FormatBinary  Format = "binary"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi", ".smf":
		return FormatMIDI
	case ".txt", ".asc", ".binasc":
		return FormatText
	case ".bin", ".syx", ".dat":
		return FormatBinary
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) == 0 {
		return FormatUnknown
	}

	// Check for MIDI file signature "MThd"
	if bytes.HasPrefix(data, []byte(HeaderTag)) {
		return FormatMIDI
	}

	for _, ch := range data {
		if !isPrint(ch) && !isSpace(ch) {
			return FormatBinary
		}
	}
	return FormatText
}

// Convert turns text into bytes, or bytes into text. Binary input that
// is a MIDI file is decoded structurally whatever the MIDI option says.
func (c *Codec) Convert(data []byte, from Format) ([]byte, error) {
	switch from {
	case FormatText:
		return c.EncodeString(string(data))
	case FormatMIDI:
		var buf bytes.Buffer
		_, err := c.DecodeMIDI(&buf, bytes.NewReader(data))
		return buf.Bytes(), err
	case FormatBinary:
		text, err := c.DecodeBytes(data)
		return []byte(text), err
	default:
		return nil, errors.Errorf("unsupported input format: %s", from)
	}
}

// ConvertFile converts a file between text and binary form
func (c *Codec) ConvertFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrap(err, "failed to read input file")
	}

	from := DetectFormatFromContent(data)
	if from == FormatUnknown {
		from = DetectFormat(inputPath)
	}
	if from == FormatUnknown {
		return errors.Errorf("cannot determine format of %s", inputPath)
	}

	out, err := c.Convert(data, from)
	if err != nil {
		return errors.Wrap(err, "conversion failed")
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return errors.Wrap(err, "failed to write output file")
	}
	return nil
}

// OutputExtension returns the usual extension for the result of converting from
func OutputExtension(from Format) string {
	if from == FormatText {
		return ".bin"
	}
	return ".txt"
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"text -> binary",
		"midi -> text",
		"binary -> hex",
		"binary -> hex+ascii",
		"binary -> ascii",
	}
}
