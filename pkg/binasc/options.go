// Package binasc converts between binary byte streams and an editable
// ASCII notation, with a structural mode for Standard MIDI Files
package binasc

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Defaults for the plain dump formatters
const (
	DefaultLineLength = 75
	DefaultLineBytes  = 25
)

// Options selects the decode formatter and its layout
type Options struct {
	ShowHexBytes  bool // print bytes as hex when decoding
	ShowComments  bool // append ASCII / semantic comments
	ParseAsMIDI   bool // decode as a Standard MIDI File
	MaxLineLength int  // columns per line in ASCII mode
	MaxLineBytes  int  // bytes per line in hex modes
}

// DefaultOptions returns hex output without comments
func DefaultOptions() Options {
	return Options{
		ShowHexBytes:  true,
		MaxLineLength: DefaultLineLength,
		MaxLineBytes:  DefaultLineBytes,
	}
}

// Codec converts between binary data and its text notation.
// A Codec is not safe for concurrent use; give each run its own.
type Codec struct {
	opts Options
	log  logrus.FieldLogger
}

// New creates a Codec with the default options
func New() *Codec {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Codec with the given options.
// Line widths below one are replaced by the defaults.
func NewWithOptions(opts Options) *Codec {
	c := &Codec{opts: opts, log: discardLogger()}
	c.SetLineLength(opts.MaxLineLength)
	c.SetLineBytes(opts.MaxLineBytes)
	return c
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Options returns a copy of the current options
func (c *Codec) Options() Options {
	return c.opts
}

// SetLogger sets the logger used for diagnostics. nil restores the silent default.
func (c *Codec) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = discardLogger()
	}
	c.log = l
}

// SetLineLength sets the maximum line length of the ASCII dump and
// returns the value applied
func (c *Codec) SetLineLength(length int) int {
	if length < 1 {
		length = DefaultLineLength
	}
	c.opts.MaxLineLength = length
	return length
}

// LineLength returns the maximum ASCII dump line length
func (c *Codec) LineLength() int {
	return c.opts.MaxLineLength
}

// SetLineBytes sets the number of bytes per hex dump line and returns
// the value applied
func (c *Codec) SetLineBytes(n int) int {
	if n < 1 {
		n = DefaultLineBytes
	}
	c.opts.MaxLineBytes = n
	return n
}

// LineBytes returns the number of bytes per hex dump line
func (c *Codec) LineBytes() int {
	return c.opts.MaxLineBytes
}

// SetComments turns comment output on or off
func (c *Codec) SetComments(on bool) {
	c.opts.ShowComments = on
}

// Comments reports whether comments are printed
func (c *Codec) Comments() bool {
	return c.opts.ShowComments
}

// SetBytes turns hex byte output on or off
func (c *Codec) SetBytes(on bool) {
	c.opts.ShowHexBytes = on
}

// Bytes reports whether hex bytes are printed
func (c *Codec) Bytes() bool {
	return c.opts.ShowHexBytes
}

// SetMIDI turns structural MIDI decoding on or off
func (c *Codec) SetMIDI(on bool) {
	c.opts.ParseAsMIDI = on
}

// MIDI reports whether input is decoded as a MIDI file
func (c *Codec) MIDI() bool {
	return c.opts.ParseAsMIDI
}
