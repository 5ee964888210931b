package binasc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpHex(t *testing.T) {
	c := New()
	c.SetLineBytes(4)

	got, err := c.DecodeBytes([]byte{0x00, 0x0f, 0x10, 0xff, 0x4d, 0x54})
	require.NoError(t, err)
	require.Equal(t, "00 0f 10 ff \n4d 54 \n", got)
}

func TestDumpHexEmpty(t *testing.T) {
	got, err := New().DecodeBytes(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDumpBoth(t *testing.T) {
	c := New()
	c.SetComments(true)
	c.SetLineBytes(2)

	got, err := c.DecodeBytes([]byte("MTh\x01"))
	require.NoError(t, err)
	expected := " 4d 54 \n; M  T \n\n" +
		" 68 01 \n; h    \n\n"
	require.Equal(t, expected, got)
}

func TestDumpBothPartialGroup(t *testing.T) {
	c := New()
	c.SetComments(true)

	got, err := c.DecodeBytes([]byte("Hi"))
	require.NoError(t, err)
	require.Equal(t, " 48 69 \n; H  i \n\n", got)
}

func TestDumpASCII(t *testing.T) {
	c := New()
	c.SetBytes(false)
	c.SetLineLength(12)

	data := []byte("alpha\x00\x01beta  gamma\ndelta averyveryverylongword z")
	got, err := c.DecodeBytes(data)
	require.NoError(t, err)

	expected := "alpha beta\ngamma delta\naveryveryverylongword\nz\n"
	require.Equal(t, expected, got)
}

func TestHexDumpRoundTrip(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	for _, comments := range []bool{false, true} {
		c := New()
		c.SetComments(comments)
		text, err := c.DecodeBytes(data)
		require.NoError(t, err)

		back, err := c.EncodeString(text)
		require.NoError(t, err, "text:\n%s", text)
		require.Equal(t, data, back)
	}
}

func TestDecodePrecedence(t *testing.T) {
	data := []byte("MThd\x00\x00\x00\x06\x00\x00\x00\x00\x00\x60")

	c := NewWithOptions(Options{ShowHexBytes: true, ShowComments: true, ParseAsMIDI: true})
	got, err := c.DecodeBytes(data)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, `"MThd"`), "MIDI mode should win, got %q", got)

	c.SetMIDI(false)
	got, err = c.DecodeBytes(data)
	require.NoError(t, err)
	require.Contains(t, got, "; M  T  h  d")

	c.SetComments(false)
	got, err = c.DecodeBytes(data)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "4d 54 68 64 "))

	c.SetBytes(false)
	c.SetComments(true)
	got, err = c.DecodeBytes(data)
	require.NoError(t, err)
	require.Equal(t, "MThd `\n", got)
}

func TestSetters(t *testing.T) {
	c := New()
	tests := []struct {
		name     string
		set      func(int) int
		input    int
		expected int
	}{
		{"line length", c.SetLineLength, 40, 40},
		{"line length zero", c.SetLineLength, 0, DefaultLineLength},
		{"line length negative", c.SetLineLength, -3, DefaultLineLength},
		{"line bytes", c.SetLineBytes, 16, 16},
		{"line bytes zero", c.SetLineBytes, 0, DefaultLineBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set(tt.input); got != tt.expected {
				t.Errorf("set(%d) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}

	opts := NewWithOptions(Options{}).Options()
	require.Equal(t, DefaultLineLength, opts.MaxLineLength)
	require.Equal(t, DefaultLineBytes, opts.MaxLineBytes)
	require.True(t, New().Bytes())
	require.False(t, New().Comments())
	require.False(t, New().MIDI())
}
