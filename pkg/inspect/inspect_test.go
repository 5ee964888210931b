package inspect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/james-see/binasc/pkg/binasc"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func buildMIDI(t *testing.T) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)

	var conductor smf.Track
	conductor.Add(0, smf.Message([]byte{0xFF, 0x03, 0x05, 'T', 'e', 'm', 'p', 'o'}))
	conductor.Add(0, smf.Message([]byte{0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20}))
	conductor.Close(0)
	require.NoError(t, s.Add(conductor))

	var lead smf.Track
	lead.Add(0, smf.Message([]byte{0xFF, 0x03, 0x04, 'L', 'e', 'a', 'd'}))
	for _, key := range []uint8{60, 62, 64} {
		lead.Add(0, midi.NoteOn(0, key, 100))
		lead.Add(96, midi.NoteOff(0, key))
	}
	lead.Add(0, midi.NoteOn(0, 67, 0))
	lead.Close(0)
	require.NoError(t, s.Add(lead))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	data := buildMIDI(t)

	sum, err := Inspect(data)
	require.NoError(t, err)
	require.Equal(t, len(data), sum.Size)
	require.Equal(t, uint16(96), sum.TicksPerQuarter)
	require.False(t, sum.SMPTE)
	require.InDelta(t, 120.0, sum.Tempo, 0.001)
	require.Len(t, sum.Tracks, 2)

	require.Equal(t, "Tempo", sum.Tracks[0].Name)
	require.Zero(t, sum.Tracks[0].Notes)
	require.Equal(t, "Lead", sum.Tracks[1].Name)
	require.Equal(t, 3, sum.Tracks[1].Notes)
	require.GreaterOrEqual(t, sum.Tracks[1].Ticks, int64(288))

	text := sum.String()
	require.Contains(t, text, "Division: 96 ticks per quarter note")
	require.Contains(t, text, "Tempo:    120.00 bpm")
	require.Contains(t, text, "Tracks:   2")
	require.Contains(t, text, `"Lead"`)
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect([]byte("not a midi file"))
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "failed to parse MIDI"))
}

func TestCompare(t *testing.T) {
	data := buildMIDI(t)

	sum, err := Inspect(data)
	require.NoError(t, err)

	c := binasc.New()
	c.SetMIDI(true)
	var out bytes.Buffer
	fs, err := c.DecodeMIDI(&out, bytes.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, sum.Compare(fs))

	fs.Header.TicksPerQuarter = 480
	fs.Tracks = fs.Tracks[:1]
	diffs := sum.Compare(fs)
	require.Len(t, diffs, 2)
	require.Contains(t, diffs[0], "tracks")
	require.Contains(t, diffs[1], "ticks per quarter")

	fs.Header.SMPTE = true
	diffs = sum.Compare(fs)
	require.Contains(t, diffs[len(diffs)-1], "SMPTE division")
}
