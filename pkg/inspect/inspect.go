// Package inspect summarizes Standard MIDI Files with gomidi, independent
// of the binasc structural decoder
package inspect

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/james-see/binasc/pkg/binasc"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TrackInfo describes one track
type TrackInfo struct {
	Events int
	Notes  int // note-on messages with velocity > 0
	Ticks  int64
	Name   string
}

// Summary describes a MIDI file
type Summary struct {
	Size            int
	Format          uint16
	TicksPerQuarter uint16 // 0 for SMPTE time
	SMPTE           bool
	Tempo           float64 // first tempo found, 0 when absent
	Tracks          []TrackInfo
}

// Inspect parses MIDI data and summarizes it
func Inspect(data []byte) (*Summary, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	sum := &Summary{
		Size:   len(data),
		Format: s.Format(),
	}

	switch tf := s.TimeFormat.(type) {
	case smf.MetricTicks:
		sum.TicksPerQuarter = tf.Resolution()
	case smf.TimeCode:
		sum.SMPTE = true
	}

	for _, track := range s.Tracks {
		var info TrackInfo
		for _, ev := range track {
			info.Events++
			info.Ticks += int64(ev.Delta)

			msg := ev.Message
			// Tempo meta message (FF 51 03 ...)
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 && sum.Tempo == 0 {
				microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if microsecondsPerBeat > 0 {
					sum.Tempo = 60000000.0 / float64(microsecondsPerBeat)
				}
			}
			// Track name meta message (FF 03 len ...)
			if len(msg) >= 3 && msg[0] == 0xFF && msg[1] == 0x03 && info.Name == "" {
				if _, n, err := binasc.DecodeVLV(msg[2:]); err == nil {
					info.Name = string(msg[2+n:])
				}
			}
			// Note On (0x90-0x9F) with a velocity
			if len(msg) >= 3 && msg[0] >= 0x90 && msg[0] <= 0x9F && msg[2] > 0 {
				info.Notes++
			}
		}
		sum.Tracks = append(sum.Tracks, info)
	}
	return sum, nil
}

// String renders the summary for terminal output
func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Size:     %s\n", humanize.Bytes(uint64(s.Size)))
	fmt.Fprintf(&sb, "Format:   %d (%s)\n", s.Format, binasc.Header{Format: s.Format}.FormatName())
	if s.SMPTE {
		sb.WriteString("Division: SMPTE\n")
	} else {
		fmt.Fprintf(&sb, "Division: %d ticks per quarter note\n", s.TicksPerQuarter)
	}
	if s.Tempo > 0 {
		fmt.Fprintf(&sb, "Tempo:    %.2f bpm\n", s.Tempo)
	}
	fmt.Fprintf(&sb, "Tracks:   %d\n", len(s.Tracks))
	for i, t := range s.Tracks {
		fmt.Fprintf(&sb, "  %2d: %s events, %s notes, %s ticks",
			i, humanize.Comma(int64(t.Events)), humanize.Comma(int64(t.Notes)), humanize.Comma(t.Ticks))
		if t.Name != "" {
			fmt.Fprintf(&sb, " %q", t.Name)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Compare lists the differences between this summary and the structure
// found by the binasc decoder
func (s *Summary) Compare(fs *binasc.FileSummary) []string {
	var diffs []string
	if s.Format != fs.Header.Format {
		diffs = append(diffs, fmt.Sprintf("format: gomidi %d, binasc %d", s.Format, fs.Header.Format))
	}
	if len(s.Tracks) != len(fs.Tracks) {
		diffs = append(diffs, fmt.Sprintf("tracks: gomidi %d, binasc %d", len(s.Tracks), len(fs.Tracks)))
	}
	if s.SMPTE != fs.Header.SMPTE {
		diffs = append(diffs, fmt.Sprintf("SMPTE division: gomidi %v, binasc %v", s.SMPTE, fs.Header.SMPTE))
	} else if !s.SMPTE && s.TicksPerQuarter != fs.Header.TicksPerQuarter {
		diffs = append(diffs, fmt.Sprintf("ticks per quarter: gomidi %d, binasc %d",
			s.TicksPerQuarter, fs.Header.TicksPerQuarter))
	}
	return diffs
}
