package binasc

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Chunk tags of a Standard MIDI File
const (
	HeaderTag = "MThd"
	TrackTag  = "MTrk"
)

// Header holds the fields of the MThd chunk
type Header struct {
	Length            uint32
	Format            uint16
	Tracks            uint16
	SMPTE             bool
	TicksPerQuarter   uint16 // when !SMPTE
	FramesPerSecond   int    // negative frame rate byte, when SMPTE
	SubframesPerFrame uint8  // when SMPTE
	Extra             []byte // bytes past the standard six
}

// FormatName describes the file format number
func (h Header) FormatName() string {
	switch h.Format {
	case 0:
		return "single track"
	case 1:
		return "multitrack"
	case 2:
		return "multisegment"
	default:
		return "unknown"
	}
}

// TrackSummary records what was read from one MTrk chunk
type TrackSummary struct {
	Index    int
	Declared uint32 // length from the chunk header
	Actual   int64  // bytes consumed by events
	Events   int
}

// Mismatch reports whether the events did not fill the declared length
func (t TrackSummary) Mismatch() bool {
	return int64(t.Declared) != t.Actual
}

// FileSummary is the structure found while decoding a MIDI file
type FileSummary struct {
	Header Header
	Tracks []TrackSummary
}

// DecodeMIDI writes an annotated text form of a Standard MIDI File.
// The text encodes back to the same bytes. Text already written when
// an error occurs is kept.
func (c *Codec) DecodeMIDI(w io.Writer, r io.Reader) (*FileSummary, error) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	cur := newCursor(r)
	summary := &FileSummary{}

	if err := c.decodeHeader(bw, cur, &summary.Header); err != nil {
		return summary, err
	}

	for i := 0; i < int(summary.Header.Tracks); i++ {
		track, err := c.decodeTrack(bw, cur, i)
		summary.Tracks = append(summary.Tracks, track)
		if err != nil {
			return summary, err
		}
	}
	return summary, bw.Flush()
}

// line writes one output line with an optional trailing comment
func (c *Codec) line(bw *bufio.Writer, text, comment string) {
	bw.WriteString(text)
	if c.opts.ShowComments && comment != "" {
		bw.WriteString("\t\t\t; ")
		bw.WriteString(comment)
	}
	bw.WriteByte('\n')
}

func expectTag(cur *cursor, tag string) error {
	for i := 0; i < len(tag); i++ {
		b, err := cur.next(tag + " chunk tag")
		if err != nil {
			return err
		}
		if b != tag[i] {
			return &ChunkTagError{Tag: tag, Index: i, Got: b}
		}
	}
	return nil
}

func (c *Codec) decodeHeader(bw *bufio.Writer, cur *cursor, h *Header) error {
	if err := expectTag(cur, HeaderTag); err != nil {
		return err
	}
	c.line(bw, `"`+HeaderTag+`"`, "MIDI header chunk marker")

	length, err := cur.bigEndian(4, "header length")
	if err != nil {
		return err
	}
	h.Length = length
	c.line(bw, fmt.Sprintf("4'%d", length), "bytes to follow in header chunk")

	format, err := cur.bigEndian(2, "file format")
	if err != nil {
		return err
	}
	h.Format = uint16(format)
	c.line(bw, fmt.Sprintf("2'%d", format),
		fmt.Sprintf("file format: Type-%d (%s)", format, h.FormatName()))

	tracks, err := cur.bigEndian(2, "track count")
	if err != nil {
		return err
	}
	h.Tracks = uint16(tracks)
	c.line(bw, fmt.Sprintf("2'%d", tracks), "number of tracks")

	div, err := cur.bytes(2, "division")
	if err != nil {
		return err
	}
	if div[0]&0x80 != 0 {
		h.SMPTE = true
		h.FramesPerSecond = int(div[0]) - 256
		h.SubframesPerFrame = div[1]
		c.line(bw, fmt.Sprintf("1'%d", h.FramesPerSecond), "SMPTE frames/second")
		c.line(bw, fmt.Sprintf("1'%d", h.SubframesPerFrame), "subframes per frame")
	} else {
		h.TicksPerQuarter = uint16(div[0])<<8 | uint16(div[1])
		c.line(bw, fmt.Sprintf("2'%d", h.TicksPerQuarter), "ticks per quarter note")
	}

	if extra := int64(length) - 6; extra > 0 {
		h.Extra, err = cur.bytes(extra, "header bytes")
		if err != nil {
			return err
		}
		c.line(bw, hexList(h.Extra), "unknown header bytes")
	}
	return nil
}

func (c *Codec) decodeTrack(bw *bufio.Writer, cur *cursor, index int) (TrackSummary, error) {
	track := TrackSummary{Index: index}
	fmt.Fprintf(bw, "\n;;; TRACK %d ----------------------------------\n", index)

	if err := expectTag(cur, TrackTag); err != nil {
		return track, err
	}
	c.line(bw, `"`+TrackTag+`"`, "MIDI track chunk marker")

	length, err := cur.bigEndian(4, "track length")
	if err != nil {
		return track, err
	}
	track.Declared = length
	c.line(bw, fmt.Sprintf("4'%d", length), "bytes to follow in track chunk")

	start := cur.offset
	var status byte
	for {
		ev, err := c.decodeEvent(cur, &status)
		track.Actual = cur.offset - start
		if err != nil {
			return track, err
		}
		track.Events++
		bw.WriteString(ev.text)
		if c.opts.ShowComments && ev.comment != "" {
			bw.WriteString("\t; ")
			bw.WriteString(ev.comment)
		}
		bw.WriteByte('\n')
		if ev.endOfTrack {
			break
		}
	}
	bw.WriteByte('\n')

	if track.Mismatch() {
		fmt.Fprintf(bw, "; TRACK SIZE ERROR, ACTUAL SIZE: %d\n", track.Actual)
		c.log.WithFields(logrus.Fields{
			"track":    index,
			"declared": track.Declared,
			"actual":   track.Actual,
		}).Warn("track length does not match its events")
	}
	return track, nil
}
