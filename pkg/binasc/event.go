package binasc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Meta event types
const (
	MetaSequenceNumber = 0x00
	MetaText           = 0x01
	MetaDeviceName     = 0x09
	MetaChannelPrefix  = 0x20
	MetaPort           = 0x21
	MetaEndOfTrack     = 0x2F
	MetaTempo          = 0x51
	MetaSMPTEOffset    = 0x54
	MetaTimeSignature  = 0x58
	MetaKeySignature   = 0x59
	MetaSequencer      = 0x7F
)

// System status bytes with a payload
const (
	StatusSysEx        = 0xF0
	StatusSysExEscape  = 0xF7
	StatusMeta         = 0xFF
	statusChannelLimit = 0xF0
)

// event is one decoded line of a track
type event struct {
	text       string
	comment    string
	endOfTrack bool
}

// channelShape describes a channel voice message by its high nibble
type channelShape struct {
	dataBytes int
	label     func(data []byte) string
}

var channelMessages = map[byte]channelShape{
	0x80: {2, func(d []byte) string { return "note-off " + KeyToPitchName(int(d[0])) }},
	0x90: {2, noteOnLabel},
	0xA0: {2, fixedLabel("after-touch")},
	0xB0: {2, fixedLabel("controller")},
	0xC0: {1, fixedLabel("patch-change")},
	0xD0: {1, fixedLabel("channel pressure")},
	0xE0: {2, fixedLabel("pitch-bend")},
}

func fixedLabel(s string) func([]byte) string {
	return func([]byte) string { return s }
}

func noteOnLabel(d []byte) string {
	if d[1] == 0 {
		return "note-off " + KeyToPitchName(int(d[0]))
	}
	return "note-on " + KeyToPitchName(int(d[0]))
}

// systemHandler decodes whatever follows a system status byte
type systemHandler func(cur *cursor, sb *strings.Builder) (comment string, end bool, err error)

var systemMessages = map[byte]systemHandler{
	StatusSysEx:       sysExHandler("system exclusive"),
	StatusSysExEscape: sysExHandler("escaped system exclusive"),
	0xF1:              statusOnly("MTC quarter frame"),
	0xF2:              statusOnly("song position"),
	0xF3:              statusOnly("song select"),
	0xF4:              statusOnly("system common"),
	0xF5:              statusOnly("system common"),
	0xF6:              statusOnly("tune request"),
	0xF8:              statusOnly("timing clock"),
	0xF9:              statusOnly("system real-time"),
	0xFA:              statusOnly("start"),
	0xFB:              statusOnly("continue"),
	0xFC:              statusOnly("stop"),
	0xFD:              statusOnly("system real-time"),
	StatusMeta:        decodeMeta,
}

func statusOnly(label string) systemHandler {
	return func(*cursor, *strings.Builder) (string, bool, error) {
		return label, false, nil
	}
}

func sysExHandler(label string) systemHandler {
	return func(cur *cursor, sb *strings.Builder) (string, bool, error) {
		length, raw, err := cur.vlv("system exclusive length")
		if err != nil {
			return "", false, err
		}
		sb.WriteString(" " + vlvWord(length, raw))
		payload, err := cur.bytes(int64(length), "system exclusive data")
		if err != nil {
			return "", false, err
		}
		if len(payload) > 0 {
			sb.WriteByte(' ')
			sb.WriteString(hexList(payload))
		}
		if id := manufacturerID(payload); id != nil {
			label += " (manufacturer " + hexList(id) + ")"
		}
		return label, false, nil
	}
}

// manufacturerID returns the one or three byte ID that opens a
// system exclusive payload, or nil when the payload is too short
func manufacturerID(payload []byte) []byte {
	if len(payload) == 0 || payload[0] >= 0x80 {
		return nil
	}
	if payload[0] == 0x00 {
		if len(payload) < 3 {
			return nil
		}
		return payload[:3]
	}
	return payload[:1]
}

// decodeEvent reads a delta time and one message. status carries the
// running status of the current track.
func (c *Codec) decodeEvent(cur *cursor, status *byte) (event, error) {
	var ev event
	delta, raw, err := cur.vlv("delta time")
	if err != nil {
		return ev, err
	}

	var sb strings.Builder
	sb.WriteString(vlvWord(delta, raw))
	sb.WriteByte('\t')

	b, err := cur.next("status byte")
	if err != nil {
		return ev, err
	}
	if b < 0x80 {
		if *status == 0 {
			return ev, errors.Wrapf(ErrNoRunningStatus, "at offset %d", cur.offset-1)
		}
		cur.unread()
		sb.WriteString("   ")
	} else {
		fmt.Fprintf(&sb, "%x", b)
		*status = b
	}

	cmd := *status
	if cmd < statusChannelLimit {
		shape := channelMessages[cmd&0xF0]
		data, err := cur.bytes(int64(shape.dataBytes), "channel message data")
		if err != nil {
			return ev, err
		}
		for _, d := range data {
			fmt.Fprintf(&sb, " '%d", d)
		}
		ev.comment = shape.label(data)
		ev.text = sb.String()
		return ev, nil
	}

	handler, ok := systemMessages[cmd]
	if !ok {
		return ev, &UnsupportedStatusError{Status: cmd, Offset: cur.offset - 1}
	}
	ev.comment, ev.endOfTrack, err = handler(cur, &sb)
	if err != nil {
		return ev, err
	}
	ev.text = sb.String()
	return ev, nil
}

// metaShape describes a meta event payload with a fixed layout
type metaShape struct {
	name   string
	size   int // expected payload length, -1 for free text
	format func(payload []byte) string
}

var metaEvents = map[byte]metaShape{
	MetaSequenceNumber: {"sequence number", 2, func(p []byte) string {
		return fmt.Sprintf(" 2'%d", uint16(p[0])<<8|uint16(p[1]))
	}},
	0x01:              {"text", -1, nil},
	0x02:              {"copyright notice", -1, nil},
	0x03:              {"track name", -1, nil},
	0x04:              {"instrument name", -1, nil},
	0x05:              {"lyric", -1, nil},
	0x06:              {"marker", -1, nil},
	0x07:              {"cue point", -1, nil},
	0x08:              {"program name", -1, nil},
	0x09:              {"device name", -1, nil},
	MetaChannelPrefix: {"MIDI channel prefix", 1, decimalList},
	MetaPort:          {"MIDI port", 1, decimalList},
	MetaEndOfTrack:    {"end-of-track", 0, func([]byte) string { return "" }},
	MetaTempo:         {"tempo", 3, formatTempo},
	MetaSMPTEOffset:   {"SMPTE offset", 5, decimalList},
	MetaTimeSignature: {"time signature", 4, decimalList},
	MetaKeySignature: {"key signature", 2, func(p []byte) string {
		return fmt.Sprintf(" '%d '%d", int8(p[0]), p[1])
	}},
	MetaSequencer: {"sequencer-specific", 0, nil},
}

func decodeMeta(cur *cursor, sb *strings.Builder) (string, bool, error) {
	metaType, err := cur.next("meta type")
	if err != nil {
		return "", false, err
	}
	fmt.Fprintf(sb, " %x", metaType)

	length, raw, err := cur.vlv("meta length")
	if err != nil {
		return "", false, err
	}
	sb.WriteString(" " + vlvWord(length, raw))

	payload, err := cur.bytes(int64(length), "meta data")
	if err != nil {
		return "", false, err
	}

	shape, known := metaEvents[metaType]
	switch {
	case known && shape.size == -1 && quotable(payload):
		sb.WriteString(` "`)
		sb.WriteString(strings.ReplaceAll(string(payload), `"`, `\"`))
		sb.WriteByte('"')
	case known && shape.format != nil && shape.size == len(payload):
		sb.WriteString(shape.format(payload))
	case len(payload) > 0:
		sb.WriteByte(' ')
		sb.WriteString(hexList(payload))
	}

	name := "meta-message"
	if known {
		name = shape.name
	}
	return name, metaType == MetaEndOfTrack, nil
}

// quotable reports whether text survives a round trip as a string token
func quotable(text []byte) bool {
	for i, ch := range text {
		switch ch {
		case '\n', '\r':
			return false
		case '\\':
			if i == len(text)-1 || text[i+1] == '"' {
				return false
			}
		}
	}
	return true
}

// formatTempo prints microseconds per quarter note as beats per minute
func formatTempo(p []byte) string {
	us := uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
	bpm := 60000000.0 / float64(us)
	return " t" + strconv.FormatFloat(bpm, 'g', -1, 64)
}

func decimalList(p []byte) string {
	var sb strings.Builder
	for _, b := range p {
		fmt.Fprintf(&sb, " '%d", b)
	}
	return sb.String()
}

func hexList(p []byte) string {
	parts := make([]string, len(p))
	for i, b := range p {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// KeyToPitchName converts a MIDI key number to scientific pitch
// notation, so 60 is "C4"
func KeyToPitchName(key int) string {
	return pitchClasses[key%12] + strconv.Itoa(key/12-1)
}
