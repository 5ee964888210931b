package binasc

import (
	"encoding/binary"
	"math"
)

// byteOrder picks the wire order for a decimal token
func byteOrder(little bool) binary.AppendByteOrder {
	if little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func appendUint16(b []byte, v uint16, little bool) []byte {
	return byteOrder(little).AppendUint16(b, v)
}

func appendInt16(b []byte, v int16, little bool) []byte {
	return byteOrder(little).AppendUint16(b, uint16(v))
}

// appendUint24 writes the low 24 bits of v
func appendUint24(b []byte, v uint32, little bool) []byte {
	hi, mid, lo := byte(v>>16), byte(v>>8), byte(v)
	if little {
		return append(b, lo, mid, hi)
	}
	return append(b, hi, mid, lo)
}

func appendUint32(b []byte, v uint32, little bool) []byte {
	return byteOrder(little).AppendUint32(b, v)
}

func appendInt32(b []byte, v int32, little bool) []byte {
	return byteOrder(little).AppendUint32(b, uint32(v))
}

func appendFloat32(b []byte, v float32, little bool) []byte {
	return byteOrder(little).AppendUint32(b, math.Float32bits(v))
}

func appendFloat64(b []byte, v float64, little bool) []byte {
	return byteOrder(little).AppendUint64(b, math.Float64bits(v))
}
