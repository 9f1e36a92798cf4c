package gpucore

import (
	"encoding/binary"
	"math"
)

// AppendFloats appends the little-endian encoding of fs to dst.
func AppendFloats(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// AppendUint32s appends the little-endian encoding of vs to dst.
func AppendUint32s(dst []byte, vs ...uint32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, v)
	}
	return dst
}

// ReadFloats decodes little-endian float32 values from b.
func ReadFloats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
