package raster

import (
	"encoding/binary"
	"math"

	"github.com/raster-warp/warpcore/warp"
)

// decode reads one word of typ from word, returning (real, imag).
// Non-complex types always report a zero imaginary part.
func decode(word []byte, typ warp.RasterType) (real, imag float64) {
	switch typ {
	case warp.Byte:
		return float64(word[0]), 0
	case warp.Int16:
		return float64(int16(binary.LittleEndian.Uint16(word))), 0
	case warp.UInt16:
		return float64(binary.LittleEndian.Uint16(word)), 0
	case warp.Int32:
		return float64(int32(binary.LittleEndian.Uint32(word))), 0
	case warp.UInt32:
		return float64(binary.LittleEndian.Uint32(word)), 0
	case warp.Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(word))), 0
	case warp.Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(word)), 0
	case warp.CFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(word[0:4]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(word[4:8])))
	case warp.CFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(word[0:8])),
			math.Float64frombits(binary.LittleEndian.Uint64(word[8:16]))
	default:
		return 0, 0
	}
}

// encode is the inverse of decode, truncating/clamping as needed for
// the target type.
func encode(word []byte, typ warp.RasterType, real, imag float64) {
	switch typ {
	case warp.Byte:
		word[0] = clampByte(real)
	case warp.Int16:
		binary.LittleEndian.PutUint16(word, uint16(int16(real)))
	case warp.UInt16:
		binary.LittleEndian.PutUint16(word, uint16(real))
	case warp.Int32:
		binary.LittleEndian.PutUint32(word, uint32(int32(real)))
	case warp.UInt32:
		binary.LittleEndian.PutUint32(word, uint32(real))
	case warp.Float32:
		binary.LittleEndian.PutUint32(word, math.Float32bits(float32(real)))
	case warp.Float64:
		binary.LittleEndian.PutUint64(word, math.Float64bits(real))
	case warp.CFloat32:
		binary.LittleEndian.PutUint32(word[0:4], math.Float32bits(float32(real)))
		binary.LittleEndian.PutUint32(word[4:8], math.Float32bits(float32(imag)))
	case warp.CFloat64:
		binary.LittleEndian.PutUint64(word[0:8], math.Float64bits(real))
		binary.LittleEndian.PutUint64(word[8:16], math.Float64bits(imag))
	}
}

func clampByte(v float64) byte {
	r := math.Round(v)
	switch {
	case r < 0:
		return 0
	case r > 255:
		return 255
	default:
		return byte(r)
	}
}
