package kernel

import (
	"encoding/binary"
	"math"

	"github.com/raster-warp/warpcore/warp"
)

// readSample decodes the real component of the pixel at (x, y) in a
// word_size*win.W*win.H, band-major plane of the given type. Complex
// types' imaginary component is dropped; the reference kernel only
// resamples the real part, matching the working-type rules of §4.4.
func readSample(plane []byte, win warp.Rect, typ warp.RasterType, x, y int) float64 {
	ws := typ.WordSize()
	off := (y*win.W + x) * ws
	word := plane[off : off+ws]
	switch typ {
	case warp.Byte:
		return float64(word[0])
	case warp.Int16:
		return float64(int16(binary.LittleEndian.Uint16(word)))
	case warp.UInt16:
		return float64(binary.LittleEndian.Uint16(word))
	case warp.Int32:
		return float64(int32(binary.LittleEndian.Uint32(word)))
	case warp.UInt32:
		return float64(binary.LittleEndian.Uint32(word))
	case warp.Float32, warp.CFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(word)))
	case warp.Float64, warp.CFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(word))
	default:
		return 0
	}
}

// writeSample is the inverse of readSample. Complex types have their
// imaginary component left as the region executor's initial fill put
// it; the reference kernel never produces one.
func writeSample(plane []byte, win warp.Rect, typ warp.RasterType, x, y int, v float64) {
	ws := typ.WordSize()
	off := (y*win.W + x) * ws
	word := plane[off : off+ws]
	switch typ {
	case warp.Byte:
		word[0] = clampByte(v)
	case warp.Int16:
		binary.LittleEndian.PutUint16(word, uint16(int16(v)))
	case warp.UInt16:
		binary.LittleEndian.PutUint16(word, uint16(v))
	case warp.Int32:
		binary.LittleEndian.PutUint32(word, uint32(int32(v)))
	case warp.UInt32:
		binary.LittleEndian.PutUint32(word, uint32(v))
	case warp.Float32, warp.CFloat32:
		binary.LittleEndian.PutUint32(word[0:4], math.Float32bits(float32(v)))
	case warp.Float64, warp.CFloat64:
		binary.LittleEndian.PutUint64(word[0:8], math.Float64bits(v))
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
