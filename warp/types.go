// Package warp implements the memory-bounded warp orchestration core:
// recursive chunking of a destination raster, source-window estimation
// from an inverse coordinate transform, and per-chunk buffer and mask
// staging around an opaque low-level resampling kernel.
package warp

import "fmt"

// RasterType is the numeric type used for in-memory pixels. It may
// differ from either dataset's on-disk storage type.
type RasterType int

// The supported raster pixel types. The complex variants back
// complex-valued no-data and INIT_DEST paths (see InitDestKey).
const (
	Unknown RasterType = iota
	Byte
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
	CFloat32
	CFloat64
)

// Valid reports whether t is one of the known raster types. This fixes
// a documented bug in the original implementation, which used "&&" in
// place of "||" here, making the validity check a permanent no-op.
func (t RasterType) Valid() bool {
	switch t {
	case Byte, Int16, UInt16, Int32, UInt32, Float32, Float64, CFloat32, CFloat64:
		return true
	default:
		return false
	}
}

// IsComplex reports whether t stores a real and imaginary component
// per pixel.
func (t RasterType) IsComplex() bool {
	return t == CFloat32 || t == CFloat64
}

// WordSize returns the number of bytes a single sample of t occupies.
func (t RasterType) WordSize() int {
	switch t {
	case Byte:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Float64, CFloat32:
		return 8
	case CFloat64:
		return 16
	default:
		return 0
	}
}

// Bits returns the number of bits a single sample of t occupies, used
// by the chunker's memory cost model.
func (t RasterType) Bits() int {
	return t.WordSize() * 8
}

func (t RasterType) String() string {
	switch t {
	case Byte:
		return "Byte"
	case Int16:
		return "Int16"
	case UInt16:
		return "UInt16"
	case Int32:
		return "Int32"
	case UInt32:
		return "UInt32"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case CFloat32:
		return "CFloat32"
	case CFloat64:
		return "CFloat64"
	default:
		return fmt.Sprintf("RasterType(%d)", int(t))
	}
}

// ResamplingAlg selects the resampling kernel footprint. The half-width
// values below (§4.2) are part of the estimator's public contract.
type ResamplingAlg int

const (
	// Nearest neighbour resampling; half-width 0.
	Nearest ResamplingAlg = iota
	// Bilinear resampling; half-width 1.
	Bilinear
	// Cubic resampling; half-width 2.
	Cubic
)

// HalfWidth returns the resampling kernel's support radius in source
// pixels, per §4.2 step 6.
func (a ResamplingAlg) HalfWidth() int {
	switch a {
	case Nearest:
		return 0
	case Bilinear:
		return 1
	case Cubic:
		return 2
	default:
		return 0
	}
}

func (a ResamplingAlg) String() string {
	switch a {
	case Nearest:
		return "Nearest"
	case Bilinear:
		return "Bilinear"
	case Cubic:
		return "Cubic"
	default:
		return fmt.Sprintf("ResamplingAlg(%d)", int(a))
	}
}

// Rect is an integer pixel-space rectangle (x, y, w, h), used for both
// source and destination windows.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r has zero area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d,%dx%d)", r.X, r.Y, r.W, r.H)
}
