package warp

import (
	"context"

	"github.com/raster-warp/warpcore/transform"
)

// DefaultMemoryBudget is applied when Options.MemoryBudget is zero at
// Initialize time (§3).
const DefaultMemoryBudget = 64 * 1024 * 1024

// MinMemoryBudget is the smallest accepted memory budget after
// defaulting (§3 invariant).
const MinMemoryBudget = 100000

// InitDestKey is the recognized free-form option controlling the
// Region Executor's initial destination fill policy (§4.4, §6).
const InitDestKey = "INIT_DEST"

// InitDestNoData is the literal INIT_DEST value that requests filling
// each band with its configured destination no-data value.
const InitDestNoData = "NO_DATA"

// ProgressFunc reports fractional progress in [0,1]. Returning false
// requests cancellation of the in-flight operation (§5, §7).
type ProgressFunc func(done float64, arg any) bool

// BandMaskHook is an optional per-band mask-generator collaborator
// (§3's "per-band source validity" hook). It is invoked, when
// registered, once the band's source buffer has been populated, and
// should clear bits in out (one bit per pixel, §3 sizing) for pixels
// it considers invalid.
type BandMaskHook func(ctx context.Context, band int, win Rect, src []byte, typ RasterType, out []byte) error

// UnifiedMaskHook is an optional mask-generator collaborator for a
// validity plane spanning all bands (§3's "unified source validity"
// and "destination validity" hooks).
type UnifiedMaskHook func(ctx context.Context, win Rect, bands [][]byte, typ RasterType, out []byte) error

// DensityMaskHook is an optional mask-generator collaborator for a
// 32-bit density plane (§3's "source density" and "destination
// density" hooks).
type DensityMaskHook func(ctx context.Context, win Rect, bands [][]byte, typ RasterType, out []float32) error

// Options is the warp configuration supplied by the caller. It is
// deep-cloned and defaulted by Operation.Initialize (§4.1); callers
// may discard or mutate their copy immediately afterwards.
type Options struct {
	// SrcDataset and DstDataset are the opaque raster collaborators.
	// The core never closes them.
	SrcDataset Dataset
	DstDataset Dataset

	// SrcBands and DstBands are the paired, 1-based band mapping. If
	// both are empty at Initialize time and the two datasets have
	// equal band counts N, they default to the identity mapping
	// [1..N] on both sides.
	SrcBands []int
	DstBands []int

	// WorkingType is the in-memory pixel type used for the whole
	// operation. If Unknown at Initialize time, it defaults to
	// DstTypeHint, which the caller sets to the type of the first
	// destination band, since Band does not expose its native type.
	WorkingType RasterType
	DstTypeHint RasterType

	// Resampling selects the kernel footprint (§4.2).
	Resampling ResamplingAlg

	// MemoryBudget is the per-chunk byte budget (§3, §4.3). Zero at
	// Initialize time defaults to DefaultMemoryBudget.
	MemoryBudget float64

	// SrcNoDataReal/Imag are parallel to SrcBands. If SrcNoDataReal is
	// non-nil, SrcNoDataImag must be too (§3 invariant).
	SrcNoDataReal []float64
	SrcNoDataImag []float64

	// DstNoDataReal/Imag are parallel to DstBands, same shape rule.
	DstNoDataReal []float64
	DstNoDataImag []float64

	// Mask-generator hooks (§3); all optional.
	BandSrcValidHook    BandMaskHook
	UnifiedSrcValidHook UnifiedMaskHook
	SrcDensityHook      DensityMaskHook
	DstValidHook        UnifiedMaskHook
	DstDensityHook      DensityMaskHook

	// Transformer is the required coordinate-transform collaborator.
	Transformer    transform.Func
	TransformerArg any

	// Progress is the required progress-reporting collaborator.
	Progress    ProgressFunc
	ProgressArg any

	// Extra is a free-form string-keyed option list. InitDestKey is
	// the only key this core interprets directly.
	Extra map[string]string
}

// clone deep-copies o (slices and the Extra map are copied; Dataset,
// Transformer and Progress values are opaque references and are
// copied by value per §9's ownership notes).
func (o *Options) clone() *Options {
	c := *o
	c.SrcBands = append([]int(nil), o.SrcBands...)
	c.DstBands = append([]int(nil), o.DstBands...)
	c.SrcNoDataReal = append([]float64(nil), o.SrcNoDataReal...)
	c.SrcNoDataImag = append([]float64(nil), o.SrcNoDataImag...)
	c.DstNoDataReal = append([]float64(nil), o.DstNoDataReal...)
	c.DstNoDataImag = append([]float64(nil), o.DstNoDataImag...)
	if o.Extra != nil {
		c.Extra = make(map[string]string, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// applyDefaults fills in the band mapping, working type and memory
// budget defaults described in §3/§4.1. It must run before validate.
func (o *Options) applyDefaults() {
	if len(o.SrcBands) == 0 && len(o.DstBands) == 0 && o.SrcDataset != nil && o.DstDataset != nil {
		n := o.SrcDataset.BandCount()
		if n == o.DstDataset.BandCount() && n > 0 {
			o.SrcBands = identityBands(n)
			o.DstBands = identityBands(n)
		}
	}
	if o.WorkingType == Unknown {
		o.WorkingType = o.DstTypeHint
	}
	if o.MemoryBudget == 0 {
		o.MemoryBudget = DefaultMemoryBudget
	}
}

func identityBands(n int) []int {
	b := make([]int, n)
	for i := range b {
		b[i] = i + 1
	}
	return b
}

// validate enforces the §3 invariants. It returns the first violation
// found; the caller (Initialize) is responsible for surfacing it as a
// single diagnostic per §4.1.
func (o *Options) validate() error {
	if len(o.SrcBands) == 0 {
		return newErr(ConfigInvalid, nil, "band count must be >= 1")
	}
	if len(o.SrcBands) != len(o.DstBands) {
		return newErr(ConfigInvalid, nil, "source and destination band mapping lengths differ (%d vs %d)", len(o.SrcBands), len(o.DstBands))
	}
	if o.SrcDataset == nil || o.DstDataset == nil {
		return newErr(ConfigInvalid, nil, "source and destination datasets are required")
	}
	srcN, dstN := o.SrcDataset.BandCount(), o.DstDataset.BandCount()
	for _, b := range o.SrcBands {
		if b < 1 || b > srcN {
			return newErr(ConfigInvalid, nil, "source band index %d out of range [1,%d]", b, srcN)
		}
	}
	for _, b := range o.DstBands {
		if b < 1 || b > dstN {
			return newErr(ConfigInvalid, nil, "destination band index %d out of range [1,%d]", b, dstN)
		}
		if !o.DstDataset.Band(b).Writable() {
			return newErr(ConfigInvalid, nil, "destination band %d is not writable", b)
		}
	}
	if (o.SrcNoDataReal == nil) != (o.SrcNoDataImag == nil) {
		return newErr(ConfigInvalid, nil, "source no-data real/imaginary parts must both be present or both absent")
	}
	if (o.DstNoDataReal == nil) != (o.DstNoDataImag == nil) {
		return newErr(ConfigInvalid, nil, "destination no-data real/imaginary parts must both be present or both absent")
	}
	if o.SrcNoDataReal != nil && len(o.SrcNoDataReal) != len(o.SrcBands) {
		return newErr(ConfigInvalid, nil, "source no-data values must have one entry per source band")
	}
	if o.DstNoDataReal != nil && len(o.DstNoDataReal) != len(o.DstBands) {
		return newErr(ConfigInvalid, nil, "destination no-data values must have one entry per destination band")
	}
	if !o.WorkingType.Valid() {
		return newErr(ConfigInvalid, nil, "unknown working type %v", o.WorkingType)
	}
	if o.MemoryBudget < MinMemoryBudget {
		return newErr(ConfigInvalid, nil, "memory budget %.0f is below the minimum of %d bytes", o.MemoryBudget, MinMemoryBudget)
	}
	if o.Transformer == nil {
		return newErr(ConfigInvalid, nil, "transformer is required")
	}
	if o.Progress == nil {
		return newErr(ConfigInvalid, nil, "progress callback is required")
	}
	return nil
}

// bandCount returns the validated number of band-mapping entries.
func (o *Options) bandCount() int { return len(o.SrcBands) }
