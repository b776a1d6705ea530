package warp

import (
	"context"

	"github.com/raster-warp/warpcore/transform"
)

// KernelCall is the transient descriptor handed to the low-level warp
// kernel collaborator for one chunk (§3, §4.5). It owns the
// source-band buffers it allocates and any mask planes it
// materializes; it borrows the destination band buffers from the
// Region Executor. Its lifetime ends when Kernel.Warp returns.
type KernelCall struct {
	Algorithm   ResamplingAlg
	BandCount   int
	WorkingType RasterType

	Transformer    transform.Func
	TransformerArg any

	SrcWindow Rect
	DstWindow Rect

	// SrcBands[i] is word_size*SrcWindow.W*SrcWindow.H bytes,
	// band-major, in mapping order.
	SrcBands [][]byte
	// DstBands[i] aliases a slice of the caller's destination buffer;
	// KernelCall does not own it.
	DstBands [][]byte

	Masks *maskSet

	Extra map[string]string

	op   *Operation
	opts *Options
}

// Kernel is the opaque low-level resampling collaborator of §6. Given
// a fully populated KernelCall, it fills DstBands with the
// kernel-weighted resample of SrcBands at the coordinates obtained by
// inverse-projecting each destination pixel through Transformer.
type Kernel interface {
	Warp(ctx context.Context, call *KernelCall) error
}

// ReportProgress remaps local (a kernel-local progress value in
// [0,1]) onto [base, base+scale] and forwards it to the operation's
// configured Progress callback, per §3/§6/§9. A false return must
// propagate as an Aborted failure from the kernel.
func (c *KernelCall) ReportProgress(local float64) bool {
	if local < 0 {
		local = 0
	} else if local > 1 {
		local = 1
	}
	global := c.op.progressBase + local*c.op.progressScale
	return c.opts.Progress(global, c.opts.ProgressArg)
}

// BandSrcValid returns the band-src-valid mask bits for band (0-based
// into the mapping), lazily creating it if needed.
func (c *KernelCall) BandSrcValid(band int) (*bitMask, error) {
	if err := c.Masks.ensure(BandSrcValid, band, c.SrcWindow, c.DstWindow); err != nil {
		return nil, err
	}
	return c.Masks.bandSrcValid[band], nil
}
