package warp

import "context"

// chunkTerminationGuard is the chunk size at which the chunker stops
// splitting (§4.3): an over-budget chunk is split only while its width
// or height exceeds it. A chunk of at most this size on both sides is
// executed even when over budget, since mask overhead alone might
// exceed any budget and splitting would otherwise recurse forever.
const chunkTerminationGuard = 2

// ChunkAndWarp is the Chunker of §4.3: it recursively subdivides dst
// until the estimated per-chunk memory cost fits op's configured
// budget, composing progress ranges across the recursion, and
// dispatches each in-budget chunk to the Region Executor.
//
// Every top-level call is tagged with a fresh correlation ID (§4.7)
// attached to op.log for the duration of the call tree, so the
// split/recursion debug lines below can be grouped back to the
// ChunkAndWarp invocation that produced them.
func (op *Operation) ChunkAndWarp(ctx context.Context, dst Rect) error {
	if _, err := op.requireOptions(); err != nil {
		return err
	}

	saved := op.log
	op.log = op.log.With().Str("call_id", newCallID()).Logger()
	defer func() { op.log = saved }()

	return op.chunkAndWarp(ctx, dst)
}

// chunkAndWarp is the recursive body of ChunkAndWarp. It reuses the
// call-ID-tagged logger installed by the top-level call rather than
// minting a new one per recursive step.
func (op *Operation) chunkAndWarp(ctx context.Context, dst Rect) error {
	opts, err := op.requireOptions()
	if err != nil {
		return err
	}

	srcWin, err := op.computeSourceWindow(dst)
	if err != nil {
		return err
	}

	cost := op.chunkCostBytes(dst, srcWin)
	if cost > opts.MemoryBudget && (dst.W > chunkTerminationGuard || dst.H > chunkTerminationGuard) {
		return op.splitAndRecurse(ctx, dst)
	}
	return op.warpRegion(ctx, dst, srcWin)
}

// splitAndRecurse implements the §4.3 split step: it halves
// progress_scale, divides dst along its longer dimension, and
// recurses lower-half-then-upper-half (§5 ordering), restoring the
// saved progress state on every exit path.
func (op *Operation) splitAndRecurse(ctx context.Context, dst Rect) error {
	savedBase, savedScale := op.progressBase, op.progressScale
	defer func() {
		op.progressBase, op.progressScale = savedBase, savedScale
	}()
	op.progressScale = savedScale / 2

	lower, upper := splitRect(dst)

	op.log.Debug().
		Str("dst", dst.String()).
		Str("lower", lower.String()).
		Str("upper", upper.String()).
		Msg("chunker splitting region over memory budget")

	if err := op.chunkAndWarp(ctx, lower); err != nil {
		return err
	}
	op.progressBase += op.progressScale
	return op.chunkAndWarp(ctx, upper)
}

// splitRect divides r in half along its longer dimension, per §4.3:
// c1 = dim/2, c2 = dim - c1. Ties split along width.
func splitRect(r Rect) (lower, upper Rect) {
	if r.W >= r.H {
		c1 := r.W / 2
		c2 := r.W - c1
		return Rect{X: r.X, Y: r.Y, W: c1, H: r.H}, Rect{X: r.X + c1, Y: r.Y, W: c2, H: r.H}
	}
	c1 := r.H / 2
	c2 := r.H - c1
	return Rect{X: r.X, Y: r.Y, W: r.W, H: c1}, Rect{X: r.X, Y: r.Y + c1, W: r.W, H: c2}
}

// chunkCostBytes evaluates the §4.3 memory cost model for a chunk
// with destination window dst and estimated source window srcWin.
func (op *Operation) chunkCostBytes(dst, srcWin Rect) float64 {
	opts := op.opts
	bandCount := opts.bandCount()
	workingBits := opts.WorkingType.Bits()

	srcBits := workingBits * bandCount
	if opts.SrcDensityHook != nil {
		srcBits += 32
	}
	if opts.BandSrcValidHook != nil || opts.SrcNoDataReal != nil {
		srcBits += bandCount
	}
	if opts.UnifiedSrcValidHook != nil {
		srcBits += 1
	}

	dstBits := workingBits * bandCount
	if opts.DstDensityHook != nil {
		dstBits += 32
	}
	if opts.DstNoDataReal != nil || opts.DstValidHook != nil {
		dstBits += bandCount
	}

	srcPixels := float64(srcWin.W) * float64(srcWin.H)
	dstPixels := float64(dst.W) * float64(dst.H)
	return (float64(srcBits)*srcPixels + float64(dstBits)*dstPixels) / 8
}
