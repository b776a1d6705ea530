package warp

import "context"

// warpRegionToBuffer is the Buffer Executor / Mask Manager of §4.5. It
// stages source-band buffers, wires the caller's destination buffer,
// materializes the configured mask planes, and invokes the warp
// kernel. destBuffer must already hold word_size*dstWin.W*dstWin.H*
// bandCount bytes, band-planar, of type opts.WorkingType (§4.5
// precondition; not independently re-verified here per §9's note that
// the original never enforced it either).
func (op *Operation) warpRegionToBuffer(ctx context.Context, srcWin, dstWin Rect, destBuffer []byte) error {
	opts, err := op.requireOptions()
	if err != nil {
		return err
	}
	if op.kernel == nil {
		return newErr(ConfigInvalid, nil, "no warp kernel configured")
	}

	if srcWin == (Rect{}) {
		srcWin, err = op.computeSourceWindow(dstWin)
		if err != nil {
			return err
		}
	}

	bandCount := opts.bandCount()
	wordSize := opts.WorkingType.WordSize()

	call := &KernelCall{
		Algorithm:      opts.Resampling,
		BandCount:      bandCount,
		WorkingType:    opts.WorkingType,
		Transformer:    opts.Transformer,
		TransformerArg: opts.TransformerArg,
		SrcWindow:      srcWin,
		DstWindow:      dstWin,
		SrcBands:       make([][]byte, bandCount),
		DstBands:       make([][]byte, bandCount),
		Masks:          &maskSet{},
		Extra:          opts.Extra,
		op:             op,
		opts:           opts,
	}

	srcPlaneBytes := wordSize * srcWin.W * srcWin.H
	for i, srcBand := range opts.SrcBands {
		buf := make([]byte, srcPlaneBytes)
		if err := opts.SrcDataset.Band(srcBand).Read(ctx, srcWin, buf, opts.WorkingType); err != nil {
			return newErr(IOFailure, err, "reading source band %d at %s", srcBand, srcWin)
		}
		call.SrcBands[i] = buf
	}

	dstPlaneBytes := wordSize * dstWin.W * dstWin.H
	for i := 0; i < bandCount; i++ {
		call.DstBands[i] = destBuffer[i*dstPlaneBytes : (i+1)*dstPlaneBytes]
	}

	if opts.SrcNoDataReal != nil {
		call.Masks.bandSrcValid = make([]*bitMask, bandCount)
		for i := range call.SrcBands {
			mask, err := call.BandSrcValid(i)
			if err != nil {
				return err
			}
			applyNoDataMask(call.SrcBands[i], mask, opts.WorkingType, opts.SrcNoDataReal[i], opts.SrcNoDataImag[i])
		}
	}

	if err := op.runMaskHooks(ctx, call); err != nil {
		return err
	}

	if err := op.kernel.Warp(ctx, call); err != nil {
		return err
	}

	call.SrcBands = nil
	call.DstBands = nil
	return nil
}

// applyNoDataMask clears mask bits for every pixel in src whose
// word_size-exact encoding matches the (real, imag) no-data scalar,
// per §4.5 step 5.
func applyNoDataMask(src []byte, mask *bitMask, typ RasterType, real, imag float64) {
	word := encodeScalar(typ, real, imag)
	ws := len(word)
	if ws == 0 {
		return
	}
	for y := 0; y < mask.h; y++ {
		for x := 0; x < mask.w; x++ {
			off := (y*mask.w + x) * ws
			if pixelEqualsScalar(src, off, word) {
				mask.clear(x, y)
			}
		}
	}
}

// runMaskHooks invokes whichever optional mask-generator hooks (§3)
// are configured, materializing their target plane on demand.
func (op *Operation) runMaskHooks(ctx context.Context, call *KernelCall) error {
	opts := call.opts

	if opts.BandSrcValidHook != nil {
		if call.Masks.bandSrcValid == nil {
			call.Masks.bandSrcValid = make([]*bitMask, call.BandCount)
		}
		for i := range call.SrcBands {
			mask, err := call.BandSrcValid(i)
			if err != nil {
				return err
			}
			if err := opts.BandSrcValidHook(ctx, i, call.SrcWindow, call.SrcBands[i], call.WorkingType, mask.bits); err != nil {
				return newErr(Internal, err, "band-src-valid mask hook failed for band %d", i)
			}
		}
	}
	if opts.UnifiedSrcValidHook != nil {
		if err := call.Masks.ensure(UnifiedSrcValid, 0, call.SrcWindow, call.DstWindow); err != nil {
			return err
		}
		if err := opts.UnifiedSrcValidHook(ctx, call.SrcWindow, call.SrcBands, call.WorkingType, call.Masks.unifiedSrcValid.bits); err != nil {
			return newErr(Internal, err, "unified-src-valid mask hook failed")
		}
	}
	if opts.SrcDensityHook != nil {
		if err := call.Masks.ensure(UnifiedSrcDensity, 0, call.SrcWindow, call.DstWindow); err != nil {
			return err
		}
		if err := opts.SrcDensityHook(ctx, call.SrcWindow, call.SrcBands, call.WorkingType, call.Masks.unifiedSrcDensity.vals); err != nil {
			return newErr(Internal, err, "src-density mask hook failed")
		}
	}
	if opts.DstValidHook != nil {
		if err := call.Masks.ensure(DstValid, 0, call.SrcWindow, call.DstWindow); err != nil {
			return err
		}
		if err := opts.DstValidHook(ctx, call.DstWindow, call.DstBands, call.WorkingType, call.Masks.dstValid.bits); err != nil {
			return newErr(Internal, err, "dst-valid mask hook failed")
		}
	}
	if opts.DstDensityHook != nil {
		if err := call.Masks.ensure(DstDensity, 0, call.SrcWindow, call.DstWindow); err != nil {
			return err
		}
		if err := opts.DstDensityHook(ctx, call.DstWindow, call.DstBands, call.WorkingType, call.Masks.dstDensity.vals); err != nil {
			return newErr(Internal, err, "dst-density mask hook failed")
		}
	}
	return nil
}
