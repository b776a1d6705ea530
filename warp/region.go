package warp

import "context"

// warpRegion is the Region Executor of §4.4: it allocates the
// destination buffer for one in-budget chunk, applies the INIT_DEST
// initial-fill policy, dispatches to the Buffer Executor, and writes
// the result back to the destination dataset.
func (op *Operation) warpRegion(ctx context.Context, dst, srcWin Rect) error {
	opts, err := op.requireOptions()
	if err != nil {
		return err
	}

	bandCount := opts.bandCount()
	wordSize := opts.WorkingType.WordSize()
	planeBytes := wordSize * dst.W * dst.H
	buf := make([]byte, planeBytes*bandCount)

	if err := op.initDestBuffer(ctx, dst, buf, planeBytes); err != nil {
		return err
	}

	if err := op.warpRegionToBuffer(ctx, srcWin, dst, buf); err != nil {
		return err
	}

	for i, dstBand := range opts.DstBands {
		plane := buf[i*planeBytes : (i+1)*planeBytes]
		if err := opts.DstDataset.Band(dstBand).Write(ctx, dst, plane, opts.WorkingType); err != nil {
			return newErr(IOFailure, err, "writing destination band %d at %s", dstBand, dst)
		}
	}
	return nil
}

// initDestBuffer applies the §4.4 INIT_DEST policy to buf in place.
func (op *Operation) initDestBuffer(ctx context.Context, dst Rect, buf []byte, planeBytes int) error {
	opts := op.opts
	bandCount := opts.bandCount()

	initDest, hasInitDest := opts.Extra[InitDestKey]
	if !hasInitDest {
		for i, dstBand := range opts.DstBands {
			plane := buf[i*planeBytes : (i+1)*planeBytes]
			if err := opts.DstDataset.Band(dstBand).Read(ctx, dst, plane, opts.WorkingType); err != nil {
				return newErr(IOFailure, err, "reading destination band %d at %s for initial fill", dstBand, dst)
			}
		}
		return nil
	}

	for i := 0; i < bandCount; i++ {
		real, imag, err := op.resolveInitDestValue(initDest, i)
		if err != nil {
			return err
		}
		word := encodeScalar(opts.WorkingType, real, imag)
		plane := buf[i*planeBytes : (i+1)*planeBytes]
		broadcastFill(plane, word)
	}
	return nil
}

// resolveInitDestValue implements the §4.4 three-way INIT_DEST
// dispatch for band i (0-based into the mapping).
func (op *Operation) resolveInitDestValue(initDest string, band int) (real, imag float64, err error) {
	opts := op.opts
	if initDest == InitDestNoData {
		if opts.DstNoDataReal != nil {
			return opts.DstNoDataReal[band], opts.DstNoDataImag[band], nil
		}
		// No destination no-data configured: fall back to treating
		// the literal "NO_DATA" as a complex number, per §4.4. This
		// is documented as deliberately odd — it will fail to parse.
		r, i, perr := parseComplexLiteral(initDest)
		if perr != nil {
			return 0, 0, newErr(ConfigInvalid, perr, "INIT_DEST=NO_DATA with no destination no-data configured")
		}
		return r, i, nil
	}
	return parseComplexLiteral(initDest)
}
