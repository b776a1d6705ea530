package warp

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
)

// byteBackedBand is a same-type-only in-memory band (Read/Write never
// convert between RasterTypes) used to exercise scenarios that need
// real pixel content without depending on the raster package, which
// would create an import cycle for an internal test file.
type byteBackedBand struct {
	w, h     int
	data     []byte
	writable bool
}

func (b *byteBackedBand) Writable() bool { return b.writable }

func (b *byteBackedBand) Read(_ context.Context, win Rect, buf []byte, typ RasterType) error {
	ws := typ.WordSize()
	for y := 0; y < win.H; y++ {
		srcOff := ((win.Y+y)*b.w + win.X) * ws
		dstOff := y * win.W * ws
		copy(buf[dstOff:dstOff+win.W*ws], b.data[srcOff:srcOff+win.W*ws])
	}
	return nil
}

func (b *byteBackedBand) Write(_ context.Context, win Rect, buf []byte, typ RasterType) error {
	if !b.writable {
		return newErr(IOFailure, nil, "band not writable")
	}
	ws := typ.WordSize()
	for y := 0; y < win.H; y++ {
		dstOff := ((win.Y+y)*b.w + win.X) * ws
		srcOff := y * win.W * ws
		copy(b.data[dstOff:dstOff+win.W*ws], buf[srcOff:srcOff+win.W*ws])
	}
	return nil
}

type byteBackedDataset struct {
	w, h  int
	bands []*byteBackedBand
}

func (d *byteBackedDataset) Width() int      { return d.w }
func (d *byteBackedDataset) Height() int     { return d.h }
func (d *byteBackedDataset) BandCount() int  { return len(d.bands) }
func (d *byteBackedDataset) Band(b int) Band { return d.bands[b-1] }

func newByteBackedDataset(w, h int, typ RasterType, fill byte, writable bool) *byteBackedDataset {
	data := make([]byte, typ.WordSize()*w*h)
	for i := range data {
		data[i] = fill
	}
	return &byteBackedDataset{w: w, h: h, bands: []*byteBackedBand{{w: w, h: h, data: data, writable: writable}}}
}

// captureMaskKernel is a warp.Kernel that records the band-src-valid
// mask and destination buffers it is handed, for assertions that need
// to see inside a KernelCall.
type captureMaskKernel struct {
	onCall func(call *KernelCall)
}

func (k captureMaskKernel) Warp(ctx context.Context, call *KernelCall) error {
	k.onCall(call)
	return nil
}

// TestScenarioBandSrcValidClearsNoDataPixel is scenario 3 of §8: a
// band with one no-data pixel among otherwise-valid pixels must
// produce a band-src-valid mask that clears exactly that pixel's bit.
func TestScenarioBandSrcValidClearsNoDataPixel(t *testing.T) {
	src := newByteBackedDataset(4, 4, Byte, 5, false)
	src.bands[0].data[0] = 0 // pixel (0,0) is the lone no-data sample
	dst := newByteBackedDataset(4, 4, Byte, 0, true)

	var mask *bitMask
	op := NewOperation(captureMaskKernel{onCall: func(call *KernelCall) {
		mask = call.Masks.bandSrcValid[0]
	}})
	if err := op.Initialize(&Options{
		SrcDataset: src, DstDataset: dst, DstTypeHint: Byte,
		Resampling: Nearest, Transformer: identityFunc,
		Progress:      func(float64, any) bool { return true },
		SrcNoDataReal: []float64{0}, SrcNoDataImag: []float64{0},
	}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := op.ChunkAndWarp(context.Background(), Rect{W: 4, H: 4}); err != nil {
		t.Fatalf("ChunkAndWarp() error = %v", err)
	}

	if mask == nil {
		t.Fatalf("kernel never observed a band-src-valid mask")
	}
	if mask.get(0, 0) {
		t.Fatalf("mask bit for the no-data pixel (0,0) is set, want cleared")
	}
	for y := 0; y < mask.h; y++ {
		for x := 0; x < mask.w; x++ {
			if x == 0 && y == 0 {
				continue
			}
			if !mask.get(x, y) {
				t.Fatalf("mask bit for valid pixel (%d,%d) is cleared, want set", x, y)
			}
		}
	}
}

// TestScenarioInitDestComplexLiteralDropsImaginaryPart is scenario 5
// of §8: INIT_DEST="3.5,2.0" on a real working type must fill the
// destination buffer with 3.5 everywhere before the kernel runs,
// discarding the imaginary component.
func TestScenarioInitDestComplexLiteralDropsImaginaryPart(t *testing.T) {
	src := newByteBackedDataset(2, 2, Float32, 0, false)
	dst := newByteBackedDataset(2, 2, Float32, 0, true)

	var observed []float64
	op := NewOperation(captureMaskKernel{onCall: func(call *KernelCall) {
		for _, band := range call.DstBands {
			for off := 0; off+4 <= len(band); off += 4 {
				observed = append(observed, float64(math.Float32frombits(binary.LittleEndian.Uint32(band[off:off+4]))))
			}
		}
	}})
	if err := op.Initialize(&Options{
		SrcDataset: src, DstDataset: dst, DstTypeHint: Float32,
		Resampling: Nearest, Transformer: identityFunc,
		Progress: func(float64, any) bool { return true },
		Extra:    map[string]string{InitDestKey: "3.5,2.0"},
	}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := op.ChunkAndWarp(context.Background(), Rect{W: 2, H: 2}); err != nil {
		t.Fatalf("ChunkAndWarp() error = %v", err)
	}

	if len(observed) != 4 {
		t.Fatalf("observed %d pre-kernel samples, want 4", len(observed))
	}
	for i, v := range observed {
		if v != 3.5 {
			t.Fatalf("pre-kernel sample %d = %v, want 3.5 (imaginary part must be dropped for a real working type)", i, v)
		}
	}
}
