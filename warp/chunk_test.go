package warp

import (
	"context"
	"testing"
)

func TestSplitRectLongerDimension(t *testing.T) {
	lower, upper := splitRect(Rect{X: 0, Y: 0, W: 10, H: 4})
	if lower.W != 5 || upper.W != 5 || lower.H != 4 || upper.H != 4 {
		t.Fatalf("wide split = %v/%v, want two 5x4 halves", lower, upper)
	}
	if upper.X != 5 {
		t.Fatalf("upper.X = %d, want 5", upper.X)
	}

	lower, upper = splitRect(Rect{X: 0, Y: 0, W: 4, H: 9})
	if lower.H != 4 || upper.H != 5 {
		t.Fatalf("tall split halves = %d/%d, want 4/5 (c1=dim/2, c2=dim-c1)", lower.H, upper.H)
	}
	if upper.Y != 4 {
		t.Fatalf("upper.Y = %d, want 4", upper.Y)
	}
}

func TestSplitRectTieSplitsWidth(t *testing.T) {
	lower, upper := splitRect(Rect{W: 8, H: 8})
	if lower.W == upper.W && lower.H != 8 {
		t.Fatalf("tie should split along width, got lower=%v upper=%v", lower, upper)
	}
	if lower.H != 8 || upper.H != 8 {
		t.Fatalf("tie split changed height: lower=%v upper=%v", lower, upper)
	}
}

func TestChunkCostBytesScalesWithHooks(t *testing.T) {
	op := &Operation{opts: &Options{WorkingType: Byte, SrcBands: []int{1}, DstBands: []int{1}}}
	base := op.chunkCostBytes(Rect{W: 10, H: 10}, Rect{W: 10, H: 10})

	op.opts.SrcDensityHook = func(context.Context, Rect, [][]byte, RasterType, []float32) error { return nil }
	withDensity := op.chunkCostBytes(Rect{W: 10, H: 10}, Rect{W: 10, H: 10})
	if withDensity <= base {
		t.Fatalf("cost with a source density hook (%v) should exceed baseline (%v)", withDensity, base)
	}

	wantDelta := float64(32*10*10) / 8
	if got := withDensity - base; got != wantDelta {
		t.Fatalf("density hook cost delta = %v, want %v", got, wantDelta)
	}
}

// countingStubKernel is a no-op warp.Kernel that records how many
// times it was invoked, so recursion tests can assert the chunker
// actually dispatched more than one region instead of only checking
// for the absence of an error.
type countingStubKernel struct{ calls *int }

func (k countingStubKernel) Warp(ctx context.Context, call *KernelCall) error {
	*k.calls++
	return nil
}

func TestChunkAndWarpRecursesWhenOverBudget(t *testing.T) {
	// A 300x300 1-band byte chunk costs (8*90000 + 8*90000)/8 = 180000
	// bytes under an identity transform (srcWin == dst), comfortably
	// above MinMemoryBudget (100000): the chunker must split at least
	// once before any chunk fits, so the kernel is invoked more than
	// once.
	calls := 0
	op := NewOperation(countingStubKernel{calls: &calls})
	if err := op.Initialize(&Options{
		SrcDataset:   &stubDataset{w: 300, h: 300, bands: 1},
		DstDataset:   &stubDataset{w: 300, h: 300, bands: 1},
		DstTypeHint:  Byte,
		Resampling:   Nearest,
		Transformer:  identityFunc,
		Progress:     func(float64, any) bool { return true },
		MemoryBudget: MinMemoryBudget,
	}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	err := op.ChunkAndWarp(context.Background(), Rect{X: 0, Y: 0, W: 300, H: 300})
	if err != nil {
		t.Fatalf("ChunkAndWarp() error = %v", err)
	}

	if calls < 2 {
		t.Fatalf("kernel invoked %d time(s), want >= 2 (memory budget should force a recursive split)", calls)
	}
	if op.progressBase != 0 || op.progressScale != 1 {
		t.Fatalf("progress state not restored after ChunkAndWarp: base=%v scale=%v", op.progressBase, op.progressScale)
	}
}

func TestChunkAndWarpTerminatesAtTwoPixels(t *testing.T) {
	op := newStubOperation(t, 4, 4, 4, 4, Nearest, identityFunc)
	op.opts.MemoryBudget = 1 // any chunk is "over budget"

	err := op.ChunkAndWarp(context.Background(), Rect{X: 0, Y: 0, W: 2, H: 2})
	if err != nil {
		t.Fatalf("ChunkAndWarp() error = %v", err)
	}
}
