package warp_test

import (
	"testing"

	"github.com/raster-warp/warpcore/raster"
	"github.com/raster-warp/warpcore/transform"
	"github.com/raster-warp/warpcore/warp"
)

func noopProgress(float64, any) bool { return true }

func TestInitializeAppliesDefaults(t *testing.T) {
	src := raster.NewMemory(8, 8, 3, warp.Byte, false)
	dst := raster.NewMemory(8, 8, 3, warp.Byte, true)

	op := warp.NewOperation(nil)
	err := op.Initialize(&warp.Options{
		SrcDataset:  src,
		DstDataset:  dst,
		DstTypeHint: warp.Byte,
		Transformer: transform.Identity,
		Progress:    noopProgress,
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	got := op.Options()
	if len(got.SrcBands) != 3 || len(got.DstBands) != 3 {
		t.Fatalf("identity band mapping not applied: src=%v dst=%v", got.SrcBands, got.DstBands)
	}
	if got.WorkingType != warp.Byte {
		t.Fatalf("WorkingType = %v, want Byte (from DstTypeHint)", got.WorkingType)
	}
	if got.MemoryBudget != warp.DefaultMemoryBudget {
		t.Fatalf("MemoryBudget = %v, want default %v", got.MemoryBudget, warp.DefaultMemoryBudget)
	}
}

func TestInitializeRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts *warp.Options
	}{
		{
			name: "missing datasets",
			opts: &warp.Options{
				SrcBands:    []int{1},
				DstBands:    []int{1},
				DstTypeHint: warp.Byte,
				Transformer: transform.Identity,
				Progress:    noopProgress,
			},
		},
		{
			name: "missing transformer",
			opts: &warp.Options{
				SrcDataset:  raster.NewMemory(4, 4, 1, warp.Byte, false),
				DstDataset:  raster.NewMemory(4, 4, 1, warp.Byte, true),
				DstTypeHint: warp.Byte,
				Progress:    noopProgress,
			},
		},
		{
			name: "missing progress callback",
			opts: &warp.Options{
				SrcDataset:  raster.NewMemory(4, 4, 1, warp.Byte, false),
				DstDataset:  raster.NewMemory(4, 4, 1, warp.Byte, true),
				DstTypeHint: warp.Byte,
				Transformer: transform.Identity,
			},
		},
		{
			name: "memory budget below minimum",
			opts: &warp.Options{
				SrcDataset:   raster.NewMemory(4, 4, 1, warp.Byte, false),
				DstDataset:   raster.NewMemory(4, 4, 1, warp.Byte, true),
				DstTypeHint:  warp.Byte,
				Transformer:  transform.Identity,
				Progress:     noopProgress,
				MemoryBudget: 10,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := warp.NewOperation(nil)
			err := op.Initialize(tt.opts)
			if err == nil {
				t.Fatalf("Initialize() error = nil, want ConfigInvalid")
			}
			if kind, ok := warp.KindOf(err); !ok || kind != warp.ConfigInvalid {
				t.Fatalf("KindOf() = %v,%v, want ConfigInvalid,true", kind, ok)
			}
		})
	}
}

func TestInitializeRejectsNonWritableDestinationBand(t *testing.T) {
	src := raster.NewMemory(4, 4, 1, warp.Byte, false)
	dst := raster.NewMemory(4, 4, 1, warp.Byte, false)

	op := warp.NewOperation(nil)
	err := op.Initialize(&warp.Options{
		SrcDataset:  src,
		DstDataset:  dst,
		SrcBands:    []int{1},
		DstBands:    []int{1},
		DstTypeHint: warp.Byte,
		Transformer: transform.Identity,
		Progress:    noopProgress,
	})
	if err == nil {
		t.Fatalf("Initialize() error = nil, want ConfigInvalid for non-writable destination band")
	}
}

func TestWipeClearsOptions(t *testing.T) {
	src := raster.NewMemory(4, 4, 1, warp.Byte, false)
	dst := raster.NewMemory(4, 4, 1, warp.Byte, true)
	op := warp.NewOperation(nil)
	if err := op.Initialize(&warp.Options{
		SrcDataset: src, DstDataset: dst, DstTypeHint: warp.Byte,
		Transformer: transform.Identity, Progress: noopProgress,
	}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	op.Wipe()
	if op.Options() != nil {
		t.Fatalf("Options() != nil after Wipe()")
	}
	if err := op.ChunkAndWarp(nil, warp.Rect{W: 1, H: 1}); err == nil {
		t.Fatalf("ChunkAndWarp() after Wipe() should fail")
	}
}
