// Package raster provides an in-memory implementation of warp.Dataset
// and warp.Band, sufficient for tests and the demo CLI. It stores each
// band as a flat []byte plane in a single fixed type and converts to
// and from the caller's requested working type on Read/Write, the way
// a real raster driver would at its own type boundary.
package raster

import (
	"context"
	"sync"

	"github.com/raster-warp/warpcore/warp"
)

// Memory is a fixed-size, fixed-type, in-memory raster dataset.
type Memory struct {
	width, height int
	bands         []*memBand
}

// NewMemory allocates a Memory dataset with bandCount bands of the
// given native type, each band zero-filled.
func NewMemory(width, height, bandCount int, native warp.RasterType, writable bool) *Memory {
	ds := &Memory{width: width, height: height, bands: make([]*memBand, bandCount)}
	for i := range ds.bands {
		ds.bands[i] = &memBand{
			width: width, height: height, native: native, writable: writable,
			data: make([]byte, native.WordSize()*width*height),
		}
	}
	return ds
}

func (m *Memory) Width() int      { return m.width }
func (m *Memory) Height() int     { return m.height }
func (m *Memory) BandCount() int  { return len(m.bands) }
func (m *Memory) Band(b int) warp.Band {
	if b < 1 || b > len(m.bands) {
		return &memBand{} // deliberately inert: Options.validate rejects out-of-range b before this is ever called
	}
	return m.bands[b-1]
}

// Fill sets every pixel of band b (1-based) to the given native-typed
// scalar, useful for constructing test fixtures.
func (m *Memory) Fill(b int, word []byte) {
	band := m.bands[b-1]
	band.mu.Lock()
	defer band.mu.Unlock()
	for off := 0; off+len(word) <= len(band.data); off += len(word) {
		copy(band.data[off:], word)
	}
}

// memBand is one band's pixel plane plus a mutex, so that a caller's
// own pipeline may read and write windows of the same band from
// different goroutines. Operation itself is single-threaded (§5) and
// calls Read and Write from one goroutine.
type memBand struct {
	mu            sync.Mutex
	width, height int
	native        warp.RasterType
	writable      bool
	data          []byte
}

func (b *memBand) Writable() bool { return b.writable }

func (b *memBand) Read(ctx context.Context, win warp.Rect, buf []byte, typ warp.RasterType) error {
	if err := ctx.Err(); err != nil {
		return warp.NewError(warp.Aborted, err, "read canceled")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := checkWindow(win, b.width, b.height); err != nil {
		return err
	}
	nativeWS := b.native.WordSize()
	outWS := typ.WordSize()
	for y := 0; y < win.H; y++ {
		for x := 0; x < win.W; x++ {
			srcOff := ((win.Y+y)*b.width + (win.X + x)) * nativeWS
			v, iv := decode(b.data[srcOff:srcOff+nativeWS], b.native)
			dstOff := (y*win.W + x) * outWS
			encode(buf[dstOff:dstOff+outWS], typ, v, iv)
		}
	}
	return nil
}

func (b *memBand) Write(ctx context.Context, win warp.Rect, buf []byte, typ warp.RasterType) error {
	if err := ctx.Err(); err != nil {
		return warp.NewError(warp.Aborted, err, "write canceled")
	}
	if !b.writable {
		return warp.NewError(warp.IOFailure, nil, "band is not writable")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := checkWindow(win, b.width, b.height); err != nil {
		return err
	}
	nativeWS := b.native.WordSize()
	inWS := typ.WordSize()
	for y := 0; y < win.H; y++ {
		for x := 0; x < win.W; x++ {
			srcOff := (y*win.W + x) * inWS
			v, iv := decode(buf[srcOff:srcOff+inWS], typ)
			dstOff := ((win.Y+y)*b.width + (win.X + x)) * nativeWS
			encode(b.data[dstOff:dstOff+nativeWS], b.native, v, iv)
		}
	}
	return nil
}

func checkWindow(win warp.Rect, width, height int) error {
	if win.X < 0 || win.Y < 0 || win.X+win.W > width || win.Y+win.H > height {
		return warp.NewError(warp.IOFailure, nil, "window %s out of bounds for %dx%d band", win, width, height)
	}
	return nil
}
