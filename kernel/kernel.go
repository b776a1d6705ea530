// Package kernel provides a reference implementation of the opaque
// low-level warp kernel collaborator described in warp.Kernel. It
// performs inverse coordinate lookups through the call's transformer
// and resamples each destination pixel with nearest, bilinear, or
// cubic weights, using the same kernel shapes as
// golang.org/x/image/draw (NearestNeighbor, ApproxBiLinear,
// CatmullRom) rather than inventing new taps.
package kernel

import (
	"context"
	"math"

	"github.com/raster-warp/warpcore/warp"
)

// Reference is a minimal, dependency-free warp.Kernel implementation
// suitable for tests and the demo CLI. It treats every working type as
// float64 internally and converts on the way in/out via the byte
// codecs in codec.go.
type Reference struct{}

// Warp implements warp.Kernel.
func (Reference) Warp(ctx context.Context, call *warp.KernelCall) error {
	dst := call.DstWindow
	src := call.SrcWindow
	n := dst.W * dst.H

	dx := make([]float64, n)
	dy := make([]float64, n)
	dz := make([]float64, n)
	i := 0
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			dx[i] = float64(dst.X + x)
			dy[i] = float64(dst.Y + y)
			i++
		}
	}
	success := make([]bool, n)
	if ok := call.Transformer(call.TransformerArg, true, dx, dy, dz, success); !ok {
		return warp.NewError(warp.TransformFailure, nil, "kernel transform batch rejected")
	}

	half := call.Algorithm.HalfWidth()

	for band := 0; band < call.BandCount; band++ {
		srcPlane := call.SrcBands[band]
		dstPlane := call.DstBands[band]
		for i := 0; i < n; i++ {
			px, py := i%dst.W, i/dst.W
			if ctx.Err() != nil {
				return warp.NewError(warp.Aborted, ctx.Err(), "context canceled during kernel warp")
			}
			if !success[i] {
				continue
			}
			sx := dx[i] - float64(src.X)
			sy := dy[i] - float64(src.Y)

			var v float64
			var ok bool
			switch {
			case half == 0:
				v, ok = sampleNearest(srcPlane, src, call.WorkingType, sx, sy)
			case half == 1:
				v, ok = sampleBilinear(srcPlane, src, call.WorkingType, sx, sy)
			default:
				v, ok = sampleCubic(srcPlane, src, call.WorkingType, sx, sy)
			}
			if !ok {
				continue
			}
			writeSample(dstPlane, dst, call.WorkingType, px, py, v)
		}
		if !call.ReportProgress(float64(band+1) / float64(call.BandCount)) {
			return warp.NewError(warp.Aborted, nil, "progress callback requested cancellation")
		}
	}
	return nil
}

func inBounds(r warp.Rect, x, y int) bool {
	return x >= 0 && y >= 0 && x < r.W && y < r.H
}

func sampleNearest(plane []byte, win warp.Rect, typ warp.RasterType, sx, sy float64) (float64, bool) {
	x, y := int(math.Floor(sx+0.5)), int(math.Floor(sy+0.5))
	if !inBounds(win, x, y) {
		return 0, false
	}
	return readSample(plane, win, typ, x, y), true
}

func sampleBilinear(plane []byte, win warp.Rect, typ warp.RasterType, sx, sy float64) (float64, bool) {
	x0, y0 := int(math.Floor(sx)), int(math.Floor(sy))
	fx, fy := sx-float64(x0), sy-float64(y0)
	xWeights := [2]float64{1 - fx, fx}
	yWeights := [2]float64{1 - fy, fy}

	var sum, weight float64
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			x, y := x0+i, y0+j
			if !inBounds(win, x, y) {
				continue
			}
			w := xWeights[i] * yWeights[j]
			sum += w * readSample(plane, win, typ, x, y)
			weight += w
		}
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

// sampleCubic uses the Catmull-Rom taps, matching
// golang.org/x/image/draw.CatmullRom's kernel shape.
func sampleCubic(plane []byte, win warp.Rect, typ warp.RasterType, sx, sy float64) (float64, bool) {
	x0, y0 := int(math.Floor(sx)), int(math.Floor(sy))
	fx, fy := sx-float64(x0), sy-float64(y0)

	var sum, weight float64
	for j := -1; j <= 2; j++ {
		wy := catmullRom(float64(j) - fy)
		for i := -1; i <= 2; i++ {
			x, y := x0+i, y0+j
			if !inBounds(win, x, y) {
				continue
			}
			wx := catmullRom(float64(i) - fx)
			w := wx * wy
			sum += w * readSample(plane, win, typ, x, y)
			weight += w
		}
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

func catmullRom(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t <= 1:
		return (1.5*t-2.5)*t*t + 1
	case t < 2:
		return ((-0.5*t+2.5)*t-4)*t + 2
	default:
		return 0
	}
}
