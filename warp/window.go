package warp

import (
	"math"

	"golang.org/x/image/math/f64"
)

// edgeSampleCount is the fixed number of sample points constructed by
// computeSourceWindow (§4.2 step 1): 21 values of t, 4 edge points each.
const edgeSampleCount = 84

// minSurvivingPoints is the minimum number of sample points that must
// transform successfully for the estimator to trust its bounding box
// (§4.2 step 3, §7).
const minSurvivingPoints = 10

// edgeSamplePoints builds the 84 destination-space sample points used
// to estimate a chunk's source window, per §4.2 step 1.
func edgeSamplePoints(dst Rect) [edgeSampleCount]f64.Vec2 {
	var pts [edgeSampleCount]f64.Vec2
	dx, dy, dw, dh := float64(dst.X), float64(dst.Y), float64(dst.W), float64(dst.H)
	i := 0
	for step := 0; step <= 20; step++ {
		t := float64(step) * 0.05
		if t > 0.99 {
			t = 1.0
		}
		pts[i] = f64.Vec2{dx + t*dw, dy}         // top edge
		pts[i+1] = f64.Vec2{dx + t*dw, dy + dh}  // bottom edge
		pts[i+2] = f64.Vec2{dx, dy + t*dh}       // left edge
		pts[i+3] = f64.Vec2{dx + dw, dy + t*dh}  // right edge
		i += 4
	}
	if i != edgeSampleCount {
		panic("warp: edge sample construction did not produce 84 points")
	}
	return pts
}

// computeSourceWindow implements §4.2: it transforms the 84 edge
// samples of dst into source space and returns their bounding
// rectangle, offset by the resampling half-width r and clamped to the
// source raster. r is added to both the origin and the size, so the
// window keeps the unpadded width and height and moves r pixels toward
// larger coordinates; it is not widened on the low side.
func (op *Operation) computeSourceWindow(dst Rect) (Rect, error) {
	opts, err := op.requireOptions()
	if err != nil {
		return Rect{}, err
	}

	pts := edgeSamplePoints(dst)
	x := make([]float64, edgeSampleCount)
	y := make([]float64, edgeSampleCount)
	z := make([]float64, edgeSampleCount)
	success := make([]bool, edgeSampleCount)
	for i, p := range pts {
		x[i], y[i] = p[0], p[1]
	}

	if ok := opts.Transformer(opts.TransformerArg, true, x, y, z, success); !ok {
		return Rect{}, newErr(TransformFailure, nil, "transformer rejected the batch of %d sample points", edgeSampleCount)
	}

	var failures, surviving int
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, ok := range success {
		if !ok {
			failures++
			continue
		}
		surviving++
		if x[i] < minX {
			minX = x[i]
		}
		if x[i] > maxX {
			maxX = x[i]
		}
		if y[i] < minY {
			minY = y[i]
		}
		if y[i] > maxY {
			maxY = y[i]
		}
	}

	if surviving < minSurvivingPoints {
		return Rect{}, newErr(TransformFailure, nil,
			"only %d of %d sample points transformed successfully (need >= %d)",
			surviving, edgeSampleCount, minSurvivingPoints)
	}
	if failures > 0 {
		op.log.Debug().
			Int("failed", failures).
			Int("surviving", surviving).
			Str("dst", dst.String()).
			Msg("source window estimator dropped sample points")
	}

	r := opts.Resampling.HalfWidth()
	srcW, srcH := opts.SrcDataset.Width(), opts.SrcDataset.Height()

	sx := max(0, int(math.Floor(minX))+r)
	sy := max(0, int(math.Floor(minY))+r)
	sw := min(srcW-sx, int(math.Ceil(maxX))-sx+r)
	sh := min(srcH-sy, int(math.Ceil(maxY))-sy+r)

	return Rect{X: sx, Y: sy, W: sw, H: sh}, nil
}
