// Package transform provides the coordinate-transformer collaborator
// described in spec.md §6, plus a couple of reference implementations
// used by tests and the demo CLI. The core (package warp) treats
// transformers as an opaque black box; it never inspects Arg.
package transform

// Func maps a batch of points between destination and source pixel
// space. When dstToSrc is true (the only direction the core ever
// requests), x/y/z are destination coordinates on entry and source
// coordinates on exit. success[i] reports whether point i transformed;
// a false return from Func itself means the whole batch failed.
//
// Implementations mutate x, y and z in place and must leave success
// sized exactly len(x).
type Func func(arg any, dstToSrc bool, x, y, z []float64, success []bool) bool

// Identity is a Func that returns its input unchanged and always
// succeeds. Useful for exercising the round-trip properties of §8.
func Identity(_ any, _ bool, x, y, z []float64, success []bool) bool {
	for i := range success {
		success[i] = true
	}
	return true
}

// Affine holds a 2-D source-to-destination affine map:
// (dx, dy) = (a*sx + b*sy + c, d*sx + e*sy + f).
// Its inverse is used when dstToSrc is true.
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// NewIdentityAffine returns the identity affine transform.
func NewIdentityAffine() Affine {
	return Affine{A: 1, B: 0, C: 0, D: 0, E: 1, F: 0}
}

// NewScaleAffine returns an affine transform whose dstToSrc direction
// scales destination coordinates by (sx, sy) to obtain source
// coordinates, i.e. the source image is sx/sy times the size of the
// destination. Func() inverts the forward map to serve dstToSrc, so
// the forward map stored here is the source-to-destination scale
// (1/sx, 1/sy).
func NewScaleAffine(sx, sy float64) Affine {
	return Affine{A: 1 / sx, B: 0, C: 0, D: 0, E: 1 / sy, F: 0}
}

func (af Affine) forward(x, y float64) (float64, float64) {
	return af.A*x + af.B*y + af.C, af.D*x + af.E*y + af.F
}

func (af Affine) invert() (Affine, bool) {
	det := af.A*af.E - af.B*af.D
	if det == 0 {
		return Affine{}, false
	}
	inv := Affine{
		A: af.E / det,
		B: -af.B / det,
		D: -af.D / det,
		E: af.A / det,
	}
	inv.C = -(inv.A*af.C + inv.B*af.F)
	inv.F = -(inv.D*af.C + inv.E*af.F)
	return inv, true
}

// Func returns a transform.Func backed by af. arg is ignored. On
// dstToSrc=true it applies the inverse affine map; singular affines
// report failure for every point.
func (af Affine) Func() Func {
	inv, invertible := af.invert()
	return func(_ any, dstToSrc bool, x, y, z []float64, success []bool) bool {
		m := af
		if dstToSrc {
			if !invertible {
				for i := range success {
					success[i] = false
				}
				return false
			}
			m = inv
		}
		for i := range x {
			x[i], y[i] = m.forward(x[i], y[i])
			success[i] = true
		}
		return true
	}
}
