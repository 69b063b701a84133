package vision

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// tagModel is the tag's corners in its own frame, in units of half the tag
// width: x right, y down, z into the tag.  Same order as detector corners.
var tagModel = [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// homography solves for H mapping tagModel onto the image corners: the null
// vector of the 8x9 DLT system.
func homography(corners [4][2]float64) (*mat.Dense, bool) {
	a := mat.NewDense(8, 9, nil)
	for i, c := range corners {
		x, y := tagModel[i][0], tagModel[i][1]
		u, v := c[0], c[1]
		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y, -u})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y, -v})
	}
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return nil, false
	}
	if svd.Rank(1e-9) < 8 {
		return nil, false
	}
	var vt mat.Dense
	svd.VTo(&vt)
	h := mat.NewDense(3, 3, nil)
	for i := 0; i < 9; i++ {
		h.Set(i/3, i%3, vt.At(i, 8))
	}
	return h, true
}

// TagRotation estimates the tag's orientation from its corners.  The result is
// the extrinsic x, y, z Euler angles in degrees of the rotation taking the tag
// frame to the camera frame; a tag squarely facing the camera is (0, 0, 0).
// ok is false when the corners don't describe a quadrilateral.
func TagRotation(corners [4][2]float64, cal Calibration) (xyz [3]float64, ok bool) {
	if cal.Fx == 0 || cal.Fy == 0 {
		return xyz, false
	}
	h, ok := homography(corners)
	if !ok {
		return xyz, false
	}

	// K^-1 H is [r1 r2 t] up to scale.
	m := mat.NewDense(3, 3, nil)
	for col := 0; col < 3; col++ {
		m.Set(0, col, (h.At(0, col)-cal.Cx*h.At(2, col))/cal.Fx)
		m.Set(1, col, (h.At(1, col)-cal.Cy*h.At(2, col))/cal.Fy)
		m.Set(2, col, h.At(2, col))
	}
	l1 := mat.Norm(m.ColView(0), 2)
	l2 := mat.Norm(m.ColView(1), 2)
	if l1 == 0 || l2 == 0 {
		return xyz, false
	}
	s := 1 / math.Sqrt(l1*l2)
	// The tag is in front of the camera.
	if m.At(2, 2)*s < 0 {
		s = -s
	}
	m.Scale(s, m)

	r1 := [3]float64{m.At(0, 0), m.At(1, 0), m.At(2, 0)}
	r2 := [3]float64{m.At(0, 1), m.At(1, 1), m.At(2, 1)}
	r := mat.NewDense(3, 3, []float64{
		r1[0], r2[0], r1[1]*r2[2] - r1[2]*r2[1],
		r1[1], r2[1], r1[2]*r2[0] - r1[0]*r2[2],
		r1[2], r2[2], r1[0]*r2[1] - r1[1]*r2[0],
	})

	// Nearest rotation matrix: U V^T.
	var svd mat.SVD
	if !svd.Factorize(r, mat.SVDFull) {
		return xyz, false
	}
	var u, v, rot mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	rot.Mul(&u, v.T())
	if mat.Det(&rot) < 0 {
		return xyz, false
	}

	// R = Rz(c) Ry(b) Rx(a)
	b := math.Asin(-clamp(rot.At(2, 0), -1, 1))
	a := math.Atan2(rot.At(2, 1), rot.At(2, 2))
	c := math.Atan2(rot.At(1, 0), rot.At(0, 0))
	return [3]float64{a * 180 / math.Pi, b * 180 / math.Pi, c * 180 / math.Pi}, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
