package vision

import (
	"image"
	"math"
)

// FRCTagSize is the printed width of a game AprilTag, metres.
const FRCTagSize = 0.17

type TagDetection struct {
	ID          int
	Center      [2]float64
	TopLeft     [2]float64
	BottomRight [2]float64
	// Distance from the camera, metres.
	Distance float64
	// Orientation relative to the camera, see TagRotation.
	Rotation [3]float64
}

// Usable is false for detections whose corners collapsed, which have no
// meaningful distance.
func (d TagDetection) Usable() bool {
	return !math.IsInf(d.Distance, 0) && !math.IsNaN(d.Distance)
}

// DistanceToCamera uses the pinhole model: an object of knownWidth appearing
// pixelWidth wide is knownWidth*focalLength/pixelWidth away.
func DistanceToCamera(knownWidth, focalLength, pixelWidth float64) float64 {
	if pixelWidth <= 0 {
		return math.Inf(1)
	}
	return knownWidth * focalLength / pixelWidth
}

// TagFromCorners builds a detection from corners ordered clockwise from the
// top left.
func TagFromCorners(id int, corners [4][2]float64, cal Calibration) TagDetection {
	var cx, cy float64
	for _, c := range corners {
		cx += c[0]
		cy += c[1]
	}
	width := math.Hypot(corners[1][0]-corners[0][0], corners[1][1]-corners[0][1])
	rot, _ := TagRotation(corners, cal)
	return TagDetection{
		ID:          id,
		Center:      [2]float64{cx / 4, cy / 4},
		TopLeft:     corners[0],
		BottomRight: corners[2],
		Distance:    DistanceToCamera(FRCTagSize, cal.Fx, width),
		Rotation:    rot,
	}
}

// contourCentroid is the centroid of the polygon's area, the same as
// m10/m00 and m01/m00 from the contour's moments.  ok is false for
// degenerate contours.
func contourCentroid(pts []image.Point) (c image.Point, ok bool) {
	var a, sx, sy float64
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		cross := float64(p.X*q.Y - q.X*p.Y)
		a += cross
		sx += float64(p.X+q.X) * cross
		sy += float64(p.Y+q.Y) * cross
	}
	if a == 0 {
		return image.Point{}, false
	}
	return image.Pt(int(sx/(3*a)), int(sy/(3*a))), true
}

// AverageCentroid averages the centroids of the contours, ignoring
// degenerate ones.  Returns (0, 0) when nothing is found.
func AverageCentroid(contours [][]image.Point) image.Point {
	var tx, ty, n int
	for _, c := range contours {
		p, ok := contourCentroid(c)
		if !ok {
			continue
		}
		tx += p.X
		ty += p.Y
		n++
	}
	if n == 0 {
		return image.Point{}
	}
	return image.Pt(tx/n, ty/n)
}
