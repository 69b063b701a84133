// Package tracker finds game pieces and AprilTags in camera frames.
package tracker

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/team5607/go-controller/pkg/vision"
)

// BGRRange bounds a colour in OpenCV's BGR channel order.
type BGRRange struct {
	Lower, Upper [3]byte
}

// RingColour matches the orange of the game notes.
var RingColour = BGRRange{
	Lower: [3]byte{80, 45, 170},
	Upper: [3]byte{100, 145, 255},
}

const ringThreshold = 120

type RingTracker struct {
	colour BGRRange
}

func NewRingTracker(colour BGRRange) *RingTracker {
	return &RingTracker{colour: colour}
}

func (r *RingTracker) mask(frame gocv.Mat) gocv.Mat {
	lo, hi := r.colour.Lower, r.colour.Upper
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(frame,
		gocv.NewScalar(float64(lo[0]), float64(lo[1]), float64(lo[2]), 0),
		gocv.NewScalar(float64(hi[0]), float64(hi[1]), float64(hi[2]), 0),
		&mask)
	return mask
}

// Find returns the average centre of the ring coloured blobs in a BGR frame,
// or (0, 0) if there are none.
func (r *RingTracker) Find(frame gocv.Mat) image.Point {
	mask := r.mask(frame)
	defer mask.Close()

	masked := gocv.NewMat()
	defer masked.Close()
	gocv.BitwiseAndWithMask(frame, frame, &masked, mask)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(masked, &gray, gocv.ColorBGRToGray)

	// Denoise, then keep only the bright parts.
	gocv.GaussianBlur(gray, &gray, image.Pt(5, 5), 0, 0, gocv.BorderDefault)
	gocv.Threshold(gray, &gray, ringThreshold, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(gray, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	return vision.AverageCentroid(contours.ToPoints())
}

// MarkRings draws the ring centre for the debug stream.
func MarkRings(img *gocv.Mat, p image.Point) {
	if p == (image.Point{}) {
		return
	}
	gocv.Circle(img, p, 10, color.RGBA{0, 255, 255, 0}, 2)
}
