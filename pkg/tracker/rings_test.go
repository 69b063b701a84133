//go:build gocv

package tracker

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
	"go.viam.com/test"
)

// frameWithSquare is a black BGR frame with one filled square of c.
func frameWithSquare(c color.RGBA, r image.Rectangle) gocv.Mat {
	frame := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC3)
	frame.SetTo(gocv.NewScalar(0, 0, 0, 0))
	gocv.Rectangle(&frame, r, c, -1)
	return frame
}

func TestRingColourFound(t *testing.T) {
	// BGR (90, 100, 220) sits inside RingColour.
	frame := frameWithSquare(color.RGBA{R: 220, G: 100, B: 90}, image.Rect(50, 50, 90, 90))
	defer frame.Close()

	tr := NewRingTracker(RingColour)
	p := tr.Find(frame)
	test.That(t, p.X, test.ShouldAlmostEqual, 70, 2)
	test.That(t, p.Y, test.ShouldAlmostEqual, 70, 2)
}

func TestOtherColoursIgnored(t *testing.T) {
	frame := frameWithSquare(color.RGBA{R: 20, G: 40, B: 230}, image.Rect(50, 50, 90, 90))
	defer frame.Close()

	tr := NewRingTracker(RingColour)
	test.That(t, tr.Find(frame), test.ShouldResemble, image.Point{})
}

func TestDimRingsBelowThreshold(t *testing.T) {
	// In range, but too dark to survive the threshold once greyed.
	frame := frameWithSquare(color.RGBA{R: 175, G: 50, B: 85}, image.Rect(20, 20, 60, 60))
	defer frame.Close()

	tr := NewRingTracker(RingColour)
	test.That(t, tr.Find(frame), test.ShouldResemble, image.Point{})
}
