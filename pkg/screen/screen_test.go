package screen

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"go.viam.com/test"
)

func TestBatteryCharge(t *testing.T) {
	test.That(t, batteryCharge(0), test.ShouldEqual, 0.0)
	test.That(t, batteryCharge(9), test.ShouldEqual, 0.0)
	test.That(t, batteryCharge(13), test.ShouldEqual, 1.0)
	test.That(t, batteryCharge(10.8), test.ShouldAlmostEqual, 0.5)
}

func TestSnapshotSorted(t *testing.T) {
	SetMode("TELEOP")
	SetLine("tag", "no tag")
	SetLine("note", "empty")
	SetNotice("NO JOY", LevelErr)
	SetNotice("CALIBRATING", LevelInfo)
	defer ClearNotice("NO JOY")
	defer ClearNotice("CALIBRATING")

	snap := takeSnapshot()
	test.That(t, snap.mode, test.ShouldEqual, "TELEOP")
	test.That(t, snap.notices, test.ShouldResemble, []string{"CALIBRATING", "NO JOY"})
	test.That(t, snap.errs, test.ShouldResemble, []bool{false, true})
	test.That(t, snap.lines, test.ShouldContain, "note empty")
	test.That(t, snap.lines, test.ShouldContain, "tag no tag")

	ClearNotice("NO JOY")
	test.That(t, takeSnapshot().notices, test.ShouldResemble, []string{"CALIBRATING"})
}

func TestRender(t *testing.T) {
	SetBatteryVoltage(12.1)
	img := Render()
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, S, S))
}

func TestToRGB565(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, S, S))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	buf := toRGB565(img)
	test.That(t, len(buf), test.ShouldEqual, S*S*2)
	test.That(t, buf[0], test.ShouldEqual, byte(0xff))
	test.That(t, buf[1], test.ShouldEqual, byte(0xff))

	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{R: 0xff, A: 0xff}}, image.Point{}, draw.Src)
	buf = toRGB565(img)
	test.That(t, buf[1], test.ShouldEqual, byte(0xf8))
	test.That(t, buf[0], test.ShouldEqual, byte(0))
}
