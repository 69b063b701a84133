package tracker

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/team5607/go-controller/pkg/vision"
)

// TagDetector finds 36h11 AprilTags.
type TagDetector struct {
	detector gocv.ArucoDetector
	cal      vision.Calibration
}

func NewTagDetector(cal vision.Calibration) *TagDetector {
	dict := gocv.GetPredefinedDictionary(gocv.ArucoDictAprilTag_36h11)
	params := gocv.NewArucoDetectorParameters()
	return &TagDetector{
		detector: gocv.NewArucoDetectorWithParams(dict, params),
		cal:      cal,
	}
}

func (d *TagDetector) Detect(frame gocv.Mat) []vision.TagDetection {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	corners, ids, _ := d.detector.DetectMarkers(gray)
	var tags []vision.TagDetection
	for i, id := range ids {
		if len(corners[i]) != 4 {
			continue
		}
		var c [4][2]float64
		for j, p := range corners[i] {
			c[j] = [2]float64{float64(p.X), float64(p.Y)}
		}
		tags = append(tags, vision.TagFromCorners(id, c, d.cal))
	}
	return tags
}

func (d *TagDetector) Close() error {
	d.detector.Close()
	return nil
}

func MarkTags(img *gocv.Mat, tags []vision.TagDetection) {
	for _, t := range tags {
		r := image.Rect(int(t.TopLeft[0]), int(t.TopLeft[1]), int(t.BottomRight[0]), int(t.BottomRight[1]))
		gocv.Rectangle(img, r, color.RGBA{0, 255, 0, 0}, 2)
	}
}
