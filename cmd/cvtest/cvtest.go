package main

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"github.com/team5607/go-controller/pkg/tracker"
	"github.com/team5607/go-controller/pkg/vision"
)

// Usage: cvtest <image file|camera> [cal.txt]
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: cvtest <image file|camera> [calibration file]")
		os.Exit(2)
	}
	cal := vision.Calibration{Fx: 600, Fy: 600}
	if len(os.Args) > 2 {
		var err error
		cal, err = vision.ReadCalibration(os.Args[2])
		if err != nil {
			fmt.Println("Failed to read calibration: ", err)
			os.Exit(1)
		}
	}
	rings := tracker.NewRingTracker(tracker.RingColour)
	tags := tracker.NewTagDetector(cal)
	defer tags.Close()

	if os.Args[1] == "camera" {
		loopReadingCamera(rings, tags)
	} else {
		analyzeFile(os.Args[1], rings, tags)
	}
}

func loopReadingCamera(rings *tracker.RingTracker, tags *tracker.TagDetector) {
	webcam, err := gocv.VideoCaptureDevice(0)
	if err != nil {
		fmt.Printf("error opening video capture device: %v\n", 0)
		return
	}
	defer webcam.Close()

	img := gocv.NewMat()
	defer img.Close()

	for {
		// This blocks until the next frame is ready.
		if ok := webcam.Read(&img); !ok {
			fmt.Printf("cannot read device\n")
			return
		}
		if img.Empty() {
			fmt.Printf("no image on device\n")
			continue
		}
		report(img, rings, tags)
	}
}

func report(img gocv.Mat, rings *tracker.RingTracker, tags *tracker.TagDetector) []vision.TagDetection {
	p := rings.Find(img)
	fmt.Printf("Rings at %v\n", p)
	found := tags.Detect(img)
	for _, t := range found {
		fmt.Printf("Tag %d at %v, %.2fm\n", t.ID, t.Center, t.Distance)
	}
	return found
}

func analyzeFile(filename string, rings *tracker.RingTracker, tags *tracker.TagDetector) {
	// Read that file (as BGR).
	img := gocv.IMRead(filename, gocv.IMReadColor)
	defer img.Close()
	fmt.Printf("Input size = %v x %v\n", img.Cols(), img.Rows())

	found := report(img, rings, tags)
	tracker.MarkRings(&img, rings.Find(img))
	tracker.MarkTags(&img, found)

	window := gocv.NewWindow("cvtest")
	defer window.Close()
	window.ResizeWindow(img.Cols(), img.Rows())
	for {
		window.IMShow(img)
		key := window.WaitKey(0)
		if key == 'n' || key == 27 {
			break
		}
	}
}
