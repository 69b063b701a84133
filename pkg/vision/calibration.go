package vision

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Calibration holds the camera intrinsics, in pixels.
type Calibration struct {
	Fx, Fy float64
	Cx, Cy float64
}

// ReadCalibration reads a file of four lines: fx, fy, cx and cy.  Extra lines
// are ignored.
func ReadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Calibration{}, errors.Wrap(err, "reading camera calibration")
	}
	return ParseCalibration(string(data))
}

func ParseCalibration(data string) (Calibration, error) {
	lines := strings.Split(strings.TrimRight(data, "\n"), "\n")
	if len(lines) < 4 {
		return Calibration{}, errors.Errorf("camera calibration has %d lines, need 4", len(lines))
	}
	var vals [4]float64
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(lines[i]), 64)
		if err != nil {
			return Calibration{}, errors.Wrapf(err, "camera calibration line %d", i+1)
		}
		vals[i] = v
	}
	return Calibration{Fx: vals[0], Fy: vals[1], Cx: vals[2], Cy: vals[3]}, nil
}
