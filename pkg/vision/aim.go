package vision

import (
	"math"

	"github.com/team5607/go-controller/pkg/robotconfig"
)

// AimError returns how far right of the aim point target sits, in pixels, and
// whether that is within the drive aim tolerance.
func AimError(target [2]float64, cfg robotconfig.VisionConfig) (offset float64, aimed bool) {
	offset = target[0] - cfg.NeededPos()[0]
	return offset, math.Abs(offset) <= cfg.DriveAimErrorRange
}
