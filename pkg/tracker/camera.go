package tracker

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Camera keeps reading frames in the background so Latest never waits on
// the device.
type Camera struct {
	log    *zap.SugaredLogger
	webcam *gocv.VideoCapture

	lock  sync.Mutex
	frame gocv.Mat
	fresh bool
}

// OpenCamera takes a device index or path.
func OpenCamera(log *zap.SugaredLogger, device interface{}) (*Camera, error) {
	webcam, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "opening camera %v", device)
	}
	return &Camera{
		log:    log,
		webcam: webcam,
		frame:  gocv.NewMat(),
	}, nil
}

func (c *Camera) Loop(ctx context.Context) {
	img := gocv.NewMat()
	defer img.Close()
	for ctx.Err() == nil {
		if ok := c.webcam.Read(&img); !ok || img.Empty() {
			c.log.Warn("Camera read failed")
			return
		}
		c.lock.Lock()
		img.CopyTo(&c.frame)
		c.fresh = true
		c.lock.Unlock()
	}
}

// Latest copies the newest frame into dst.  It returns false if no frame has
// arrived since the last call.
func (c *Camera) Latest(dst *gocv.Mat) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.fresh {
		return false
	}
	c.frame.CopyTo(dst)
	c.fresh = false
	return true
}

// Close must be called after Loop has returned.
func (c *Camera) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	_ = c.frame.Close()
	return c.webcam.Close()
}
