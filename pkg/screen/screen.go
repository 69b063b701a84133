package screen

import (
	"context"
	"fmt"
	"image"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

type Level int

const (
	LevelInfo Level = iota
	LevelErr
)

const S = 128

var (
	lock sync.Mutex

	mode           string
	notices        = map[string]Level{}
	lines          = map[string]string{}
	batteryVoltage float64
)

func SetMode(m string) {
	lock.Lock()
	mode = m
	lock.Unlock()
}

func SetNotice(text string, level Level) {
	lock.Lock()
	notices[text] = level
	lock.Unlock()
}

func ClearNotice(text string) {
	lock.Lock()
	delete(notices, text)
	lock.Unlock()
}

// SetLine shows "key value" in the status list, sorted by key.
func SetLine(key, value string) {
	lock.Lock()
	lines[key] = value
	lock.Unlock()
}

func SetBatteryVoltage(v float64) {
	lock.Lock()
	batteryVoltage = v
	lock.Unlock()
}

type snapshot struct {
	mode    string
	notices []string
	errs    []bool
	lines   []string
	voltage float64
}

func takeSnapshot() snapshot {
	lock.Lock()
	defer lock.Unlock()
	snap := snapshot{mode: mode, voltage: batteryVoltage}
	for n := range notices {
		snap.notices = append(snap.notices, n)
	}
	sort.Strings(snap.notices)
	for _, n := range snap.notices {
		snap.errs = append(snap.errs, notices[n] == LevelErr)
	}
	var keys []string
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		snap.lines = append(snap.lines, k+" "+lines[k])
	}
	return snap
}

func LoopUpdatingScreen(ctx context.Context, log *zap.SugaredLogger, device string) {
	f, err := os.OpenFile(device, os.O_RDWR, 0666)
	if err != nil {
		log.Infow("Failed to open screen, ignoring", "device", device)
		return
	}
	defer f.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			var buf [S * S * 2]byte
			_, _ = f.Seek(0, 0)
			_, _ = f.Write(buf[:])
			return
		case <-ticker.C:
		}

		buf := toRGB565(Render())
		if _, err := f.Seek(0, 0); err != nil {
			log.Errorw("Screen failure", "error", err)
			return
		}
		for i := 0; i < S; i++ {
			_, err = f.Write(buf[i*S*2 : (i+1)*S*2])
			if err != nil {
				log.Errorw("Screen failure", "error", err)
				return
			}
			time.Sleep(10 * time.Microsecond)
		}
	}
}

// Render draws the current status.
func Render() image.Image {
	snap := takeSnapshot()

	dc := gg.NewContext(S, S)
	dc.SetRGBA(1, 0.9, 0, 1)
	dc.DrawString(snap.mode, 2, 12)

	y := 26.0
	for i, n := range snap.notices {
		if snap.errs[i] {
			dc.Push()
			dc.Translate(10, y-4)
			DrawWarning(dc)
			dc.Pop()
			dc.SetRGBA(1, 0.2, 0, 1)
		} else {
			dc.SetRGBA(1, 0.9, 0, 1)
		}
		dc.DrawString(n, 24, y)
		y += 12
	}

	dc.SetRGBA(1, 0.9, 0, 1)
	for _, l := range snap.lines {
		dc.DrawString(l, 2, y)
		y += 12
	}

	dc.Push()
	dc.Translate(94, 20)
	drawPowerBar(dc, snap.voltage)
	dc.Pop()

	return dc.Image()
}

// toRGB565 packs the image for the framebuffer, which is mounted rotated 90
// degrees.
func toRGB565(img image.Image) []byte {
	buf := make([]byte, S*S*2)
	for y := 0; y < S; y++ {
		for x := 0; x < S; x++ {
			r, g, b, _ := img.At(x, y).RGBA() // 16-bit pre-multiplied

			rb := byte(r >> (16 - 5))
			gb := byte(g >> (16 - 6)) // Green has 6 bits
			bb := byte(b >> (16 - 5))

			buf[(S-1-y)*2+x*S*2+1] = (rb << 3) | (gb >> 3)
			buf[(S-1-y)*2+x*S*2] = bb | (gb << 5)
		}
	}
	return buf
}

const (
	minCellVoltage = 3
	maxCellVoltage = 4.2
	cells          = 3
)

// batteryCharge maps a 12V lead-acid style pack reading onto 0..1.
func batteryCharge(voltage float64) float64 {
	cellVoltage := voltage / cells
	charge := (cellVoltage - minCellVoltage) / (maxCellVoltage - minCellVoltage)
	if charge < 0 {
		return 0
	} else if charge > 1 {
		return 1
	}
	return charge
}

func drawPowerBar(dc *gg.Context, voltage float64) {
	charge := batteryCharge(voltage)

	// Colour depends on charge level.
	if charge < 0.1 {
		dc.SetRGBA(1, 0.2, 0, 1)
	}
	dc.DrawRectangle(0, 70, 30, 10)
	for n := 2; n < 13; n++ {
		if charge >= (float64(n) / 13) {
			dc.DrawRectangle(2, 75-float64(n)*5, 26, 3)
		}
	}
	dc.Fill()
	dc.DrawString(fmt.Sprintf("%.1fv", voltage), -2, 93)
}

func DrawWarning(dc *gg.Context) {
	dc.SetRGB(1, 0.2, 0)
	dc.DrawRegularPolygon(3, 0, 0, 14, 0)
	dc.Fill()
	dc.SetRGBA(0, 0, 0, 0.9)
	dc.DrawString("!", -3, 3)
}
