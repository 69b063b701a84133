package sound

import (
	"os"
	"path/filepath"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"
)

// Cue names, resolved to <dir>/<name>.wav.
const (
	Startup   = "startup"
	NoteReady = "noteready"
	Climb     = "climb"
)

func Path(dir, name string) string {
	return filepath.Join(dir, name+".wav")
}

// InitSound starts the player goroutine.  Send WAV paths on the returned
// channel; close it to stop the player.
func InitSound(log *zap.SugaredLogger) chan string {
	soundsToPlay := make(chan string)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("Sound player panicked", "panic", r)
			}
			for s := range soundsToPlay {
				log.Debugf("Unable to play %s", s)
			}
		}()
		sampleRate := beep.SampleRate(44100)
		err := speaker.Init(sampleRate, sampleRate.N(time.Second/5))
		if err != nil {
			log.Warnw("Failed to open speaker", "error", err)
			return
		}
		var s beep.StreamSeekCloser
		var ctrl *beep.Ctrl
		for soundToPlay := range soundsToPlay {
			if ctrl != nil {
				speaker.Lock()
				ctrl.Paused = true
				ctrl.Streamer = nil
				speaker.Unlock()
				ctrl = nil
			}
			if s != nil {
				_ = s.Close()
				s = nil
			}

			f, err := os.Open(soundToPlay)
			if err != nil {
				log.Warnw("Failed to open sound", "error", err)
				continue
			}
			s, _, err = wav.Decode(f)
			if err != nil {
				log.Warnw("Failed to decode sound", "path", soundToPlay, "error", err)
				_ = f.Close()
				continue
			}
			ctrl = &beep.Ctrl{Streamer: s}
			speaker.Play(ctrl)
		}
	}()
	return soundsToPlay
}
