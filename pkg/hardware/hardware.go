package hardware

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/team5607/go-controller/pkg/canbus"
	"github.com/team5607/go-controller/pkg/pca9685"
	"github.com/team5607/go-controller/pkg/robotconfig"
	"github.com/team5607/go-controller/pkg/screen"
	"github.com/team5607/go-controller/pkg/sound"
	"github.com/team5607/go-controller/pkg/sparkmax"
)

type Hardware struct {
	log *zap.SugaredLogger
	cfg robotconfig.HardwareConfig

	bus canbus.Sender
	pwm pca9685.Interface

	soundsToPlay chan string

	lock    sync.Mutex
	motors  map[int]*sparkmax.Controller
	battery float64

	loopsDone sync.WaitGroup
}

var _ Interface = (*Hardware)(nil)

// New opens the CAN bus and GPIO.  A missing PWM board only loses the LEDs, so
// it falls back to a dummy rather than failing.
func New(log *zap.SugaredLogger, cfg robotconfig.HardwareConfig) (*Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "initialising GPIO")
	}
	bus, err := canbus.Open(cfg.CANInterface)
	if err != nil {
		return nil, err
	}

	var pwm pca9685.Interface
	pwm, err = pca9685.New(cfg.PWMDevice)
	if err == nil {
		err = pwm.Configure()
	}
	if err != nil {
		log.Warnw("PWM board unavailable, LEDs disabled", "error", err)
		pwm = pca9685.NewDummy()
	}

	return newWithBus(log, cfg, bus, pwm, sound.InitSound(log.Named("sound"))), nil
}

func newWithBus(
	log *zap.SugaredLogger,
	cfg robotconfig.HardwareConfig,
	bus canbus.Sender,
	pwm pca9685.Interface,
	soundsToPlay chan string,
) *Hardware {
	return &Hardware{
		log:          log,
		cfg:          cfg,
		bus:          bus,
		pwm:          pwm,
		soundsToPlay: soundsToPlay,
		motors:       map[int]*sparkmax.Controller{},
	}
}

func (h *Hardware) Start(ctx context.Context) {
	go screen.LoopUpdatingScreen(ctx, h.log.Named("screen"), h.cfg.ScreenDevice)
	h.loopsDone.Add(2)
	go h.loopSendingHeartbeat(ctx)
	go h.loopReadingBattery(ctx)
}

func (h *Hardware) Motor(canID int) (Motor, error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if m, ok := h.motors[canID]; ok {
		return m, nil
	}
	m, err := sparkmax.New(h.bus, canID)
	if err != nil {
		return nil, err
	}
	h.motors[canID] = m
	h.log.Infow("Opened motor", "canID", canID)
	return m, nil
}

func (h *Hardware) motorIDs() []int {
	h.lock.Lock()
	defer h.lock.Unlock()
	ids := make([]int, 0, len(h.motors))
	for id := range h.motors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (h *Hardware) pin(port int) (gpio.PinIO, error) {
	name, ok := h.cfg.DIOPins[port]
	if !ok {
		return nil, errors.Errorf("no GPIO pin configured for DIO port %d", port)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("unknown GPIO pin %s for DIO port %d", name, port)
	}
	return p, nil
}

type gpioInput struct {
	pin gpio.PinIO
}

// Get follows roboRIO DIO semantics: inputs are pulled up, so an open circuit
// reads true.
func (i gpioInput) Get() bool {
	return i.pin.Read() == gpio.High
}

func (h *Hardware) DigitalInput(port int) (DigitalInput, error) {
	p, err := h.pin(port)
	if err != nil {
		return nil, err
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, errors.Wrapf(err, "configuring DIO port %d as input", port)
	}
	return gpioInput{pin: p}, nil
}

type gpioOutput struct {
	log  *zap.SugaredLogger
	port int
	pin  gpio.PinIO
}

func (o gpioOutput) Set(on bool) {
	if err := o.pin.Out(gpio.Level(on)); err != nil {
		o.log.Errorw("Failed to set DIO output", "port", o.port, "error", err)
	}
}

func (h *Hardware) DigitalOutput(port int) (DigitalOutput, error) {
	p, err := h.pin(port)
	if err != nil {
		return nil, err
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, errors.Wrapf(err, "configuring DIO port %d as output", port)
	}
	return gpioOutput{log: h.log, port: port, pin: p}, nil
}

func (h *Hardware) SetPWM(port int, value float64) {
	if err := h.pwm.SetPulse(port, value); err != nil {
		h.log.Errorw("Failed to set PWM", "port", port, "error", err)
	}
}

func (h *Hardware) BatteryVoltage() float64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.battery
}

func (h *Hardware) setBatteryVoltage(v float64) {
	h.lock.Lock()
	h.battery = v
	h.lock.Unlock()
	screen.SetBatteryVoltage(v)
}

func (h *Hardware) PlaySound(name string) {
	path := sound.Path(h.cfg.SoundDir, name)
	defer func() {
		recover() // Don't die if the channel is already closed.
	}()
	select {
	case h.soundsToPlay <- path:
		return
	case <-time.After(10 * time.Millisecond):
		h.log.Warnw("Timed out trying to play sound", "path", path)
	}
}

// Shutdown must be called after the context passed to Start is cancelled.
func (h *Hardware) Shutdown() {
	h.loopsDone.Wait()
	for _, id := range h.motorIDs() {
		m, _ := h.Motor(id)
		if err := m.StopMotor(); err != nil {
			h.log.Errorw("Failed to stop motor", "canID", id, "error", err)
		}
	}
	if err := h.pwm.Close(); err != nil {
		h.log.Warnw("Failed to close PWM board", "error", err)
	}
	if c, ok := h.bus.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			h.log.Warnw("Failed to close CAN bus", "error", err)
		}
	}
	close(h.soundsToPlay)
	h.log.Info("Hardware shut down")
}
