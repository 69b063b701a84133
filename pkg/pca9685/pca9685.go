// Package pca9685 drives the 16 channel PWM board that carries the LED
// strip and blinkin outputs.
package pca9685

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/io/i2c"
)

const (
	DefaultAddr = 0x40

	RegMode1 = 0x00
	RegMode2 = 0x01

	// Each PWM output has two 16-bit (low byte first) registers.
	// First register is the on time, second is the off time.
	RegLEDBase = 0x06

	RegPreScale = 0xfe // Pre-scaler for PWM frequency.

	NumPorts = 16

	PWMPeriod = 20 * time.Millisecond

	// Blinkin style controllers read the output as a servo pulse.
	PulseMinDuration = 1000 * time.Microsecond
	PulseMaxDuration = 2000 * time.Microsecond

	PWMMax = 4095

	PulseMinPWM = float64(PWMMax * PulseMinDuration / PWMPeriod)
	PulseMaxPWM = float64(PWMMax * PulseMaxDuration / PWMPeriod)
)

type Interface interface {
	Configure() error
	// SetPulse maps value in [-1, 1] onto a 1-2ms pulse.
	SetPulse(port int, value float64) error
	// SetPWM sets a raw duty cycle in [0, 1].
	SetPWM(port int, value float64) error
	Close() error
}

var ErrBadPort = errors.New("PWM port out of range")

type PCA9685 struct {
	dev *i2c.Device
}

func New(deviceFile string) (Interface, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, DefaultAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "opening PCA9685 on %s", deviceFile)
	}
	return &PCA9685{
		dev: dev,
	}, nil
}

func (p *PCA9685) Configure() (err error) {
	defer func() {
		err = errors.Wrap(err, "configuring PCA9685")
	}()
	// Put device to sleep.
	err = p.dev.WriteReg(RegMode1, []byte{0x11})
	if err != nil {
		return
	}
	// Update pre-scaler for 50Hz.
	err = p.dev.WriteReg(RegPreScale, []byte{0x79})
	if err != nil {
		return
	}
	// Trigger a reset
	err = p.dev.WriteReg(RegMode1, []byte{0x01})
	if err != nil {
		return
	}
	// Required delay after reset.
	time.Sleep(1 * time.Millisecond)
	// Enable.
	err = p.dev.WriteReg(RegMode1, []byte{0x81})
	return
}

func (p *PCA9685) SetPulse(port int, value float64) error {
	off, err := PulseCounts(port, value)
	if err != nil {
		return err
	}
	return p.write(port, off)
}

func (p *PCA9685) SetPWM(port int, value float64) error {
	off, err := PWMCounts(port, value)
	if err != nil {
		return err
	}
	return p.write(port, off)
}

func (p *PCA9685) write(port int, off uint16) error {
	addr := RegLEDBase + port*4
	err := p.dev.WriteReg(byte(addr), []byte{0, 0, byte(off & 0xff), byte(off >> 8)})
	return errors.Wrapf(err, "writing PWM port %d", port)
}

func (p *PCA9685) Close() error {
	return p.dev.Close()
}

// PulseCounts returns the off-time register value for a pulse output.
func PulseCounts(port int, value float64) (uint16, error) {
	if port < 0 || port >= NumPorts {
		return 0, errors.Wrapf(ErrBadPort, "port %d", port)
	}
	value = clamp(value, -1, 1)
	frac := (value + 1) / 2
	return uint16(PulseMinPWM + frac*(PulseMaxPWM-PulseMinPWM)), nil
}

func PWMCounts(port int, value float64) (uint16, error) {
	if port < 0 || port >= NumPorts {
		return 0, errors.Wrapf(ErrBadPort, "port %d", port)
	}
	return uint16(PWMMax * clamp(value, 0, 1)), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	} else if v > hi {
		return hi
	}
	return v
}

// Dummy records the last value written to each port.
type Dummy struct {
	lock   sync.Mutex
	values map[int]float64
}

func NewDummy() *Dummy {
	return &Dummy{values: map[int]float64{}}
}

func (*Dummy) Configure() error {
	return nil
}

func (d *Dummy) SetPulse(port int, value float64) error {
	if _, err := PulseCounts(port, value); err != nil {
		return err
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.values[port] = clamp(value, -1, 1)
	return nil
}

func (d *Dummy) SetPWM(port int, value float64) error {
	if _, err := PWMCounts(port, value); err != nil {
		return err
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.values[port] = clamp(value, 0, 1)
	return nil
}

// Value returns the last value set on port and whether it was ever set.
func (d *Dummy) Value(port int) (float64, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	v, ok := d.values[port]
	return v, ok
}

func (*Dummy) Close() error {
	return nil
}
