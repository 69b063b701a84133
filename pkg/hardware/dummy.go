package hardware

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Dummy logs every call and remembers the last value written, so tests and
// the --dummy controller run without a robot attached.
type Dummy struct {
	log *zap.SugaredLogger

	lock    sync.Mutex
	motors  map[int]*DummyMotor
	inputs  map[int]bool
	outputs map[int]bool
	pwm     map[int]float64
	sounds  []string
	battery float64
}

func NewDummy(log *zap.SugaredLogger) *Dummy {
	return &Dummy{
		log:     log,
		motors:  map[int]*DummyMotor{},
		inputs:  map[int]bool{},
		outputs: map[int]bool{},
		pwm:     map[int]float64{},
		battery: 12.6,
	}
}

var _ Interface = (*Dummy)(nil)

func (d *Dummy) Start(ctx context.Context) {
	d.log.Info("DHW: Start")
}

type DummyMotor struct {
	log   *zap.SugaredLogger
	canID int

	lock  sync.Mutex
	speed float64
	sets  int
}

func (m *DummyMotor) Set(speed float64) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if speed != m.speed {
		m.log.Debugf("DHW: motor %d speed=%v", m.canID, speed)
	}
	m.speed = speed
	m.sets++
	return nil
}

func (m *DummyMotor) StopMotor() error {
	return m.Set(0)
}

func (m *DummyMotor) Speed() float64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.speed
}

// Sets counts calls to Set and StopMotor.
func (m *DummyMotor) Sets() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.sets
}

func (d *Dummy) Motor(canID int) (Motor, error) {
	return d.DummyMotor(canID), nil
}

func (d *Dummy) DummyMotor(canID int) *DummyMotor {
	d.lock.Lock()
	defer d.lock.Unlock()
	m, ok := d.motors[canID]
	if !ok {
		d.log.Infof("DHW: Motor canID=%v", canID)
		m = &DummyMotor{log: d.log, canID: canID}
		d.motors[canID] = m
	}
	return m
}

type dummyInput struct {
	d    *Dummy
	port int
}

func (i dummyInput) Get() bool {
	i.d.lock.Lock()
	defer i.d.lock.Unlock()
	v, ok := i.d.inputs[i.port]
	// Unconnected inputs float high.
	return v || !ok
}

func (d *Dummy) DigitalInput(port int) (DigitalInput, error) {
	d.log.Infof("DHW: DigitalInput port=%v", port)
	return dummyInput{d: d, port: port}, nil
}

// SetInput drives what DigitalInput(port) reads.
func (d *Dummy) SetInput(port int, v bool) {
	d.lock.Lock()
	d.inputs[port] = v
	d.lock.Unlock()
}

type dummyOutput struct {
	d    *Dummy
	port int
}

func (o dummyOutput) Set(on bool) {
	o.d.lock.Lock()
	defer o.d.lock.Unlock()
	if o.d.outputs[o.port] != on {
		o.d.log.Debugf("DHW: DIO port=%v on=%v", o.port, on)
	}
	o.d.outputs[o.port] = on
}

func (d *Dummy) DigitalOutput(port int) (DigitalOutput, error) {
	d.log.Infof("DHW: DigitalOutput port=%v", port)
	return dummyOutput{d: d, port: port}, nil
}

func (d *Dummy) Output(port int) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.outputs[port]
}

func (d *Dummy) SetPWM(port int, value float64) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if old, ok := d.pwm[port]; !ok || old != value {
		d.log.Debugf("DHW: SetPWM port=%v value=%v", port, value)
	}
	d.pwm[port] = value
}

func (d *Dummy) PWM(port int) float64 {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.pwm[port]
}

func (d *Dummy) BatteryVoltage() float64 {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.battery
}

func (d *Dummy) PlaySound(name string) {
	d.log.Infof("DHW: PlaySound name=%v", name)
	d.lock.Lock()
	d.sounds = append(d.sounds, name)
	d.lock.Unlock()
}

func (d *Dummy) Sounds() []string {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]string(nil), d.sounds...)
}

func (d *Dummy) Shutdown() {
	d.log.Info("DHW: Shutdown")
	d.lock.Lock()
	motors := make([]*DummyMotor, 0, len(d.motors))
	for _, m := range d.motors {
		motors = append(motors, m)
	}
	d.lock.Unlock()
	for _, m := range motors {
		_ = m.StopMotor()
	}
}
