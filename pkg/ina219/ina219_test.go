package ina219

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

type fakePort struct {
	regs   map[byte][2]byte
	writes map[byte][]byte
	err    error
}

func (f *fakePort) ReadReg(reg byte, buf []byte) error {
	if f.err != nil {
		return f.err
	}
	v := f.regs[reg]
	copy(buf, v[:])
	return nil
}

func (f *fakePort) WriteReg(reg byte, buf []byte) error {
	if f.writes == nil {
		f.writes = map[byte][]byte{}
	}
	f.writes[reg] = append([]byte(nil), buf...)
	return f.err
}

func (f *fakePort) Close() error {
	return nil
}

func TestBusVoltage(t *testing.T) {
	// 12.5V: 3125 counts shifted past the flag bits.
	test.That(t, BusVoltage(3125<<3|0x2), test.ShouldAlmostEqual, 12.5)
}

func TestReadsThroughPort(t *testing.T) {
	raw := uint16(3000 << 3)
	p := &fakePort{regs: map[byte][2]byte{
		RegBusV: {byte(raw >> 8), byte(raw)},
	}}
	m := &INA219{dev: p}
	test.That(t, m.Configure(0.1, 3.2), test.ShouldBeNil)
	test.That(t, p.writes[RegCalibration], test.ShouldNotBeEmpty)

	v, err := m.ReadBusVoltage()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldAlmostEqual, 12.0)

	p.err = errors.New("bus gone")
	_, err = m.ReadBusVoltage()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigureRejectsZeroShunt(t *testing.T) {
	m := &INA219{dev: &fakePort{}}
	test.That(t, m.Configure(0, 1), test.ShouldNotBeNil)
}
