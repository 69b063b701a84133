// Package canbus sends raw frames on a Linux SocketCAN interface.
package canbus

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	MaxDataLen = 8

	maxStandardID = 0x7ff
	maxExtendedID = 0x1fffffff

	// sizeof(struct can_frame)
	frameSize = 16
)

var ErrClosed = errors.New("CAN bus closed")

type Frame struct {
	ID       uint32
	Extended bool
	Data     []byte
}

func (f Frame) String() string {
	return fmt.Sprintf("%08x#% x", f.ID, f.Data)
}

// MarshalBinary encodes f as a struct can_frame in host (little-endian) byte
// order.
func (f Frame) MarshalBinary() ([]byte, error) {
	if len(f.Data) > MaxDataLen {
		return nil, errors.Errorf("CAN frame data too long: %d bytes", len(f.Data))
	}
	id := f.ID
	if f.Extended {
		if id > maxExtendedID {
			return nil, errors.Errorf("extended CAN ID out of range: %#x", id)
		}
		id |= unix.CAN_EFF_FLAG
	} else if id > maxStandardID {
		return nil, errors.Errorf("standard CAN ID out of range: %#x", id)
	}

	buf := make([]byte, frameSize)
	binary.LittleEndian.PutUint32(buf[0:4], id)
	buf[4] = byte(len(f.Data))
	copy(buf[8:], f.Data)
	return buf, nil
}

type Sender interface {
	Send(f Frame) error
}

type Bus struct {
	lock   sync.Mutex
	fd     int
	closed bool
}

var _ Sender = (*Bus)(nil)

func Open(iface string) (*Bus, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, errors.Wrapf(err, "looking up CAN interface %s", iface)
	}
	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, errors.Wrap(err, "opening CAN socket")
	}
	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: ifi.Index}); err != nil {
		_ = unix.Close(fd)
		return nil, errors.Wrapf(err, "binding CAN socket to %s", iface)
	}
	return &Bus{fd: fd}, nil
}

func (b *Bus) Send(f Frame) error {
	buf, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return ErrClosed
	}
	n, err := unix.Write(b.fd, buf)
	if err != nil {
		return errors.Wrapf(err, "sending %v", f)
	}
	if n != len(buf) {
		return errors.Errorf("short CAN write: %d of %d bytes", n, len(buf))
	}
	return nil
}

func (b *Bus) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return unix.Close(b.fd)
}

// Dummy records frames instead of sending them.
type Dummy struct {
	lock   sync.Mutex
	frames []Frame
}

var _ Sender = (*Dummy)(nil)

func NewDummy() *Dummy {
	return &Dummy{}
}

func (d *Dummy) Send(f Frame) error {
	if _, err := f.MarshalBinary(); err != nil {
		return err
	}
	d.lock.Lock()
	d.frames = append(d.frames, f)
	d.lock.Unlock()
	return nil
}

func (d *Dummy) Frames() []Frame {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]Frame(nil), d.frames...)
}
