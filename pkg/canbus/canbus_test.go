package canbus

import (
	"testing"

	"go.viam.com/test"
)

func TestMarshalExtended(t *testing.T) {
	f := Frame{ID: 0x0205008e, Extended: true, Data: []byte{1, 2, 3}}
	buf, err := f.MarshalBinary()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, buf, test.ShouldResemble, []byte{
		0x8e, 0x00, 0x05, 0x82, // ID with the extended flag, little endian
		3, 0, 0, 0,
		1, 2, 3, 0, 0, 0, 0, 0,
	})
}

func TestMarshalStandard(t *testing.T) {
	buf, err := Frame{ID: 0x123}.MarshalBinary()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, buf[:5], test.ShouldResemble, []byte{0x23, 0x01, 0, 0, 0})
}

func TestMarshalRejectsBadFrames(t *testing.T) {
	_, err := Frame{ID: 0x800}.MarshalBinary()
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Frame{ID: 0x20000000, Extended: true}.MarshalBinary()
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Frame{ID: 1, Data: make([]byte, 9)}.MarshalBinary()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDummyRecords(t *testing.T) {
	d := NewDummy()
	test.That(t, d.Send(Frame{ID: 1, Data: []byte{9}}), test.ShouldBeNil)
	test.That(t, d.Send(Frame{ID: 0x800}), test.ShouldNotBeNil)
	test.That(t, d.Frames(), test.ShouldResemble, []Frame{{ID: 1, Data: []byte{9}}})
}
