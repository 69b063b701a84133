package main

import (
	"testing"

	"go.viam.com/test"

	"github.com/team5607/go-controller/pkg/robotconfig"
)

func TestResolveMotor(t *testing.T) {
	cfg := robotconfig.Default()

	id, err := resolveMotor(cfg, "climb")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id, test.ShouldEqual, 14)

	id, err = resolveMotor(cfg, "9")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id, test.ShouldEqual, 9)

	_, err = resolveMotor(cfg, "flywheel")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "climb")
}
