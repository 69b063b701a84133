package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.viam.com/test"
)

func TestLevels(t *testing.T) {
	test.That(t, NewConfig(false).Level.Level(), test.ShouldEqual, zap.InfoLevel)
	test.That(t, NewConfig(true).Level.Level(), test.ShouldEqual, zap.DebugLevel)

	log, err := New("controller", true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, log.Desugar().Core().Enabled(zap.DebugLevel), test.ShouldBeTrue)
}
