package sound

import (
	"testing"

	"go.viam.com/test"
)

func TestPath(t *testing.T) {
	test.That(t, Path("/sounds", NoteReady), test.ShouldEqual, "/sounds/noteready.wav")
	test.That(t, Path("sounds/", Startup), test.ShouldEqual, "sounds/startup.wav")
}
