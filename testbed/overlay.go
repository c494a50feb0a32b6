package testbed

import (
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/core"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/renderer/metadata"
	"github.com/jbryan2ufl/go-graphics-sandbox/engine/scene"
)

// Frames between overlay dumps; roughly once a second at 60 fps.
const overlayInterval = 60

// debugOverlay logs smoothed frame statistics and the active camera
// state. It runs on the submitter thread between command replay and
// frame submission.
type debugOverlay struct {
	world *scene.World
}

func newDebugOverlay(world *scene.World) *debugOverlay {
	return &debugOverlay{world: world}
}

func (o *debugOverlay) Draw(packet *metadata.RenderPacket) {
	if packet.FrameNumber%overlayInterval != 0 {
		return
	}

	fps, frameTimeMS := core.MetricsFrame()
	core.LogDebug("frame %d: %.1f fps, %.3f ms", packet.FrameNumber, fps, frameTimeMS)

	if camera := o.world.ActiveCamera(); camera != nil {
		core.LogDebug("camera state:\n%s", camera.DebugString())
	}
}
