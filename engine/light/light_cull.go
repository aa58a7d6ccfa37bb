package light

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
)

// CullLights returns the enabled lights that can affect something inside f.
// Directional lights always pass; point and spot lights pass when their range sphere
// intersects the frustum. Light world matrices must be current. Order is preserved.
//
// Parameters:
//   - lights: candidate lights
//   - f: the view frustum
//
// Returns:
//   - []Light: the lights that survive culling (never nil)
func CullLights(lights []Light, f *common.Frustum) []Light {
	visible := make([]Light, 0, len(lights))
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		s, bounded := l.RangeSphere()
		if bounded && !f.IntersectsSphereVolume(s) {
			continue
		}
		visible = append(visible, l)
	}
	return visible
}
