package sensor

import (
	"github.com/XANi/gaia2mqtt/gaia"
)

// StaticCatalog returns every fixed sensor description. Which of them go
// live depends on the first flattened payload, see Discover.
func StaticCatalog() []Description {
	var out []Description
	out = append(out, RollingPMSensors()...)
	out = append(out, CO2Sensors()...)
	out = append(out, MetSensors()...)
	out = append(out, SystemSensors()...)
	return out
}

// Discover builds the live sensor set from the first successful snapshot.
// Static descriptions are kept only when their key is present; particulate
// groups are synthesized from the keys that exist. The result is fixed for
// the lifetime of the process — a key that disappears in a later poll makes
// that sensor unavailable, and a group that appears later is picked up on
// the next restart.
func Discover(flat gaia.FlatMap) []Description {
	var out []Description
	for _, desc := range StaticCatalog() {
		if _, ok := flat[desc.Key]; ok {
			out = append(out, desc)
		}
	}
	out = append(out, DiscoverPMSGroups(flat)...)
	return out
}
