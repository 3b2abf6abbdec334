package sensor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/XANi/gaia2mqtt/gaia"
)

// pmChannels maps the payload channel names to display metadata, shared
// between the static rolling descriptions and dynamic group discovery.
var pmChannels = []struct {
	key         string
	label       string
	deviceClass DeviceClass
	icon        string
}{
	{"pm25", "PM2.5", DeviceClassPM25, "mdi:blur"},
	{"pm1", "PM1.0", DeviceClassPM1, "mdi:blur-linear"},
	{"pm10", "PM10", DeviceClassPM10, "mdi:blur-radial"},
}

// RollingPMSensors describes the station-wide rolling particulate averages.
func RollingPMSensors() []Description {
	var out []Description
	for _, ch := range pmChannels {
		out = append(out,
			Description{
				Key:         "rolling_" + ch.key + "_latest",
				Name:        ch.label + " Rolling",
				Unit:        UnitMicrogramsPerCubicMeter,
				DeviceClass: ch.deviceClass,
				StateClass:  StateClassMeasurement,
				Icon:        ch.icon,
			},
			Description{
				Key:         "rolling_" + ch.key + "_mean",
				Name:        ch.label + " Rolling Mean",
				Unit:        UnitMicrogramsPerCubicMeter,
				DeviceClass: ch.deviceClass,
				StateClass:  StateClassMeasurement,
				Icon:        ch.icon,
			},
		)
	}
	return out
}

// pmsGroupNames are the physical particulate sensor slots a station can
// populate. Groups are discovered from the flattened keys, not probed.
var pmsGroupNames = []string{"pms1", "pms2", "pms3"}

var pmStatVariants = []struct {
	stat  string
	label string
}{
	{"latest", ""},
	{"mean", " Mean"},
	{"min", " Min"},
	{"max", " Max"},
	{"median", " Median"},
}

// DiscoverPMSGroups synthesizes descriptions for every particulate sensor
// group present in flat. Only keys that actually exist produce a
// description, and groups come out in sorted order so entity ordering is
// stable across restarts.
func DiscoverPMSGroups(flat gaia.FlatMap) []Description {
	found := map[string]bool{}
	for key := range flat {
		for _, group := range pmsGroupNames {
			if strings.HasPrefix(key, group+"_") {
				found[group] = true
			}
		}
	}
	groups := make([]string, 0, len(found))
	for group := range found {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	var out []Description
	for _, group := range groups {
		for _, ch := range pmChannels {
			for _, variant := range pmStatVariants {
				key := fmt.Sprintf("%s_%s_%s", group, ch.key, variant.stat)
				if _, ok := flat[key]; !ok {
					continue
				}
				out = append(out, Description{
					Key:         key,
					Name:        fmt.Sprintf("%s %s%s", strings.ToUpper(group), ch.label, variant.label),
					Unit:        UnitMicrogramsPerCubicMeter,
					DeviceClass: ch.deviceClass,
					StateClass:  StateClassMeasurement,
					Icon:        ch.icon,
				})
			}
		}
	}
	return out
}
