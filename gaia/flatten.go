package gaia

// FlatMap is the single-level view of a station payload. Keys are composed
// from the payload's shape (e.g. pms1_pm25_mean, co2_latest, sys_vpwr),
// values are whatever JSON decoding produced, float64 for numbers.
type FlatMap map[string]any

// statFields are the recognized keys of a stats block. Anything else in a
// stats block is dropped.
var statFields = []string{"latest", "mean", "median", "min", "max", "stddev", "samples"}

// particleChannels are the per-size channels a particulate group can carry.
var particleChannels = []string{"pm25", "pm1", "pm10"}

// sysFields are the flat scalars of the sys group, passed through unchanged.
var sysFields = []string{"boot", "vpwr", "heap", "alive", "time"}

// Flatten reshapes a raw station payload into a FlatMap. It is pure and
// deterministic; a branch that is not shaped as expected is skipped rather
// than failing the whole transform, so the result may be empty but is never
// nil. Unknown top-level groups are ignored to stay compatible with newer
// firmware.
func Flatten(data map[string]any) FlatMap {
	flat := FlatMap{}

	if pms, ok := data["pms"].(map[string]any); ok {
		// named particulate sensor groups (pms1, pms2, ...)
		for group, groupData := range pms {
			if group == "historic" || group == "rolling" {
				continue
			}
			gd, ok := groupData.(map[string]any)
			if !ok {
				continue
			}
			flattenChannels(flat, gd, group)
		}
		if rolling, ok := pms["rolling"].(map[string]any); ok {
			flattenChannels(flat, rolling, "rolling")
		}
	}

	if co2, ok := data["co2"].(map[string]any); ok {
		if rolling, ok := co2["rolling"].(map[string]any); ok {
			flattenStats(flat, rolling, "co2")
		}
	}

	if met, ok := data["met"].(map[string]any); ok {
		for _, name := range []string{"temperature", "humidity"} {
			switch v := met[name].(type) {
			case map[string]any:
				flattenStats(flat, v, name)
			case float64:
				// some firmware returns a bare reading here
				flat[name+"_latest"] = v
			}
		}
	}

	if sys, ok := data["sys"].(map[string]any); ok {
		for _, field := range sysFields {
			if v, ok := sys[field]; ok {
				flat["sys_"+field] = v
			}
		}
	}

	return flat
}

// flattenChannels emits <prefix>_<channel>_<stat> for every particle channel
// present as an object under group.
func flattenChannels(flat FlatMap, group map[string]any, prefix string) {
	for _, channel := range particleChannels {
		if stats, ok := group[channel].(map[string]any); ok {
			flattenStats(flat, stats, prefix+"_"+channel)
		}
	}
}

// flattenStats emits <prefix>_<stat> for every recognized stat field present.
func flattenStats(flat FlatMap, stats map[string]any, prefix string) {
	for _, field := range statFields {
		if v, ok := stats[field]; ok {
			flat[prefix+"_"+field] = v
		}
	}
}
