package sensor

import (
	"testing"

	"github.com/XANi/gaia2mqtt/gaia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(descs []Description) []string {
	out := make([]string, 0, len(descs))
	for _, d := range descs {
		out = append(out, d.Key)
	}
	return out
}

func TestDiscoverStaticKeyGated(t *testing.T) {
	flat := gaia.FlatMap{
		"co2_latest":         600.0,
		"temperature_latest": 21.5,
		"sys_vpwr":           4980.0,
	}
	descs := Discover(flat)
	assert.ElementsMatch(t, []string{"co2_latest", "temperature_latest", "sys_vpwr"}, keys(descs))
}

func TestDiscoverEmptySnapshot(t *testing.T) {
	assert.Empty(t, Discover(gaia.FlatMap{}))
}

func TestDiscoverSinglePMSGroup(t *testing.T) {
	flat := gaia.FlatMap{"pms2_pm10_min": 3.0}
	descs := Discover(flat)
	require.Len(t, descs, 1)
	assert.Equal(t, "pms2_pm10_min", descs[0].Key)
	assert.Equal(t, "PMS2 PM10 Min", descs[0].Name)
	assert.Equal(t, DeviceClassPM10, descs[0].DeviceClass)
}

func TestDiscoverPMSGroupsSorted(t *testing.T) {
	flat := gaia.FlatMap{
		"pms3_pm25_latest": 11.0,
		"pms1_pm25_latest": 12.0,
		"pms1_pm25_mean":   10.0,
	}
	descs := DiscoverPMSGroups(flat)
	assert.Equal(t, []string{"pms1_pm25_latest", "pms1_pm25_mean", "pms3_pm25_latest"}, keys(descs))
}

func TestDiscoverIgnoresUnknownPrefixes(t *testing.T) {
	flat := gaia.FlatMap{
		"pms9_pm25_latest":    1.0,
		"rolling_pm25_latest": 2.0,
	}
	descs := DiscoverPMSGroups(flat)
	assert.Empty(t, descs)
}

func TestValueMissingKey(t *testing.T) {
	desc := Description{Key: "co2_latest"}
	assert.Equal(t, 600.0, desc.Value(gaia.FlatMap{"co2_latest": 600.0}))
	assert.Nil(t, desc.Value(gaia.FlatMap{}))
	assert.Nil(t, desc.Value(nil))
}

func TestSystemSensorsDiagnostic(t *testing.T) {
	for _, desc := range SystemSensors() {
		assert.True(t, desc.Diagnostic, "%s should be diagnostic", desc.Key)
	}
}
