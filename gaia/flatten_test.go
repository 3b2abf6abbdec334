package gaia

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, payload string) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &data))
	return data
}

func TestFlattenPMSGroup(t *testing.T) {
	data := decode(t, `{"pms": {"pms1": {"pm25": {"latest": 12, "mean": 10}}}, "sys": {"boot": 3}}`)
	assert.Equal(t, FlatMap{
		"pms1_pm25_latest": float64(12),
		"pms1_pm25_mean":   float64(10),
		"sys_boot":         float64(3),
	}, Flatten(data))
}

func TestFlattenSkipsReservedGroups(t *testing.T) {
	data := decode(t, `{"pms": {
		"historic": {"pm25": {"latest": 1}},
		"rolling": {"pm25": {"latest": 5, "stddev": 0.4}},
		"pms2": {"pm10": {"min": 2}}
	}}`)
	flat := Flatten(data)
	assert.Equal(t, FlatMap{
		"rolling_pm25_latest": float64(5),
		"rolling_pm25_stddev": 0.4,
		"pms2_pm10_min":       float64(2),
	}, flat)
	assert.NotContains(t, flat, "historic_pm25_latest")
}

func TestFlattenCO2Rolling(t *testing.T) {
	data := decode(t, `{"co2": {"rolling": {"latest": 612, "mean": 598.5, "samples": 60, "vendor_extra": 1}}}`)
	assert.Equal(t, FlatMap{
		"co2_latest":  float64(612),
		"co2_mean":    598.5,
		"co2_samples": float64(60),
	}, Flatten(data))
}

func TestFlattenMetBareScalar(t *testing.T) {
	data := decode(t, `{"met": {"temperature": 21.5}}`)
	assert.Equal(t, FlatMap{"temperature_latest": 21.5}, Flatten(data))
}

func TestFlattenMetStatsBlock(t *testing.T) {
	data := decode(t, `{"met": {"humidity": {"latest": 44, "max": 51}, "temperature": {"mean": 20.1}}}`)
	assert.Equal(t, FlatMap{
		"humidity_latest":  float64(44),
		"humidity_max":     float64(51),
		"temperature_mean": 20.1,
	}, Flatten(data))
}

func TestFlattenSysPassthrough(t *testing.T) {
	data := decode(t, `{"sys": {"boot": 7, "vpwr": 4980, "heap": 21344, "alive": 86400, "time": "2026-08-26 10:00:00", "rssi": -61}}`)
	flat := Flatten(data)
	assert.Equal(t, "2026-08-26 10:00:00", flat["sys_time"])
	assert.Equal(t, float64(4980), flat["sys_vpwr"])
	// unrecognized sys fields are dropped
	assert.NotContains(t, flat, "sys_rssi")
}

func TestFlattenMissingGroups(t *testing.T) {
	for _, payload := range []string{
		`{}`,
		`{"pms": {}}`,
		`{"co2": {}}`,
		`{"unknown_group": {"a": 1}, "co2": 42}`,
	} {
		flat := Flatten(decode(t, payload))
		require.NotNil(t, flat)
		assert.Empty(t, flat, "payload: %s", payload)
	}
}

func TestFlattenMalformedBranchesDoNotAbort(t *testing.T) {
	data := decode(t, `{
		"pms": {"pms1": "broken", "pms2": {"pm25": 3, "pm1": {"latest": 8}}},
		"met": {"temperature": "warm"},
		"sys": {"heap": 1024}
	}`)
	assert.Equal(t, FlatMap{
		"pms2_pm1_latest": float64(8),
		"sys_heap":        float64(1024),
	}, Flatten(data))
}

func TestFlattenDeterministic(t *testing.T) {
	data := decode(t, `{"pms": {"pms1": {"pm25": {"latest": 12}}, "rolling": {"pm10": {"mean": 4}}}, "co2": {"rolling": {"latest": 600}}}`)
	first := Flatten(data)
	for range 10 {
		assert.Equal(t, first, Flatten(data))
	}
}
