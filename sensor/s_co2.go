package sensor

// CO2Sensors describes the rolling CO₂ statistics.
func CO2Sensors() []Description {
	stats := []struct {
		stat  string
		label string
	}{
		{"latest", "CO₂"},
		{"mean", "CO₂ Mean"},
		{"min", "CO₂ Min"},
		{"max", "CO₂ Max"},
		{"median", "CO₂ Median"},
	}
	var out []Description
	for _, s := range stats {
		out = append(out, Description{
			Key:         "co2_" + s.stat,
			Name:        s.label,
			Unit:        UnitPartsPerMillion,
			DeviceClass: DeviceClassCO2,
			StateClass:  StateClassMeasurement,
			Icon:        "mdi:molecule-co2",
		})
	}
	return out
}
