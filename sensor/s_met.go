package sensor

// MetSensors describes the meteorological readings.
func MetSensors() []Description {
	return []Description{
		{
			Key:         "temperature_latest",
			Name:        "Temperature",
			Unit:        UnitCelsius,
			DeviceClass: DeviceClassTemperature,
			StateClass:  StateClassMeasurement,
			Icon:        "mdi:thermometer",
		},
		{
			Key:         "humidity_latest",
			Name:        "Humidity",
			Unit:        UnitPercent,
			DeviceClass: DeviceClassHumidity,
			StateClass:  StateClassMeasurement,
			Icon:        "mdi:water-percent",
		},
	}
}
