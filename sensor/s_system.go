package sensor

// SystemSensors describes the station's own diagnostics. All of them are
// hidden by default so a fresh install only shows air quality data.
func SystemSensors() []Description {
	return []Description{
		{
			Key:         "sys_vpwr",
			Name:        "Supply Voltage",
			Unit:        UnitMillivolt,
			DeviceClass: DeviceClassVoltage,
			StateClass:  StateClassMeasurement,
			Icon:        "mdi:flash",
			Diagnostic:  true,
		},
		{
			Key:         "sys_heap",
			Name:        "Free Heap Memory",
			Unit:        UnitBytes,
			DeviceClass: DeviceClassDataSize,
			StateClass:  StateClassMeasurement,
			Icon:        "mdi:memory",
			Diagnostic:  true,
		},
		{
			Key:         "sys_alive",
			Name:        "Uptime",
			Unit:        UnitSeconds,
			DeviceClass: DeviceClassDuration,
			StateClass:  StateClassTotalIncreasing,
			Icon:        "mdi:clock-outline",
			Diagnostic:  true,
		},
		{
			Key:        "sys_boot",
			Name:       "Boot Count",
			StateClass: StateClassTotalIncreasing,
			Icon:       "mdi:restart",
			Diagnostic: true,
		},
	}
}
