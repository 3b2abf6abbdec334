package sensor

import (
	"github.com/XANi/gaia2mqtt/gaia"
)

type DeviceClass string

var (
	DeviceClassPM25        DeviceClass = "pm25"
	DeviceClassPM1         DeviceClass = "pm1"
	DeviceClassPM10        DeviceClass = "pm10"
	DeviceClassCO2         DeviceClass = "carbon_dioxide"
	DeviceClassTemperature DeviceClass = "temperature"
	DeviceClassHumidity    DeviceClass = "humidity"
	DeviceClassVoltage     DeviceClass = "voltage"
	DeviceClassDataSize    DeviceClass = "data_size"
	DeviceClassDuration    DeviceClass = "duration"
)

type StateClass string

var (
	StateClassMeasurement     StateClass = "measurement"
	StateClassTotalIncreasing StateClass = "total_increasing"
)

// https://developers.home-assistant.io/docs/core/entity/#registry-properties
const (
	UnitMicrogramsPerCubicMeter = "µg/m³"
	UnitPartsPerMillion         = "ppm"
	UnitCelsius                 = "°C"
	UnitPercent                 = "%"
	UnitMillivolt               = "mV"
	UnitBytes                   = "B"
	UnitSeconds                 = "s"
)

// Description is the full presentation of one sensor: where its value comes
// from in the flat map and how Home Assistant should display it.
type Description struct {
	Key         string
	Name        string
	Unit        string
	DeviceClass DeviceClass
	StateClass  StateClass
	Icon        string
	// Diagnostic sensors land in HA's diagnostic entity category and start
	// out disabled in the entity registry.
	Diagnostic bool
	ValueFn    func(gaia.FlatMap) any
}

// Value reads this sensor's current value out of the latest snapshot.
// Returns nil when the key is missing from this refresh, which marks the
// entity unavailable without removing it.
func (d *Description) Value(flat gaia.FlatMap) any {
	if flat == nil {
		return nil
	}
	if d.ValueFn != nil {
		return d.ValueFn(flat)
	}
	if v, ok := flat[d.Key]; ok {
		return v
	}
	return nil
}
