package hass

import (
	"github.com/XANi/gaia2mqtt/sensor"
)

// Discovery is a Home Assistant MQTT discovery payload for one sensor
// entity, using the documented short field names.
// https://www.home-assistant.io/integrations/mqtt/#discovery-payload
type Discovery struct {
	DeviceClass       sensor.DeviceClass `json:"dev_cla,omitempty"`
	Unit              string             `json:"unit_of_meas,omitempty"`
	StateClass        sensor.StateClass  `json:"stat_cla,omitempty"`
	Name              string             `json:"name"`
	StateTopic        string             `json:"stat_t"`
	AvailabilityTopic string             `json:"avty_t"`
	UniqueID          string             `json:"uniq_id"`
	Icon              string             `json:"ic,omitempty"`
	EntityCategory    string             `json:"ent_cat,omitempty"`
	EnabledByDefault  *bool              `json:"en,omitempty"`
	Device            *Device            `json:"dev"`
}

// Device is the device record shared by all entities of one station.
type Device struct {
	ID              string `json:"ids"`
	Name            string `json:"name"`
	Manufacturer    string `json:"mf"`
	Model           string `json:"mdl"`
	SoftwareVersion string `json:"sw,omitempty"`
}

var enabledFalse = false

// discoveryFor renders the discovery payload for one sensor description.
func (p *Publisher) discoveryFor(desc sensor.Description) Discovery {
	d := Discovery{
		DeviceClass:       desc.DeviceClass,
		Unit:              desc.Unit,
		StateClass:        desc.StateClass,
		Name:              desc.Name,
		StateTopic:        p.stateTopic(desc.Key),
		AvailabilityTopic: p.availabilityTopic(),
		UniqueID:          p.deviceID + "_" + desc.Key,
		Icon:              desc.Icon,
		Device:            &p.device,
	}
	if desc.Diagnostic {
		d.EntityCategory = "diagnostic"
		d.EnabledByDefault = &enabledFalse
	}
	return d
}
