package mqtt

import (
	"fmt"

	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
)

type HADiscoveryConfig struct {
	Device            HADiscoveryDevice `json:"device"`
	StateTopic        string            `json:"state_topic,omitempty"`
	CommandTopic      string            `json:"command_topic,omitempty"`
	StateClass        string            `json:"state_class,omitempty"`
	DeviceClass       string            `json:"device_class,omitempty"`
	UnitOfMeasurement string            `json:"unit_of_measurement,omitempty"`
	AvTopic           string            `json:"availability_topic,omitempty"`
	EntityCategory    string            `json:"entity_category,omitempty"`
	Name              string            `json:"name"`
	UniqueId          string            `json:"unique_id"`
	Platform          string            `json:"platform"`
	EnabledByDefault  *bool             `json:"enabled_by_default,omitempty"`
	PayloadOn         string            `json:"payload_on,omitempty"`
	PayloadOff        string            `json:"payload_off,omitempty"`
	Icon              string            `json:"icon,omitempty"`
	Options           []string          `json:"options,omitempty"`

	// climate platform
	CurrentTemperatureTopic string   `json:"current_temperature_topic,omitempty"`
	TemperatureStateTopic   string   `json:"temperature_state_topic,omitempty"`
	TemperatureCommandTopic string   `json:"temperature_command_topic,omitempty"`
	ModeStateTopic          string   `json:"mode_state_topic,omitempty"`
	ModeCommandTopic        string   `json:"mode_command_topic,omitempty"`
	Modes                   []string `json:"modes,omitempty"`
	MinTemp                 float64  `json:"min_temp,omitempty"`
	MaxTemp                 float64  `json:"max_temp,omitempty"`
	TempStep                float64  `json:"temp_step,omitempty"`
	TemperatureUnit         string   `json:"temperature_unit,omitempty"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

func HADiscoveryClimateTopic(prefix string, climate domain.GenericClimate) string {
	return fmt.Sprintf("%s/climate/%s/%s/config", prefix, climate.Device.Id, climate.UniqueId)
}

func HADiscoverySensorTopic(prefix string, sensor domain.GenericSensor) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", prefix, sensor.SensorType, sensor.Device.Id, sensor.UniqueId)
}

func HADiscoverySwitchTopic(prefix string, sw domain.GenericSwitch) string {
	return fmt.Sprintf("%s/switch/%s/%s/config", prefix, sw.Device.Id, sw.UniqueId)
}

func HADiscoverySelectTopic(prefix string, sel domain.GenericSelect) string {
	return fmt.Sprintf("%s/select/%s/%s/config", prefix, sel.Device.Id, sel.UniqueId)
}

func GenericClimateToHADiscoveryMessage(client *MQTTClient, climate domain.GenericClimate) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:                  device(climate.Device),
		AvTopic:                 client.BridgeStateTopic(),
		Name:                    climate.Name,
		UniqueId:                climate.UniqueId,
		Icon:                    climate.Icon,
		Platform:                "mqtt",
		CurrentTemperatureTopic: client.ClimateCurrentTempStateTopic(climate.DeviceId),
		TemperatureStateTopic:   client.ClimateTargetTempStateTopic(climate.DeviceId),
		TemperatureCommandTopic: client.ClimateTargetTempCommandTopic(climate.DeviceId),
		ModeStateTopic:          client.ClimateModeStateTopic(climate.DeviceId),
		ModeCommandTopic:        client.ClimateModeCommandTopic(climate.DeviceId),
		Modes:                   climate.Modes,
		MinTemp:                 climate.MinTemp,
		MaxTemp:                 climate.MaxTemp,
		TempStep:                climate.TempStep,
		TemperatureUnit:         "C",
	}
}

func GenericSensorToHADiscoveryMessage(client *MQTTClient, sensor domain.GenericSensor) HADiscoveryConfig {
	var topic string
	switch sensor.SensorType {
	case "binary_sensor":
		topic = client.BinarySensorStateTopic(sensor.DeviceId, sensor.Attr)
	default:
		topic = client.SensorStateTopic(sensor.DeviceId, sensor.Attr)
	}
	disConfig := HADiscoveryConfig{
		Device:            device(sensor.Device),
		StateTopic:        topic,
		StateClass:        sensor.StateClass,
		DeviceClass:       sensor.DeviceClass,
		UnitOfMeasurement: sensor.UnitOfMeasurement,
		AvTopic:           client.BridgeStateTopic(),
		EntityCategory:    sensor.EntityCategory,
		Name:              sensor.Name,
		UniqueId:          sensor.UniqueId,
		Icon:              sensor.Icon,
		EnabledByDefault:  sensor.EnabledByDefault,
		Platform:          "mqtt",
	}
	if sensor.SensorType == "binary_sensor" {
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
	}
	return disConfig
}

func GenericSwitchToHADiscoveryMessage(client *MQTTClient, sw domain.GenericSwitch) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:       device(sw.Device),
		StateTopic:   client.SwitchStateTopic(sw.DeviceId, sw.Attr),
		CommandTopic: client.SwitchCommandTopic(sw.DeviceId, sw.Attr),
		AvTopic:      client.BridgeStateTopic(),
		Name:         sw.Name,
		UniqueId:     sw.UniqueId,
		Icon:         sw.Icon,
		Platform:     "mqtt",
		PayloadOn:    MQTT_PAYLOAD_ON,
		PayloadOff:   MQTT_PAYLOAD_OFF,
	}
}

func GenericSelectToHADiscoveryMessage(client *MQTTClient, sel domain.GenericSelect) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:       device(sel.Device),
		StateTopic:   client.SelectStateTopic(sel.DeviceId, sel.Attr),
		CommandTopic: client.SelectCommandTopic(sel.DeviceId, sel.Attr),
		AvTopic:      client.BridgeStateTopic(),
		Name:         sel.Name,
		UniqueId:     sel.UniqueId,
		Icon:         sel.Icon,
		Platform:     "mqtt",
		Options:      sel.Options,
	}
}

func device(d domain.Device) HADiscoveryDevice {
	return HADiscoveryDevice{
		Id:           []string{d.Id},
		Manufacturer: d.Manufacturer,
		Version:      d.Version,
		Model:        d.Model,
		Name:         d.Name,
		ViaDevice:    d.ViaDevice,
	}
}
