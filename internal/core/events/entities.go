package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/carlmjohnson/versioninfo"
)

const (
	ATTR_TEMPERATURE = "temperature"
	ATTR_SETPOINT    = "setpoint"
	ATTR_MODE        = "mode"
	ATTR_BATTERY     = "battery"
	ATTR_WINDOW_OPEN = "window_open"
	ATTR_CHILD_LOCK  = "child_lock"
	ATTR_ONLINE      = "online"

	ATTR_PRESET              = "preset"
	ATTR_TARGET_TEMPERATURE  = "target_temperature"
	ATTR_CURRENT_TEMPERATURE = "current_temperature"

	SENSOR_ID_BRIDGE_STATE = "bridge"

	MODE_MANUAL       = "manual"
	MODE_AT_HOME      = "at_home"
	MODE_LEAVING_HOME = "leaving_home"
	MODE_PAUSE        = "pause"
	MODE_HOLIDAY      = "holiday"

	HVAC_MODE_HEAT = "heat"
	HVAC_MODE_AUTO = "auto"
	HVAC_MODE_OFF  = "off"

	// setpoint write code used for target temperature commands
	SET_TEMP_CODE_MANUAL = "manual_mode_fast"

	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_TEMPERATURE  = "temperature"
	DEVICE_CLASS_BATTERY      = "battery"
	DEVICE_CLASS_WINDOW       = "window"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
)

func PresetModes() []string {
	return []string{MODE_MANUAL, MODE_AT_HOME, MODE_LEAVING_HOME, MODE_PAUSE, MODE_HOLIDAY}
}

func HVACModes() []string {
	return []string{HVAC_MODE_HEAT, HVAC_MODE_AUTO, HVAC_MODE_OFF}
}

func AllyModeToHVACMode(mode string) string {
	switch mode {
	case MODE_MANUAL:
		return HVAC_MODE_HEAT
	case MODE_PAUSE:
		return HVAC_MODE_OFF
	default:
		return HVAC_MODE_AUTO
	}
}

func HVACModeToAllyMode(mode string) string {
	switch mode {
	case HVAC_MODE_HEAT:
		return MODE_MANUAL
	case HVAC_MODE_OFF:
		return MODE_PAUSE
	default:
		return MODE_AT_HOME
	}
}

func BridgeDevice(baseTopic string) domain.Device {
	return domain.Device{
		Id:           fmt.Sprintf("ally_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "Danfoss",
		Model:        "Ally Gateway Bridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Danfoss Ally %s", md5HashShort(baseTopic)),
	}
}

func ThermostatDevice(dev ally.Device, viaDevice string) domain.Device {
	model := dev.Model
	if model == "" {
		model = "Ally Radiator Thermostat"
	}
	name := dev.Name
	if name == "" {
		name = fmt.Sprintf("Ally %s", md5HashShort(dev.ID))
	}
	return domain.Device{
		Id:           fmt.Sprintf("ally_%s", dev.ID),
		Manufacturer: "Danfoss",
		Model:        model,
		Name:         name,
		ViaDevice:    viaDevice,
	}
}

func IdDevice(device domain.Device) domain.Device {
	return domain.Device{
		Id: device.Id,
	}
}

// ThermostatEntities describes the full entity set exposed for one device.
type ThermostatEntities struct {
	Climate  domain.GenericClimate
	Sensors  []domain.GenericSensor
	Switches []domain.GenericSwitch
	Selects  []domain.GenericSelect
}

func DeviceToEntities(dev ally.Device, viaDevice string) ThermostatEntities {
	haDev := ThermostatDevice(dev, viaDevice)
	idDev := IdDevice(haDev)

	climate := domain.GenericClimate{
		Device:   haDev,
		DeviceId: dev.ID,
		Name:     haDev.Name,
		UniqueId: fmt.Sprintf("%s_climate", haDev.Id),
		MinTemp:  5,
		MaxTemp:  35,
		TempStep: 0.5,
		Modes:    HVACModes(),
	}

	sensors := []domain.GenericSensor{
		{
			Device:            idDev,
			DeviceId:          dev.ID,
			Attr:              ATTR_TEMPERATURE,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Temperature",
			UniqueId:          fmt.Sprintf("%s_temperature", haDev.Id),
			UnitOfMeasurement: "°C",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_TEMPERATURE,
		},
		{
			Device:            idDev,
			DeviceId:          dev.ID,
			Attr:              ATTR_BATTERY,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Battery",
			UniqueId:          fmt.Sprintf("%s_battery", haDev.Id),
			UnitOfMeasurement: "%",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_BATTERY,
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
		},
		{
			Device:      idDev,
			DeviceId:    dev.ID,
			Attr:        ATTR_WINDOW_OPEN,
			SensorType:  SENSOR_TYPE_BINARY,
			Name:        "Open window",
			UniqueId:    fmt.Sprintf("%s_window_open", haDev.Id),
			DeviceClass: DEVICE_CLASS_WINDOW,
		},
		{
			Device:         idDev,
			DeviceId:       dev.ID,
			Attr:           ATTR_ONLINE,
			SensorType:     SENSOR_TYPE_BINARY,
			Name:           "Connectivity",
			UniqueId:       fmt.Sprintf("%s_online", haDev.Id),
			DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		},
	}

	switches := []domain.GenericSwitch{
		{
			Device:   idDev,
			DeviceId: dev.ID,
			Attr:     ATTR_CHILD_LOCK,
			Name:     "Child lock",
			UniqueId: fmt.Sprintf("%s_child_lock", haDev.Id),
			Icon:     "mdi:account-lock",
		},
	}

	selects := []domain.GenericSelect{
		{
			Device:   idDev,
			DeviceId: dev.ID,
			Attr:     ATTR_PRESET,
			Name:     "Preset",
			UniqueId: fmt.Sprintf("%s_preset", haDev.Id),
			Icon:     "mdi:home-thermometer",
			Options:  PresetModes(),
		},
	}

	return ThermostatEntities{
		Climate:  climate,
		Sensors:  sensors,
		Switches: switches,
		Selects:  selects,
	}
}

// DeviceToUpdateEvents maps a device attribute snapshot to entity update
// events. Unknown or missing attributes are skipped.
func DeviceToUpdateEvents(dev ally.Device) []any {
	var events []any

	if temp, ok := dev.Float(ATTR_TEMPERATURE); ok {
		events = append(events, domain.ClimateCurrentTempUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_CURRENT_TEMPERATURE,
			},
			Value: temp,
		})
		events = append(events, domain.FloatSensorUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_TEMPERATURE,
			},
			Value:    temp,
			Decimals: 1,
		})
	}
	if setpoint, ok := dev.Float(ATTR_SETPOINT); ok {
		events = append(events, domain.ClimateTargetTempUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_TARGET_TEMPERATURE,
			},
			Value: setpoint,
		})
	}
	if mode, ok := dev.String(ATTR_MODE); ok {
		events = append(events, domain.ClimateModeUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_MODE,
			},
			Value: AllyModeToHVACMode(mode),
		})
		events = append(events, domain.SelectUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_PRESET,
			},
			Value: mode,
		})
	}
	if battery, ok := dev.Float(ATTR_BATTERY); ok {
		events = append(events, domain.FloatSensorUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_BATTERY,
			},
			Value:    battery,
			Decimals: 0,
		})
	}
	if windowOpen, ok := dev.Bool(ATTR_WINDOW_OPEN); ok {
		events = append(events, domain.BinarySensorUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_WINDOW_OPEN,
			},
			Value: windowOpen,
		})
	}
	if online, ok := dev.Bool(ATTR_ONLINE); ok {
		events = append(events, domain.BinarySensorUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_ONLINE,
			},
			Value: online,
		})
	}
	if childLock, ok := dev.Bool(ATTR_CHILD_LOCK); ok {
		events = append(events, domain.SwitchUpdateEvent{
			EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
				DeviceId: dev.ID,
				Attr:     ATTR_CHILD_LOCK,
			},
			Value: childLock,
		})
	}

	return events
}

func md5HashShort(input string) string {
	hash := md5.Sum([]byte(input))
	return hex.EncodeToString(hash[:])[:8]
}
