package events

import (
	"testing"

	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/stretchr/testify/assert"
)

func TestModeMapping(t *testing.T) {
	assert.Equal(t, HVAC_MODE_HEAT, AllyModeToHVACMode(MODE_MANUAL))
	assert.Equal(t, HVAC_MODE_OFF, AllyModeToHVACMode(MODE_PAUSE))
	assert.Equal(t, HVAC_MODE_AUTO, AllyModeToHVACMode(MODE_AT_HOME))
	assert.Equal(t, HVAC_MODE_AUTO, AllyModeToHVACMode(MODE_LEAVING_HOME))
	assert.Equal(t, HVAC_MODE_AUTO, AllyModeToHVACMode(MODE_HOLIDAY))

	assert.Equal(t, MODE_MANUAL, HVACModeToAllyMode(HVAC_MODE_HEAT))
	assert.Equal(t, MODE_PAUSE, HVACModeToAllyMode(HVAC_MODE_OFF))
	assert.Equal(t, MODE_AT_HOME, HVACModeToAllyMode(HVAC_MODE_AUTO))
}

func TestDeviceToEntities(t *testing.T) {
	dev := ally.Device{
		ID:    "014556fffe8b3b19",
		Name:  "Living Room",
		Model: "Ally Radiator Thermostat",
	}
	entities := DeviceToEntities(dev, "bridge_1")

	assert.Equal(t, dev.ID, entities.Climate.DeviceId)
	assert.Equal(t, "Living Room", entities.Climate.Name)
	assert.Equal(t, HVACModes(), entities.Climate.Modes)
	assert.Equal(t, 0.5, entities.Climate.TempStep)

	assert.Len(t, entities.Sensors, 4)
	assert.Len(t, entities.Switches, 1)
	assert.Len(t, entities.Selects, 1)
	assert.Equal(t, ATTR_CHILD_LOCK, entities.Switches[0].Attr)
	assert.Equal(t, PresetModes(), entities.Selects[0].Options)
	for _, s := range entities.Sensors {
		assert.Equal(t, entities.Climate.Device.Id, s.Device.Id)
		assert.NotEmpty(t, s.UniqueId)
	}
}

func TestDeviceToUpdateEvents(t *testing.T) {
	dev := ally.Device{
		ID:   "014556fffe8b3b19",
		Name: "Living Room",
		Attributes: map[string]any{
			ATTR_TEMPERATURE: 21.3,
			ATTR_SETPOINT:    22.0,
			ATTR_MODE:        MODE_MANUAL,
			ATTR_BATTERY:     87.0,
			ATTR_WINDOW_OPEN: false,
			ATTR_CHILD_LOCK:  true,
			ATTR_ONLINE:      true,
		},
	}
	events := DeviceToUpdateEvents(dev)
	assert.Len(t, events, 9)

	var currentTemp *domain.ClimateCurrentTempUpdateEvent
	var targetTemp *domain.ClimateTargetTempUpdateEvent
	var mode *domain.ClimateModeUpdateEvent
	var preset *domain.SelectUpdateEvent
	var childLock *domain.SwitchUpdateEvent
	for _, ev := range events {
		switch e := ev.(type) {
		case domain.ClimateCurrentTempUpdateEvent:
			currentTemp = &e
		case domain.ClimateTargetTempUpdateEvent:
			targetTemp = &e
		case domain.ClimateModeUpdateEvent:
			mode = &e
		case domain.SelectUpdateEvent:
			preset = &e
		case domain.SwitchUpdateEvent:
			childLock = &e
		}
	}

	assert.NotNil(t, currentTemp)
	assert.Equal(t, 21.3, currentTemp.Value)
	assert.NotNil(t, targetTemp)
	assert.Equal(t, 22.0, targetTemp.Value)
	assert.NotNil(t, mode)
	assert.Equal(t, HVAC_MODE_HEAT, mode.Value)
	assert.NotNil(t, preset)
	assert.Equal(t, MODE_MANUAL, preset.Value)
	assert.NotNil(t, childLock)
	assert.True(t, childLock.Value)
}

func TestDeviceToUpdateEventsSkipsMissingAttributes(t *testing.T) {
	dev := ally.Device{
		ID: "0045545dfe88bc41",
		Attributes: map[string]any{
			ATTR_BATTERY: 55.0,
		},
	}
	events := DeviceToUpdateEvents(dev)
	assert.Len(t, events, 1)
	sensor, ok := events[0].(domain.FloatSensorUpdateEvent)
	assert.True(t, ok)
	assert.Equal(t, ATTR_BATTERY, sensor.Attr)
	assert.Equal(t, 55.0, sensor.Value)
}

func TestBridgeDeviceStableId(t *testing.T) {
	a := BridgeDevice("danfoss_ally")
	b := BridgeDevice("danfoss_ally")
	c := BridgeDevice("other_topic")
	assert.Equal(t, a.Id, b.Id)
	assert.NotEqual(t, a.Id, c.Id)
}
