package domain

import (
	"fmt"

	"github.com/tbarnekov/danfoss-ally/pkg/ally"
)

type EntityUpdateEventMixIn struct {
	DeviceId string
	Attr     string
}

type EntityUpdateEvent interface {
	EntityUpdateEvent() string
	EntityId() string
}

func (e EntityUpdateEventMixIn) EntityUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e EntityUpdateEventMixIn) EntityId() string {
	return fmt.Sprintf("%s/%s", e.DeviceId, e.Attr)
}

type FloatSensorUpdateEvent struct {
	EntityUpdateEventMixIn
	Value    float64
	Decimals uint
}

type TextSensorUpdateEvent struct {
	EntityUpdateEventMixIn
	Value string
}

type BinarySensorUpdateEvent struct {
	EntityUpdateEventMixIn
	Value bool
}

type SwitchUpdateEvent struct {
	EntityUpdateEventMixIn
	Value bool
}

type SelectUpdateEvent struct {
	EntityUpdateEventMixIn
	Value string
}

type ClimateCurrentTempUpdateEvent struct {
	EntityUpdateEventMixIn
	Value float64
}

type ClimateTargetTempUpdateEvent struct {
	EntityUpdateEventMixIn
	Value float64
}

type ClimateModeUpdateEvent struct {
	EntityUpdateEventMixIn
	Value string
}

type BridgeStateUpdateEvent struct {
	EntityUpdateEventMixIn
	Value bool
}

// DevicesUpdatedEvent is the zero-payload broadcast fired after every
// successful device list poll.
type DevicesUpdatedEvent struct {
}

type DeviceAddedEvent struct {
	Device ally.Device
}

type DeviceRemovedEvent struct {
	Device ally.Device
}
