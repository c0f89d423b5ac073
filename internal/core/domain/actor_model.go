package domain

import "github.com/tbarnekov/danfoss-ally/pkg/ally"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_GATEWAY      = "gateway"
	ACTOR_ID_POLL         = "poll"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type UpdateDevicesRequest struct {
	ActorRequestMixIn
}

// UpdateDevicesResponse carries the current device cache. Polled is false when
// the update was throttled and no network fetch happened.
type UpdateDevicesResponse struct {
	ActorResponseMixIn
	Devices map[string]ally.Device
	Polled  bool
}

type SetTemperatureRequest struct {
	ActorRequestMixIn
	DeviceId string
	Value    float64
	Code     string
}

type SetTemperatureResponse struct {
	ActorResponseMixIn
	DeviceId string
}

type SetModeRequest struct {
	ActorRequestMixIn
	DeviceId string
	Mode     string
}

type SetModeResponse struct {
	ActorResponseMixIn
	DeviceId string
}

type SendCommandsRequest struct {
	ActorRequestMixIn
	DeviceId       string
	Commands       []ally.Command
	PostponeUpdate bool
}

type SendCommandsResponse struct {
	ActorResponseMixIn
	DeviceId string
}

// GatewayAuthFailed signals a rejected key/secret pair. The master treats it
// as a hard setup failure.
type GatewayAuthFailed struct {
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishEntityUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  EntityUpdateEvent
}

type PublishEntityUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Climates []GenericClimate
	Sensors  []GenericSensor
	Switches []GenericSwitch
	Selects  []GenericSelect
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

// RemoveDiscoveryRequest clears the retained discovery config of entities
// whose device disappeared from the vendor device list.
type RemoveDiscoveryRequest struct {
	ActorRequestMixIn
	Climates []GenericClimate
	Sensors  []GenericSensor
	Switches []GenericSwitch
	Selects  []GenericSelect
}

type RemoveDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
