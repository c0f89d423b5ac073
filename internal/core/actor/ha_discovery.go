package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/tbarnekov/danfoss-ally/internal/config"
	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/core/events"
	"github.com/tbarnekov/danfoss-ally/internal/util/actorutil"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

// HADiscoveryActor publishes the Home Assistant discovery config for every
// known thermostat once both the gateway and MQTT actors are up, then keeps
// it in sync as devices appear and disappear.
type HADiscoveryActor struct {
	config              *config.Config
	behavior            actor.Behavior
	stash               *actorutil.Stash
	gatewayActor        *actor.PID
	mqttActor           *actor.PID
	eventStream         *eventstream.EventStream
	eventStreamSub      *eventstream.Subscription
	gatewayActorHealthy bool
	mqttActorHealthy    bool
	healthyRecv         int

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, gatewayActor *actor.PID, mqttActor *actor.PID,
	eventStream *eventstream.EventStream, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:       config,
		gatewayActor: gatewayActor,
		mqttActor:    mqttActor,
		eventStream:  eventStream,
		behavior:     actor.NewBehavior(),
		stash:        &actorutil.Stash{},
		logger:       actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check gateway and MQTT actor healthy
		state.healthyRecv = 0
		state.gatewayActorHealthy = false
		state.mqttActorHealthy = false
		// Gateway Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.gatewayActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_GATEWAY,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_GATEWAY:
				state.gatewayActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {

			if state.gatewayActorHealthy && state.mqttActorHealthy {
				// Ask gateway for the current device list
				actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.gatewayActor, domain.UpdateDevicesRequest{}, 15*time.Second), func(err error) any {
					return domain.UpdateDevicesResponse{
						ActorResponseMixIn: domain.ActorResponseMixIn{
							ResponseError: err,
						},
					}
				})
				state.behavior.Become(state.WaitingInfoReceive)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or Gateway Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingInfoReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.UpdateDevicesResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@info: UpdateDevicesResponse", zap.Int("devices", len(msg.Devices)))

		request := devicesToDiscoveryRequest(state.config.MQTT.BaseTopic, msg.Devices)
		ctx.Send(state.mqttActor, request)

		// track device churn to keep discovery in sync
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			switch value.(type) {
			case domain.DeviceAddedEvent, domain.DeviceRemovedEvent:
				ctx.ActorSystem().Root.Send(ctx.Self(), value)
			}
		})

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("hadiscovery@info: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Stopping, *actor.Restarting:
		if state.eventStreamSub != nil {
			state.eventStream.Unsubscribe(state.eventStreamSub)
			state.eventStreamSub = nil
		}
	case domain.DeviceAddedEvent:
		state.logger.Info("hadiscovery@default: device added", zap.String("device", msg.Device.ID))
		bridgeDevice := events.BridgeDevice(state.config.MQTT.BaseTopic)
		entities := events.DeviceToEntities(msg.Device, bridgeDevice.Id)
		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Climates: []domain.GenericClimate{entities.Climate},
			Sensors:  entities.Sensors,
			Switches: entities.Switches,
			Selects:  entities.Selects,
		})
	case domain.DeviceRemovedEvent:
		state.logger.Info("hadiscovery@default: device removed", zap.String("device", msg.Device.ID))
		bridgeDevice := events.BridgeDevice(state.config.MQTT.BaseTopic)
		entities := events.DeviceToEntities(msg.Device, bridgeDevice.Id)
		ctx.Send(state.mqttActor, domain.RemoveDiscoveryRequest{
			Climates: []domain.GenericClimate{entities.Climate},
			Sensors:  entities.Sensors,
			Switches: entities.Switches,
			Selects:  entities.Selects,
		})
	default:
		state.logger.Debug("hadiscovery@default: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func devicesToDiscoveryRequest(baseTopic string, devices map[string]ally.Device) domain.PublishDiscoveryRequest {
	bridgeDevice := events.BridgeDevice(baseTopic)

	var climates []domain.GenericClimate
	var sensors []domain.GenericSensor
	var switches []domain.GenericSwitch
	var selects []domain.GenericSelect

	for _, dev := range devices {
		entities := events.DeviceToEntities(dev, bridgeDevice.Id)
		climates = append(climates, entities.Climate)
		sensors = append(sensors, entities.Sensors...)
		switches = append(switches, entities.Switches...)
		selects = append(selects, entities.Selects...)
	}

	return domain.PublishDiscoveryRequest{
		Climates: climates,
		Sensors:  sensors,
		Switches: switches,
		Selects:  selects,
	}
}
