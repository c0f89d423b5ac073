package actor

import (
	"errors"
	"fmt"
	"log"
	"time"

	adactor "github.com/tbarnekov/danfoss-ally/internal/adapter/actor"
	"github.com/tbarnekov/danfoss-ally/internal/config"
	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/core/service"
	. "github.com/tbarnekov/danfoss-ally/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type GatewayActorProvider func(notify func()) *adactor.GatewayActor

type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck   healthCheckResult
	eventStream          *eventstream.EventStream
	registry             *service.DeviceRegistry
	gatewayActor         *actor.PID
	mqttActor            *actor.PID
	pollActor            *actor.PID
	gatewayActorProvider GatewayActorProvider
	mqttActorProvider    MQTTActorProvider
	logger               *zap.Logger
}

type healthCheckResult struct {
	gatewayActorHealthy bool
	mqttActorHealthy    bool
	pollActorHealthy    bool
	checksReceived      int
	respondTo           *actor.PID
}

func NewMasterOfPuppetsActor(config config.Config, gatewayActorProvider GatewayActorProvider, mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:               config,
		behavior:             actor.NewBehavior(),
		stash:                &Stash{},
		logger:               ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:          &eventstream.EventStream{},
		registry:             service.NewDeviceRegistry(logger),
		gatewayActorProvider: gatewayActorProvider,
		mqttActorProvider:    mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		state.currentHealthCheck = healthCheckResult{}
		state.currentHealthCheck.reset()

		// start gateway child
		gatewayActorPID, err := state.startGatewayActor(ctx)
		if err != nil {
			panic(err)
		}
		state.gatewayActor = gatewayActorPID

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// start poll child
		pollActorPID, err := state.startPollActor(ctx)
		if err != nil {
			panic(err)
		}
		state.pollActor = pollActorPID

		// start HA Discovery
		if state.config.MQTT.HADiscoveryEnable {
			_, err := state.startHADiscoveryActor(ctx)
			if err != nil {
				panic(err)
			}
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.currentHealthCheck.reset()
		state.currentHealthCheck.respondTo = ctx.Sender()
		// Gateway Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.gatewayActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_GATEWAY,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		// Poll Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.pollActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_POLL,
				Healthy: false,
			}
		})

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case adactor.ParsedCommand:
		// redirect parsedCommand to the gateway actor
		state.logger.Debug("master@default parsedCommand", zap.Any("command", msg.Command))
		if msg.Command != nil {
			cmd, err := ParsedMQTTCommandToCommand(*msg.Command)
			if err != nil {
				state.logger.Warn("master@default could not decode command", zap.Error(err))
				return
			}
			if cmd != nil {
				ctx.Request(state.gatewayActor, cmd)
			}
		}
	case domain.SetTemperatureResponse:
		if msg.HasResponseError() {
			state.logger.Error("master@default set temperature failed",
				zap.String("device", msg.DeviceId), zap.Error(msg.GetResponseError()))
		}
	case domain.SetModeResponse:
		if msg.HasResponseError() {
			state.logger.Error("master@default set mode failed",
				zap.String("device", msg.DeviceId), zap.Error(msg.GetResponseError()))
		}
	case domain.SendCommandsResponse:
		if msg.HasResponseError() {
			state.logger.Error("master@default send commands failed",
				zap.String("device", msg.DeviceId), zap.Error(msg.GetResponseError()))
		}
	case domain.GatewayAuthFailed:
		// bad credentials, there is no point in keeping the bridge alive
		state.logger.Error("master@default gateway authorization failed")
		panic(errors.New("gateway authorization failed"))
	case *actor.Terminated:
		// if some actor fails on boot, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_GATEWAY) {
			state.logger.Error("master@default gateway error")
			panic(errors.New("gateway terminated"))
		}
	default:
		state.logger.Debug("master@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.checksReceived++
		if msg.Healthy {
			if msg.Id == domain.ACTOR_ID_GATEWAY {
				state.currentHealthCheck.gatewayActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_MQTT {
				state.currentHealthCheck.mqttActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_POLL {
				state.currentHealthCheck.pollActorHealthy = true
			}
		}
		if state.currentHealthCheck.allReceived() {

			state.currentHealthCheck.respond(ctx)

			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) startGatewayActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	notify := func() {
		state.eventStream.Publish(domain.DevicesUpdatedEvent{})
	}

	gatewayProps := actor.PropsFromProducer(func() actor.Actor {
		return state.gatewayActorProvider(notify)
	}, actor.WithSupervisor(supervisor))
	gatewayActorPID, err := ctx.SpawnNamed(gatewayProps, domain.ACTOR_ID_GATEWAY)
	if err != nil {
		return nil, err
	}

	return gatewayActorPID, nil
}

func (state *MasterOfPuppetsActor) startPollActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	pollProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollActor(&state.config, state.gatewayActor, state.eventStream, state.registry, state.logger)
	}, actor.WithSupervisor(supervisor))
	pollActorPID, err := ctx.SpawnNamed(pollProps, domain.ACTOR_ID_POLL)
	if err != nil {
		return nil, err
	}

	return pollActorPID, nil
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	haDiscProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.gatewayActor, state.mqttActor, state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	haDiscPID, err := ctx.SpawnNamed(haDiscProps, domain.ACTOR_ID_HA_DISCOVERY)
	if err != nil {
		return nil, err
	}

	return haDiscPID, nil
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	mqttActorPID, err := ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
	if err != nil {
		return nil, err
	}

	return mqttActorPID, nil
}

func (state *healthCheckResult) reset() {
	state.gatewayActorHealthy = false
	state.mqttActorHealthy = false
	state.pollActorHealthy = false
	state.checksReceived = 0
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived == 3
}

func (state *healthCheckResult) allHealthy() bool {
	return state.gatewayActorHealthy && state.mqttActorHealthy && state.pollActorHealthy
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
