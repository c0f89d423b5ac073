package actor

import (
	"fmt"
	"time"

	"github.com/tbarnekov/danfoss-ally/internal/config"
	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/core/service"
	"github.com/tbarnekov/danfoss-ally/internal/util/actorutil"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

// GatewayActor owns the cloud connector. All vendor I/O is blocking and runs
// on background tasks; requests are serialized while a task is in flight.
type GatewayActor struct {
	behavior       actor.Behavior
	stash          *actorutil.Stash
	connector      *service.Connector
	requestTimeout time.Duration
	logger         *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

type setupResult struct {
	authorized bool
	err        error
}

func NewGatewayActor(client ally.Client, cfg *config.Config, notify func(), logger *zap.Logger) *GatewayActor {
	actLogger := actorutil.ActorLogger(domain.ACTOR_ID_GATEWAY, logger)
	act := &GatewayActor{
		connector: service.NewConnector(client, cfg.Ally.Key, cfg.Ally.Secret,
			time.Duration(cfg.PollConfig.MinUpdateIntervalSeconds)*time.Second, notify, actLogger),
		requestTimeout: time.Duration(cfg.Ally.RequestTimeoutMillis) * time.Millisecond,
		behavior:       actor.NewBehavior(),
		stash:          &actorutil.Stash{},
		logger:         actLogger,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *GatewayActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *GatewayActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("gateway@starting started")
		actorutil.NewBackgroundTask(ctx, func() (*setupResult, error) {
			if err := state.connector.Setup(); err != nil {
				return nil, err
			}
			return &setupResult{authorized: state.connector.Authorized()}, nil
		}).Recover(func(err error) setupResult {
			return setupResult{err: err}
		}).WithTimeout(state.requestTimeout).PipeTo(ctx.Self())
	case setupResult:
		if msg.err != nil {
			// transport failure: let the supervisor restart us later
			state.logger.Error("gateway@starting setup error",
				zap.String("kind", ally.Classify(msg.err).String()), zap.Error(msg.err))
			panic(msg.err)
		}
		if !msg.authorized {
			// rejected credentials are a hard failure, restarting won't help
			state.logger.Error("gateway@starting not authorized")
			ctx.Send(ctx.Parent(), domain.GatewayAuthFailed{})
			state.behavior.Become(state.UnauthorizedReceive)
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("gateway@starting authorized")
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("gateway@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *GatewayActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("gateway@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_GATEWAY,
			Healthy: state.connector.Authorized(),
			State:   "idle",
		})
	case domain.UpdateDevicesRequest:
		state.logger.Debug("gateway@default: UpdateDevicesRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.updateDevices),
			mapTaskResult[domain.UpdateDevicesResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.UpdateDevicesResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.requestTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingGateway)
	case domain.SetTemperatureRequest:
		state.logger.Debug("gateway@default: SetTemperatureRequest")
		sender := ctx.Sender()
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.SetTemperatureResponse, error) {
			return state.setTemperature(msg)
		}), mapTaskResult[domain.SetTemperatureResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.SetTemperatureResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					DeviceId: msg.DeviceId,
				},
				replyTo: sender,
			}
		}).WithTimeout(state.requestTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingGateway)
	case domain.SetModeRequest:
		state.logger.Debug("gateway@default: SetModeRequest")
		sender := ctx.Sender()
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.SetModeResponse, error) {
			return state.setMode(msg)
		}), mapTaskResult[domain.SetModeResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.SetModeResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					DeviceId: msg.DeviceId,
				},
				replyTo: sender,
			}
		}).WithTimeout(state.requestTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingGateway)
	case domain.SendCommandsRequest:
		state.logger.Debug("gateway@default: SendCommandsRequest")
		sender := ctx.Sender()
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.SendCommandsResponse, error) {
			return state.sendCommands(msg)
		}), mapTaskResult[domain.SendCommandsResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.SendCommandsResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					DeviceId: msg.DeviceId,
				},
				replyTo: sender,
			}
		}).WithTimeout(state.requestTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingGateway)
	default:
		state.logger.Debug("gateway@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *GatewayActor) WaitingGateway(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("gateway@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("gateway@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// UnauthorizedReceive answers every request with an authorization error until
// the bridge is reconfigured.
func (state *GatewayActor) UnauthorizedReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_GATEWAY,
			Healthy: false,
			State:   "unauthorized",
		})
	case domain.UpdateDevicesRequest:
		actorutil.ForRequest(msg).Respond(ctx, domain.UpdateDevicesResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: ally.ErrNotAuthorized,
			},
		})
	case domain.SetTemperatureRequest:
		ctx.Respond(domain.SetTemperatureResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: ally.ErrNotAuthorized,
			},
			DeviceId: msg.DeviceId,
		})
	case domain.SetModeRequest:
		ctx.Respond(domain.SetModeResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: ally.ErrNotAuthorized,
			},
			DeviceId: msg.DeviceId,
		})
	case domain.SendCommandsRequest:
		ctx.Respond(domain.SendCommandsResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: ally.ErrNotAuthorized,
			},
			DeviceId: msg.DeviceId,
		})
	default:
		state.logger.Debug("gateway@unauthorized default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (a *GatewayActor) updateDevices() (*domain.UpdateDevicesResponse, error) {
	polled, err := a.connector.Update()
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.UpdateDevicesResponse{
		Devices: a.connector.Devices(),
		Polled:  polled,
	}, nil
}

func (a *GatewayActor) setTemperature(msg domain.SetTemperatureRequest) (*domain.SetTemperatureResponse, error) {
	if err := a.connector.SetTemperature(msg.DeviceId, msg.Value, msg.Code); err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.SetTemperatureResponse{
		DeviceId: msg.DeviceId,
	}, nil
}

func (a *GatewayActor) setMode(msg domain.SetModeRequest) (*domain.SetModeResponse, error) {
	if err := a.connector.SetMode(msg.DeviceId, msg.Mode); err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.SetModeResponse{
		DeviceId: msg.DeviceId,
	}, nil
}

func (a *GatewayActor) sendCommands(msg domain.SendCommandsRequest) (*domain.SendCommandsResponse, error) {
	if err := a.connector.SendCommands(msg.DeviceId, msg.Commands, msg.PostponeUpdate); err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.SendCommandsResponse{
		DeviceId: msg.DeviceId,
	}, nil
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
