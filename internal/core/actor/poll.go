package actor

import (
	"fmt"
	"time"

	"github.com/tbarnekov/danfoss-ally/internal/config"
	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/core/events"
	"github.com/tbarnekov/danfoss-ally/internal/core/service"
	. "github.com/tbarnekov/danfoss-ally/internal/util/actorutil"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PollActor drives the periodic device list refresh. Poll errors are reported
// once and then suppressed until a poll succeeds again, so a flaky cloud does
// not flood the log.
type PollActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	gatewayActor *actor.PID
	config       *config.Config
	eventStream  *eventstream.EventStream
	registry     *service.DeviceRegistry

	errorReported bool

	logger *zap.Logger
}

type pollTick struct {
}

func NewPollActor(config *config.Config, gatewayActor *actor.PID, eventStream *eventstream.EventStream,
	registry *service.DeviceRegistry, logger *zap.Logger) *PollActor {
	act := &PollActor{
		config:       config,
		gatewayActor: gatewayActor,
		behavior:     actor.NewBehavior(),
		stash:        &Stash{},
		logger:       ActorLogger(domain.ACTOR_ID_POLL, logger),
		eventStream:  eventStream,
		registry:     registry,
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *PollActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PollActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("poll@default started")
		state.scheduler = scheduler.NewTimerScheduler(ctx)
		// first poll right away, the timer takes over afterwards
		ctx.Send(ctx.Self(), pollTick{})
	case *actor.Restarting:
	case domain.ActorHealthRequest:
		state.logger.Debug("poll@default: ActorHealthRequest")
		healthState := "idle"
		if state.errorReported {
			healthState = "degraded"
		}
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLL,
			Healthy: !state.errorReported,
			State:   healthState,
		})
	case pollTick:
		state.logger.Debug("poll@default tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.gatewayActor, domain.UpdateDevicesRequest{}, state.requestTimeout()), func(err error) any {
			return domain.UpdateDevicesResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		// schedule next tick
		state.scheduler.RequestOnce(time.Duration(state.config.PollConfig.IntervalSeconds)*time.Second, ctx.Self(), pollTick{})
		state.behavior.BecomeStacked(state.WaitingUpdateReceive)
	default:
		state.logger.Debug("poll@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollActor) WaitingUpdateReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.UpdateDevicesResponse:
		if msg.HasResponseError() {
			state.reportPollError(msg.GetResponseError())
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("poll@waiting UpdateDevicesResponse", zap.Bool("polled", msg.Polled))
		if state.errorReported {
			state.errorReported = false
			state.logger.Info("poll: connection to cloud reestablished")
		}
		if msg.Polled {
			state.publishDeviceUpdates(msg.Devices)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("poll@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollActor) publishDeviceUpdates(devices map[string]ally.Device) {
	added, removed := state.registry.Sync(devices)
	for _, dev := range added {
		state.eventStream.Publish(domain.DeviceAddedEvent{Device: dev})
	}
	for _, dev := range removed {
		state.eventStream.Publish(domain.DeviceRemovedEvent{Device: dev})
	}
	for _, dev := range devices {
		for _, ev := range events.DeviceToUpdateEvents(dev) {
			state.eventStream.Publish(ev)
		}
	}
}

// reportPollError logs the first error of a failure streak at error level.
// Repeats only show up when debug logging is on.
func (state *PollActor) reportPollError(err error) {
	kind := ally.Classify(err)
	if !state.errorReported {
		state.errorReported = true
		state.logger.Error("poll: device update failed", zap.String("kind", kind.String()), zap.Error(err))
		return
	}
	if state.logger.Core().Enabled(zapcore.DebugLevel) {
		state.logger.Debug("poll: device update still failing", zap.String("kind", kind.String()), zap.Error(err))
	}
}

func (state *PollActor) requestTimeout() time.Duration {
	// update may block on the post-write delay, leave headroom over the
	// gateway's own timeout
	return time.Duration(state.config.Ally.RequestTimeoutMillis)*time.Millisecond + 2*time.Second
}
