package actor

import (
	"errors"
	"sync"
	"testing"
	"time"

	adactor "github.com/tbarnekov/danfoss-ally/internal/adapter/actor"
	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/core/service"
	"github.com/tbarnekov/danfoss-ally/internal/util"
	"github.com/tbarnekov/danfoss-ally/internal/util/actorutil"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type eventCollector struct {
	mu     sync.Mutex
	events []any
}

func (c *eventCollector) add(ev any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *eventCollector) snapshot() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any{}, c.events...)
}

func TestPollActorPublishesDeviceEvents(t *testing.T) {

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	cfg := util.LoadTestConfig()
	cfg.PollConfig.IntervalSeconds = 60

	es := eventstream.EventStream{}
	collector := &eventCollector{}
	sub := es.Subscribe(collector.add)
	defer es.Unsubscribe(sub)

	registry := service.NewDeviceRegistry(logger)

	// gateway actor
	gatewayProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewGatewayActor(ally.CreateTestClient(), &cfg, func() {}, logger)
	})
	gatewayActorPID := context.Spawn(gatewayProps)

	// poll actor
	pollProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollActor(&cfg, gatewayActorPID, &es, registry, logger)
	})
	pollActorPID := context.Spawn(pollProps)

	time.Sleep(2 * time.Second)

	hcr, err := healthCheck(context, pollActorPID)
	if err != nil {
		t.Error(err)
		return
	}
	assert.True(t, hcr.Healthy, "actor should be healthy")
	assert.Equal(t, "idle", hcr.State, "actor state should be idle")

	assert.Equal(t, 2, registry.Len(), "registry should track both devices")

	var added int
	var entityUpdates int
	for _, ev := range collector.snapshot() {
		switch ev.(type) {
		case domain.DeviceAddedEvent:
			added++
		case domain.EntityUpdateEvent:
			entityUpdates++
		}
	}
	assert.Equal(t, 2, added, "both devices should be announced")
	assert.True(t, entityUpdates > 0, "entity updates should be published")

	context.Stop(pollActorPID)
	context.Stop(gatewayActorPID)

	as.Shutdown()
}

func TestPollActorDegradedOnError(t *testing.T) {

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	cfg := util.LoadTestConfig()
	cfg.PollConfig.IntervalSeconds = 60

	client := ally.CreateTestClient()
	client.ListErr = errors.New("cloud unreachable")

	es := eventstream.EventStream{}
	registry := service.NewDeviceRegistry(logger)

	gatewayProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewGatewayActor(client, &cfg, func() {}, logger)
	})
	gatewayActorPID := context.Spawn(gatewayProps)

	pollProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollActor(&cfg, gatewayActorPID, &es, registry, logger)
	})
	pollActorPID := context.Spawn(pollProps)

	time.Sleep(2 * time.Second)

	hcr, err := healthCheck(context, pollActorPID)
	if err != nil {
		t.Error(err)
		return
	}
	assert.False(t, hcr.Healthy, "actor should report degraded")
	assert.Equal(t, "degraded", hcr.State)

	assert.Equal(t, 0, registry.Len(), "registry should stay empty")

	context.Stop(pollActorPID)
	context.Stop(gatewayActorPID)

	as.Shutdown()
}

func TestPollActorLogsErrorOnce(t *testing.T) {

	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	cfg := util.LoadTestConfig()

	es := eventstream.EventStream{}
	registry := service.NewDeviceRegistry(logger)
	state := NewPollActor(&cfg, nil, &es, registry, logger)

	pollErr := errors.New("cloud unreachable")
	state.reportPollError(pollErr)
	state.reportPollError(pollErr)
	state.reportPollError(pollErr)

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len(),
		"a failure streak should be logged once")

	// a successful poll clears the streak, the next failure is news again
	state.errorReported = false
	state.reportPollError(pollErr)

	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.ErrorLevel).Len(),
		"a new streak should be logged again")
}

func TestPollActorLogsRepeatsWhenVerbose(t *testing.T) {

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	cfg := util.LoadTestConfig()

	es := eventstream.EventStream{}
	registry := service.NewDeviceRegistry(logger)
	state := NewPollActor(&cfg, nil, &es, registry, logger)

	pollErr := errors.New("cloud unreachable")
	state.reportPollError(pollErr)
	state.reportPollError(pollErr)
	state.reportPollError(pollErr)

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 2, logs.FilterMessage("poll: device update still failing").Len(),
		"repeats should show up at debug level")
}

func healthCheck(ctx *actor.RootContext, pid *actor.PID) (*domain.ActorHealthResponse, error) {
	resp, err := ctx.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	if err != nil {
		return nil, err
	}
	hcr, ok := resp.(domain.ActorHealthResponse)
	if !ok {
		return nil, errors.New("unexpected response type")
	}
	return &hcr, nil
}
