package actor

import (
	"fmt"
	"testing"
	"time"

	adactor "github.com/tbarnekov/danfoss-ally/internal/adapter/actor"
	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/util"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func(notify func()) *adactor.GatewayActor {
			return adactor.NewGatewayActor(ally.CreateTestClient(), &cfg, notify, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorSignalsDeviceUpdates(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	collector := &eventCollector{}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func(notify func()) *adactor.GatewayActor {
			return adactor.NewGatewayActor(ally.CreateTestClient(), &cfg, notify, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			es.Subscribe(collector.add)
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(2 * time.Second)

	var updated int
	for _, ev := range collector.snapshot() {
		if _, ok := ev.(domain.DevicesUpdatedEvent); ok {
			updated++
		}
	}
	assert.Equal(t, 1, updated, "first poll should broadcast exactly one devices-updated signal")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorHaltsOnAuthFailure(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	client := ally.CreateTestClient()
	client.Authorized = false

	failures := make(chan interface{}, 1)
	guardian := actor.NewOneForOneStrategy(0, 10*time.Second, func(reason interface{}) actor.Directive {
		select {
		case failures <- reason:
		default:
		}
		return actor.StopDirective
	})

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func(notify func()) *adactor.GatewayActor {
			return adactor.NewGatewayActor(client, &cfg, notify, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	}, actor.WithGuardian(guardian))
	_, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	select {
	case reason := <-failures:
		failure, ok := reason.(error)
		assert.True(t, ok)
		assert.Contains(t, failure.Error(), "authorization failed")
	case <-time.After(5 * time.Second):
		t.Fatal("rejected credentials should bring the bridge down")
	}

	as.Shutdown()
}
