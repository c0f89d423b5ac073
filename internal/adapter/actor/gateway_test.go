package actor

import (
	"errors"
	"testing"
	"time"

	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/util"
	"github.com/tbarnekov/danfoss-ally/internal/util/actorutil"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestUpdateDevicesGatewayActor(t *testing.T) {

	assert := assert.New(t)

	client := ally.CreateTestClient()
	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGatewayActor(client, &cfg, func() {}, logger)
	})
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.UpdateDevicesRequest{}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.UpdateDevicesResponse)

	assert.False(resp.HasResponseError())
	assert.True(resp.Polled, "first update should poll")
	assert.Len(resp.Devices, 2)
	assert.Equal("Living Room", resp.Devices["014556fffe8b3b19"].Name)

	context.Stop(pid)

	as.Shutdown()
}

func TestSetTemperatureGatewayActor(t *testing.T) {

	assert := assert.New(t)

	client := ally.CreateTestClient()
	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGatewayActor(client, &cfg, func() {}, logger)
	})
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.SetTemperatureRequest{
		DeviceId: "014556fffe8b3b19",
		Value:    22.5,
		Code:     "manual_mode_fast",
	}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SetTemperatureResponse)

	assert.False(resp.HasResponseError())
	assert.Equal("014556fffe8b3b19", resp.DeviceId)
	assert.Equal(1, client.WriteCalls)

	context.Stop(pid)

	as.Shutdown()
}

func TestSetupErrorGatewayActor(t *testing.T) {

	assert := assert.New(t)

	client := ally.CreateTestClient()
	client.InitializeErr = errors.New("cloud not ready")

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	guardian := actor.NewOneForOneStrategy(3, 10*time.Second, func(reason interface{}) actor.Directive {
		return actor.RestartDirective
	})

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGatewayActor(client, &cfg, func() {}, logger)
	}, actor.WithGuardian(guardian))
	pid := context.Spawn(props)

	time.Sleep(2 * time.Second)

	assert.GreaterOrEqual(client.InitializeCalls, 2, "setup should be retried after restart")

	// requests stay unanswered while setup keeps failing
	_, err := context.RequestFuture(pid, domain.UpdateDevicesRequest{}, 1*time.Second).Result()
	assert.Error(err)

	context.Stop(pid)

	as.Shutdown()
}

func TestWriteErrorGatewayActor(t *testing.T) {

	assert := assert.New(t)

	client := ally.CreateTestClient()
	client.WriteErr = errors.New("write failed")

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGatewayActor(client, &cfg, func() {}, logger)
	})
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.SetModeRequest{
		DeviceId: "014556fffe8b3b19",
		Mode:     "at_home",
	}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SetModeResponse)

	assert.True(resp.HasResponseError())

	context.Stop(pid)

	as.Shutdown()
}
