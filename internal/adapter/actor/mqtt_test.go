package actor

import (
	"testing"
	"time"

	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/util"
	"github.com/tbarnekov/danfoss-ally/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMQTTActor(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	es := eventstream.EventStream{}

	props := actor.PropsFromProducer(func() actor.Actor { return NewTestMQTTActor(&cfg, &es, logger) })
	pid := context.Spawn(props)

	time.Sleep(2 * time.Second)

	msg := domain.ActorHealthRequest{}
	result, err := context.RequestFuture(pid, msg, 2*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp, ok := result.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.NotNil(t, resp)
	assert.True(t, resp.Healthy)

	es.Publish(domain.ClimateCurrentTempUpdateEvent{
		EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
			DeviceId: "014556fffe8b3b19",
			Attr:     "current_temperature",
		},
		Value: 21.3,
	})
	es.Publish(domain.FloatSensorUpdateEvent{
		EntityUpdateEventMixIn: domain.EntityUpdateEventMixIn{
			DeviceId: "014556fffe8b3b19",
			Attr:     "battery",
		},
		Value: 87,
	})

	time.Sleep(1 * time.Second)

	context.Stop(pid)

	time.Sleep(1 * time.Second)

	as.Shutdown()
}
