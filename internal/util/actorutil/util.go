package actorutil

import (
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/tbarnekov/danfoss-ally/internal/core/domain"
	"github.com/tbarnekov/danfoss-ally/internal/core/events"
	"github.com/tbarnekov/danfoss-ally/internal/mqtt"
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {

		// create a new logger
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps an MQTT command to a gateway actor request.
// Returns nil for commands addressing unknown attributes.
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.ActorRequest, error) {
	switch cmd.Command {
	case mqtt.COMMAND_TARGET_TEMPERATURE:
		value, err := strconv.ParseFloat(cmd.Payload, 64)
		if err != nil {
			return nil, err
		}
		return domain.SetTemperatureRequest{
			DeviceId: cmd.DeviceId,
			Value:    value,
			Code:     events.SET_TEMP_CODE_MANUAL,
		}, nil
	case mqtt.COMMAND_MODE:
		if !slices.Contains(events.HVACModes(), cmd.Payload) {
			return nil, nil
		}
		return domain.SetModeRequest{
			DeviceId: cmd.DeviceId,
			Mode:     events.HVACModeToAllyMode(cmd.Payload),
		}, nil
	case mqtt.COMMAND_SELECT:
		if cmd.Param != events.ATTR_PRESET || !slices.Contains(events.PresetModes(), cmd.Payload) {
			return nil, nil
		}
		return domain.SetModeRequest{
			DeviceId: cmd.DeviceId,
			Mode:     cmd.Payload,
		}, nil
	case mqtt.COMMAND_SWITCH:
		if cmd.Param != events.ATTR_CHILD_LOCK {
			return nil, nil
		}
		return domain.SendCommandsRequest{
			DeviceId:       cmd.DeviceId,
			Commands:       []ally.Command{{Code: events.ATTR_CHILD_LOCK, Value: cmd.Payload == mqtt.MQTT_PAYLOAD_ON}},
			PostponeUpdate: true,
		}, nil
	}
	return nil, nil
}
