package mqtt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"time"

	"github.com/tbarnekov/danfoss-ally/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"

	COMMAND_TARGET_TEMPERATURE = "target_temperature"
	COMMAND_MODE               = "mode"
	COMMAND_SWITCH             = "switch"
	COMMAND_SELECT             = "select"
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("ally_%d", rand.IntN(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:                   mqtt.NewClient(opts),
		cfg:                      cfg.MQTT,
		climateTempCommandRegexp: climateTempCommandExtractor(cfg.MQTT.BaseTopic),
		climateModeCommandRegexp: climateModeCommandExtractor(cfg.MQTT.BaseTopic),
		switchCommandRegexp:      switchCommandExtractor(cfg.MQTT.BaseTopic),
		selectCommandRegexp:      selectCommandExtractor(cfg.MQTT.BaseTopic),
	}
}

type MQTTClient struct {
	client                   mqtt.Client
	cfg                      config.MQTTConfig
	climateTempCommandRegexp *regexp.Regexp
	climateModeCommandRegexp *regexp.Regexp
	switchCommandRegexp      *regexp.Regexp
	selectCommandRegexp      *regexp.Regexp
}

type ParsedMQTTCommand struct {
	DeviceId string
	Command  string
	Param    string
	Payload  string
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

func (c *MQTTClient) ClimateCurrentTempStateTopic(deviceId string) string {
	return fmt.Sprintf("%s/climate/%s/current_temperature", c.baseTopic(), deviceId)
}

func (c *MQTTClient) ClimateTargetTempStateTopic(deviceId string) string {
	return fmt.Sprintf("%s/climate/%s/target_temperature/state", c.baseTopic(), deviceId)
}

func (c *MQTTClient) ClimateTargetTempCommandTopic(deviceId string) string {
	return fmt.Sprintf("%s/climate/%s/target_temperature/set", c.baseTopic(), deviceId)
}

func (c *MQTTClient) ClimateModeStateTopic(deviceId string) string {
	return fmt.Sprintf("%s/climate/%s/mode/state", c.baseTopic(), deviceId)
}

func (c *MQTTClient) ClimateModeCommandTopic(deviceId string) string {
	return fmt.Sprintf("%s/climate/%s/mode/set", c.baseTopic(), deviceId)
}

func (c *MQTTClient) SensorStateTopic(deviceId, attr string) string {
	return fmt.Sprintf("%s/sensor/%s/%s/state", c.baseTopic(), deviceId, attr)
}

func (c *MQTTClient) BinarySensorStateTopic(deviceId, attr string) string {
	return fmt.Sprintf("%s/binary_sensor/%s/%s/state", c.baseTopic(), deviceId, attr)
}

func (c *MQTTClient) SwitchStateTopic(deviceId, attr string) string {
	return fmt.Sprintf("%s/switch/%s/%s/state", c.baseTopic(), deviceId, attr)
}

func (c *MQTTClient) SwitchCommandTopic(deviceId, attr string) string {
	return fmt.Sprintf("%s/switch/%s/%s/command", c.baseTopic(), deviceId, attr)
}

func (c *MQTTClient) SelectStateTopic(deviceId, attr string) string {
	return fmt.Sprintf("%s/select/%s/%s/state", c.baseTopic(), deviceId, attr)
}

func (c *MQTTClient) SelectCommandTopic(deviceId, attr string) string {
	return fmt.Sprintf("%s/select/%s/%s/set", c.baseTopic(), deviceId, attr)
}

func (c *MQTTClient) ParseMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	if cmd, err := c.parseClimateTempMQTTCommand(msg); err == nil {
		return cmd, nil
	}
	if cmd, err := c.parseClimateModeMQTTCommand(msg); err == nil {
		return cmd, nil
	}
	if cmd, err := c.parseSwitchMQTTCommand(msg); err == nil {
		return cmd, nil
	}
	return c.parseSelectMQTTCommand(msg)
}

func (c *MQTTClient) parseClimateTempMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	matches := c.climateTempCommandRegexp.FindAllStringSubmatch(msg.Topic(), 1)
	if len(matches) == 0 || len(matches[0]) != 2 {
		return nil, errors.New("invalid climate temperature command")
	}

	// payload must be a valid number
	if _, err := strconv.ParseFloat(string(msg.Payload()), 64); err != nil {
		return nil, err
	}

	return &ParsedMQTTCommand{
		DeviceId: matches[0][1],
		Command:  COMMAND_TARGET_TEMPERATURE,
		Payload:  string(msg.Payload()),
	}, nil
}

func (c *MQTTClient) parseClimateModeMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	matches := c.climateModeCommandRegexp.FindAllStringSubmatch(msg.Topic(), 1)
	if len(matches) == 0 || len(matches[0]) != 2 {
		return nil, errors.New("invalid climate mode command")
	}
	return &ParsedMQTTCommand{
		DeviceId: matches[0][1],
		Command:  COMMAND_MODE,
		Payload:  string(msg.Payload()),
	}, nil
}

func (c *MQTTClient) parseSwitchMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	matches := c.switchCommandRegexp.FindAllStringSubmatch(msg.Topic(), 1)
	if len(matches) == 0 || len(matches[0]) != 3 {
		return nil, errors.New("invalid switch command")
	}
	return &ParsedMQTTCommand{
		DeviceId: matches[0][1],
		Command:  COMMAND_SWITCH,
		Param:    matches[0][2],
		Payload:  string(msg.Payload()),
	}, nil
}

func (c *MQTTClient) parseSelectMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	matches := c.selectCommandRegexp.FindAllStringSubmatch(msg.Topic(), 1)
	if len(matches) == 0 || len(matches[0]) != 3 {
		return nil, errors.New("invalid select command")
	}
	return &ParsedMQTTCommand{
		DeviceId: matches[0][1],
		Command:  COMMAND_SELECT,
		Param:    matches[0][2],
		Payload:  string(msg.Payload()),
	}, nil
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	token := c.client.Publish(topic, qos, retain, payload)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT publish timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	token := c.client.Subscribe(topic, qos, handler)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT subscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) SubscribeToCommandTopic(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	c.Subscribe(c.commandTopic(), 1, handler, continuation, timeout)
}

func (c *MQTTClient) Unsubscribe(topic string, continuation func(error), timeout time.Duration) {
	token := c.client.Unsubscribe(topic)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT unsubscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	token := c.client.Connect()
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT connect timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func (c *MQTTClient) commandTopic() string {
	return fmt.Sprintf("%s/#", c.baseTopic())
}

func climateTempCommandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("%s/climate/([a-zA-Z0-9_]+)/target_temperature/set", baseTopic))
}

func climateModeCommandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("%s/climate/([a-zA-Z0-9_]+)/mode/set", baseTopic))
}

func switchCommandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("%s/switch/([a-zA-Z0-9_]+)/([a-zA-Z0-9_]+)/command", baseTopic))
}

func selectCommandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("%s/select/([a-zA-Z0-9_]+)/([a-zA-Z0-9_]+)/set", baseTopic))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}
