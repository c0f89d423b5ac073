package config

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Ally     AllyConfig `mapstructure:"ally"`
	MQTT     MQTTConfig `mapstructure:"mqtt"`

	PollConfig PollConfig `mapstructure:"poll"`
	Port       uint       `mapstructure:"port"`
	HttpLog    bool       `mapstructure:"http_log"`
}

type AllyConfig struct {
	Key                  string `mapstructure:"key"`
	Secret               string `mapstructure:"secret"`
	Simulate             bool   `mapstructure:"simulate"`
	RequestTimeoutMillis uint32 `mapstructure:"request_timeout_millis"`
}

type PollConfig struct {
	IntervalSeconds          uint32 `mapstructure:"interval_seconds"`
	MinUpdateIntervalSeconds uint32 `mapstructure:"min_update_interval_seconds"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
