package util

import (
	"github.com/tbarnekov/danfoss-ally/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Ally: config.AllyConfig{
			Key:                  "test-key",
			Secret:               "test-secret",
			Simulate:             true,
			RequestTimeoutMillis: 10000,
		},
		PollConfig: config.PollConfig{
			IntervalSeconds:          45,
			MinUpdateIntervalSeconds: 30,
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "danfoss_ally",
			HADiscoveryTopic: "homeassistant",
		},
		Port: 8080,
	}
}
