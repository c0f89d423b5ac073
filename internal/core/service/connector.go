package service

import (
	"time"

	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"go.uber.org/zap"
)

const (
	// delay applied to a poll that follows a write too closely, to reduce
	// the chance a freshly-issued command is overwritten by stale poll data
	postWriteDelay = 1 * time.Second
	// write/poll distance considered a potential overwrite race
	pollRaceWindow = 500 * time.Millisecond
)

// Connector mediates all reads and writes to the Ally cloud gateway. Polls
// are throttled, and write/poll visual races are mitigated with a
// timestamp-based delay heuristic. Not safe for concurrent use: the gateway
// actor serializes access.
type Connector struct {
	client      ally.Client
	key, secret string

	authorized      bool
	throttle        *Throttle
	latestWriteTime time.Time
	latestPollTime  time.Time
	devices         map[string]ally.Device

	notify func()
	logger *zap.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

// NewConnector creates a connector over the given client. notify is invoked
// after every successful poll and may be nil.
func NewConnector(client ally.Client, key, secret string, minUpdateInterval time.Duration, notify func(), logger *zap.Logger) *Connector {
	return &Connector{
		client:   client,
		key:      key,
		secret:   secret,
		throttle: NewThrottle(minUpdateInterval),
		notify:   notify,
		logger:   logger,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Setup authenticates against the cloud API. A rejected key/secret pair
// leaves the connector unauthorized without error; transport failures are
// returned to the caller.
func (c *Connector) Setup() error {
	auth, err := c.client.Initialize(c.key, c.secret)
	if err != nil {
		return err
	}
	c.authorized = auth
	return nil
}

// Update polls the device list. A call within the minimum update interval of
// the previous one is a no-op and returns polled=false. A poll following a
// write by less than a second is delayed before hitting the network.
func (c *Connector) Update() (bool, error) {
	if !c.throttle.Allow(c.now()) {
		c.logger.Debug("update throttled")
		return false, nil
	}
	c.logger.Debug("updating devices")

	sinceWrite := c.now().Sub(c.latestWriteTime)
	if !c.latestWriteTime.IsZero() && sinceWrite < postWriteDelay {
		c.logger.Debug("postponing update after recent write",
			zap.Duration("since_write", sinceWrite))
		c.sleep(postWriteDelay)
	}

	devices, err := c.client.GetDeviceList()
	if err != nil {
		return false, err
	}
	c.devices = devices
	c.latestPollTime = c.now()

	for id, dev := range devices {
		c.logger.Debug("device", zap.String("id", id), zap.Any("attributes", dev.Attributes))
	}
	if c.notify != nil {
		c.notify()
	}
	return true, nil
}

func (c *Connector) SetTemperature(deviceID string, value float64, code string) error {
	c.latestWriteTime = c.now()
	err := c.client.SetTemperature(deviceID, value, code)
	c.logPollRace("set_temperature")
	return err
}

func (c *Connector) SetMode(deviceID string, mode string) error {
	c.latestWriteTime = c.now()
	err := c.client.SetMode(deviceID, mode)
	c.logPollRace("set_mode")
	return err
}

// SendCommands sends a command batch. When postponeUpdate is set, the next
// poll is delayed the same way as for the single setters. Errors always
// propagate to the caller.
func (c *Connector) SendCommands(deviceID string, commands []ally.Command, postponeUpdate bool) error {
	if postponeUpdate {
		c.latestWriteTime = c.now()
	}
	return c.client.SendCommands(deviceID, commands)
}

func (c *Connector) Devices() map[string]ally.Device {
	return c.devices
}

func (c *Connector) Authorized() bool {
	return c.authorized
}

// logPollRace leaves a diagnostic trace when a poll landed right next to a
// write, since its stale data may overwrite the written value in the UI.
func (c *Connector) logPollRace(op string) {
	sincePoll := c.now().Sub(c.latestPollTime)
	if !c.latestPollTime.IsZero() && sincePoll < pollRaceWindow {
		c.logger.Debug("poll close to write", zap.String("op", op),
			zap.Duration("since_poll", sincePoll))
	}
}
