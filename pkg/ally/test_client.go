package ally

import "sync"

func CreateTestClient() *TestClient {
	return &TestClient{
		Authorized: true,
		Devices: map[string]Device{
			"014556fffe8b3b19": {
				ID:    "014556fffe8b3b19",
				Name:  "Living Room",
				Model: "Ally Radiator Thermostat",
				Attributes: map[string]any{
					"temperature": 21.5,
					"setpoint":    22.0,
					"mode":        "manual",
					"battery":     84.0,
					"window_open": false,
					"child_lock":  false,
					"online":      true,
				},
			},
			"0045545dfe88bc41": {
				ID:    "0045545dfe88bc41",
				Name:  "Bedroom",
				Model: "Ally Radiator Thermostat",
				Attributes: map[string]any{
					"temperature": 18.2,
					"setpoint":    17.0,
					"mode":        "at_home",
					"battery":     47.0,
					"window_open": true,
					"child_lock":  true,
					"online":      true,
				},
			},
		},
	}
}

// TestClient is an in-memory gateway client used by tests and by the bridge
// simulate mode. Error fields, when set, are returned by the matching call.
type TestClient struct {
	mu sync.Mutex

	Authorized    bool
	Devices       map[string]Device
	InitializeErr error
	ListErr       error
	WriteErr      error

	InitializeCalls int
	ListCalls       int
	WriteCalls      int
	SentCommands    map[string][]Command
}

func (c *TestClient) Initialize(key, secret string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.InitializeCalls++
	if c.InitializeErr != nil {
		return false, c.InitializeErr
	}
	return c.Authorized, nil
}

func (c *TestClient) GetDeviceList() (map[string]Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ListCalls++
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	devices := make(map[string]Device, len(c.Devices))
	for id, dev := range c.Devices {
		devices[id] = dev
	}
	return devices, nil
}

func (c *TestClient) SetTemperature(deviceID string, value float64, code string) error {
	return c.write(deviceID, Command{Code: code, Value: value})
}

func (c *TestClient) SetMode(deviceID string, mode string) error {
	return c.write(deviceID, Command{Code: "mode", Value: mode})
}

func (c *TestClient) SendCommands(deviceID string, commands []Command) error {
	return c.write(deviceID, commands...)
}

func (c *TestClient) write(deviceID string, commands ...Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.WriteCalls++
	if c.WriteErr != nil {
		return c.WriteErr
	}
	if c.SentCommands == nil {
		c.SentCommands = make(map[string][]Command)
	}
	c.SentCommands[deviceID] = append(c.SentCommands[deviceID], commands...)
	return nil
}

// ensure interface compliance
var _ Client = (*TestClient)(nil)
