package ally

// Client is the contract for a Danfoss Ally cloud gateway client.
// The bridge treats it as a black box: authentication, HTTP transport and
// command encoding live behind this interface.
type Client interface {
	// Initialize authenticates against the cloud API using an API key/secret
	// pair. It returns false when the credentials are rejected. Transport
	// failures are returned as errors.
	Initialize(key, secret string) (bool, error)
	// GetDeviceList fetches the full device list, keyed by device id.
	GetDeviceList() (map[string]Device, error)
	SetTemperature(deviceID string, value float64, code string) error
	SetMode(deviceID string, mode string) error
	SendCommands(deviceID string, commands []Command) error
}

// Device is a vendor-owned device record. The attribute schema is whatever
// the cloud API returns, so values must be read defensively.
type Device struct {
	ID         string
	Name       string
	Model      string
	Attributes map[string]any
}

type Command struct {
	Code  string
	Value any
}

func (d Device) Float(code string) (float64, bool) {
	switch v := d.Attributes[code].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (d Device) Bool(code string) (bool, bool) {
	v, ok := d.Attributes[code].(bool)
	return v, ok
}

func (d Device) String(code string) (string, bool) {
	v, ok := d.Attributes[code].(string)
	return v, ok
}
