package domain

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	DeviceId          string
	Attr              string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement, duration, total_increasing
	DeviceClass       string // temperature, battery, window, connectivity
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
}

type GenericSwitch struct {
	Device   Device
	DeviceId string
	Attr     string
	Name     string
	UniqueId string
	Icon     string
}

type GenericSelect struct {
	Device   Device
	DeviceId string
	Attr     string
	Name     string
	UniqueId string
	Icon     string
	Options  []string
}

type GenericClimate struct {
	Device   Device
	DeviceId string
	Name     string
	UniqueId string
	Icon     string
	MinTemp  float64
	MaxTemp  float64
	TempStep float64
	Modes    []string
}
