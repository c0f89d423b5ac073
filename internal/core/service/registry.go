package service

import (
	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"go.uber.org/zap"
)

// DeviceRegistry tracks the devices currently known to the bridge. It is
// owned by the poll actor, which syncs it after every successful poll.
type DeviceRegistry struct {
	devices map[string]ally.Device
	logger  *zap.Logger
}

func NewDeviceRegistry(logger *zap.Logger) *DeviceRegistry {
	return &DeviceRegistry{
		devices: make(map[string]ally.Device),
		logger:  logger,
	}
}

// Sync replaces the registry snapshot with the latest device list and
// returns the devices that appeared and those no longer reported. Removed is
// exactly the set difference of known ids minus current ids.
func (r *DeviceRegistry) Sync(current map[string]ally.Device) (added, removed []ally.Device) {
	for id, dev := range current {
		if _, known := r.devices[id]; !known {
			added = append(added, dev)
		}
	}
	for id, dev := range r.devices {
		if _, present := current[id]; !present {
			r.logger.Warn("removing device", zap.String("id", id), zap.String("name", dev.Name))
			removed = append(removed, dev)
		}
	}
	snapshot := make(map[string]ally.Device, len(current))
	for id, dev := range current {
		snapshot[id] = dev
	}
	r.devices = snapshot
	return added, removed
}

func (r *DeviceRegistry) Devices() map[string]ally.Device {
	return r.devices
}

func (r *DeviceRegistry) Len() int {
	return len(r.devices)
}
