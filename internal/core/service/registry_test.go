package service

import (
	"testing"

	"github.com/tbarnekov/danfoss-ally/pkg/ally"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func dev(id string) ally.Device {
	return ally.Device{ID: id, Name: "Thermostat " + id}
}

func TestRegistryFirstSyncAddsAll(t *testing.T) {

	assert := assert.New(t)

	reg := NewDeviceRegistry(zap.Must(zap.NewDevelopment()))

	added, removed := reg.Sync(map[string]ally.Device{"a": dev("a"), "b": dev("b")})
	assert.Len(added, 2)
	assert.Empty(removed)
	assert.Equal(2, reg.Len())
}

func TestRegistryRemovesExactDifference(t *testing.T) {

	assert := assert.New(t)

	reg := NewDeviceRegistry(zap.Must(zap.NewDevelopment()))
	reg.Sync(map[string]ally.Device{"a": dev("a"), "b": dev("b"), "c": dev("c")})

	added, removed := reg.Sync(map[string]ally.Device{"a": dev("a"), "c": dev("c")})
	assert.Empty(added)
	assert.Len(removed, 1)
	assert.Equal("b", removed[0].ID)
	assert.Equal(2, reg.Len())
	assert.Contains(reg.Devices(), "a")
	assert.Contains(reg.Devices(), "c")
	assert.NotContains(reg.Devices(), "b")
}

func TestRegistryAddAndRemoveTogether(t *testing.T) {

	assert := assert.New(t)

	reg := NewDeviceRegistry(zap.Must(zap.NewDevelopment()))
	reg.Sync(map[string]ally.Device{"a": dev("a")})

	added, removed := reg.Sync(map[string]ally.Device{"b": dev("b")})
	assert.Len(added, 1)
	assert.Equal("b", added[0].ID)
	assert.Len(removed, 1)
	assert.Equal("a", removed[0].ID)
}

func TestRegistryUnchangedSync(t *testing.T) {

	assert := assert.New(t)

	reg := NewDeviceRegistry(zap.Must(zap.NewDevelopment()))
	reg.Sync(map[string]ally.Device{"a": dev("a")})

	added, removed := reg.Sync(map[string]ally.Device{"a": dev("a")})
	assert.Empty(added)
	assert.Empty(removed)
}
