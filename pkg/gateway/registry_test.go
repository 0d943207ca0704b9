package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRegistry(t *testing.T) {
	t.Run("should add and retrieve clients", func(t *testing.T) {
		registry := NewClientRegistry()
		registry.Add(&Client{ID: "client-1"})

		client, exists := registry.Get("client-1")
		require.True(t, exists)
		assert.Equal(t, "client-1", client.ID)
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("should remove clients", func(t *testing.T) {
		registry := NewClientRegistry()
		registry.Add(&Client{ID: "client-1"})
		registry.Remove("client-1")

		_, exists := registry.Get("client-1")
		assert.False(t, exists)
		assert.Equal(t, 0, registry.Count())
	})

	t.Run("should list all clients", func(t *testing.T) {
		registry := NewClientRegistry()
		registry.Add(&Client{ID: "client-1"})
		registry.Add(&Client{ID: "client-2"})

		assert.Len(t, registry.GetAll(), 2)
	})
}

func TestClientRegistry_GetConnectedClients(t *testing.T) {
	registry := NewClientRegistry()
	registry.Add(&Client{
		ID:            "active",
		Authenticated: true,
		ConnectedAt:   time.Now(),
		LastActivity:  time.Now(),
		IPAddress:     "127.0.0.1:50000",
	})
	registry.Add(&Client{
		ID:           "stale",
		ConnectedAt:  time.Now().Add(-time.Hour),
		LastActivity: time.Now().Add(-10 * time.Minute),
	})

	infos := registry.GetConnectedClients()
	require.Len(t, infos, 2)

	byID := make(map[string]ClientInfo)
	for _, info := range infos {
		byID[info.ID] = info
	}

	assert.False(t, byID["active"].Idle)
	assert.True(t, byID["active"].Authenticated)
	assert.True(t, byID["stale"].Idle)
}

func TestClientRegistry_UpdateActivity(t *testing.T) {
	registry := NewClientRegistry()
	registry.Add(&Client{
		ID:           "client-1",
		LastActivity: time.Now().Add(-10 * time.Minute),
	})

	registry.UpdateActivity("client-1")

	client, _ := registry.Get("client-1")
	assert.WithinDuration(t, time.Now(), client.LastActivity, time.Second)

	// Unknown ids are ignored
	registry.UpdateActivity("missing")
}
