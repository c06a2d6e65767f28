package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

func TestConnectionManager(t *testing.T) {
	t.Run("create new connection manager", func(t *testing.T) {
		cm := NewConnectionManager()
		assert.NotNil(t, cm)
		assert.NotNil(t, cm.connections)
		assert.NotNil(t, cm.broadcast)
		assert.NotNil(t, cm.register)
		assert.NotNil(t, cm.unregister)
		assert.Equal(t, 0, cm.Count())
	})

	t.Run("register and unregister connection", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		send := make(chan entities.SessionEvent, 1)
		cm.RegisterConnection(&Connection{ID: "test-conn", Send: send})
		assert.Eventually(t, func() bool { return cm.Count() == 1 }, time.Second, 5*time.Millisecond)

		cm.Unregister("test-conn")
		assert.Eventually(t, func() bool { return cm.Count() == 0 }, time.Second, 5*time.Millisecond)

		_, open := <-send
		assert.False(t, open)
	})

	t.Run("broadcast to connections", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		receivers := make([]chan entities.SessionEvent, 3)
		for i := range receivers {
			receivers[i] = make(chan entities.SessionEvent, 1)
			cm.RegisterConnection(&Connection{ID: string(rune('a' + i)), Send: receivers[i]})
		}
		require.Eventually(t, func() bool { return cm.Count() == 3 }, time.Second, 5*time.Millisecond)

		cm.Broadcast(entities.NewSessionEvent(entities.EventTypeBanner, entities.BannerState{Visible: true, Message: "hi"}))

		for i, receiver := range receivers {
			select {
			case received := <-receiver:
				assert.Equal(t, entities.EventTypeBanner, received.Type)
			case <-time.After(time.Second):
				t.Errorf("Connection %d did not receive event", i)
			}
		}
	})

	t.Run("slow connection is dropped", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		slow := make(chan entities.SessionEvent)
		cm.RegisterConnection(&Connection{ID: "slow", Send: slow})
		require.Eventually(t, func() bool { return cm.Count() == 1 }, time.Second, 5*time.Millisecond)

		cm.Broadcast(entities.NewSessionEvent(entities.EventTypeState, nil))
		assert.Eventually(t, func() bool { return cm.Count() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("re-register replaces connection", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		first := make(chan entities.SessionEvent, 1)
		second := make(chan entities.SessionEvent, 1)
		cm.RegisterConnection(&Connection{ID: "tab", Send: first})
		cm.RegisterConnection(&Connection{ID: "tab", Send: second})

		_, open := <-first
		assert.False(t, open)
		assert.Eventually(t, func() bool { return cm.Count() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("close all connections", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		for i := 0; i < 5; i++ {
			cm.RegisterConnection(&Connection{ID: string(rune('a' + i)), Send: make(chan entities.SessionEvent, 1)})
		}
		require.Eventually(t, func() bool { return cm.Count() == 5 }, time.Second, 5*time.Millisecond)

		cm.CloseAll()
		assert.Equal(t, 0, cm.Count())
	})

	t.Run("calls after shutdown do not block", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan struct{})
		go func() {
			cm.Run(ctx)
			close(stopped)
		}()
		cancel()
		<-stopped

		send := make(chan entities.SessionEvent, 1)
		cm.RegisterConnection(&Connection{ID: "late", Send: send})
		cm.Unregister("late")
		cm.Broadcast(entities.NewSessionEvent(entities.EventTypeState, nil))

		_, open := <-send
		assert.False(t, open)
	})
}

func TestConnectionManager_SessionClosed(t *testing.T) {
	cm := NewConnectionManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cm.Run(ctx)

	send := make(chan entities.SessionEvent, 4)
	cm.RegisterConnection(&Connection{ID: "tab", Send: send})
	require.Eventually(t, func() bool { return cm.Count() == 1 }, time.Second, 5*time.Millisecond)

	cm.Broadcast(entities.NewSessionEvent(entities.EventTypeSessionClosed, nil))

	event, open := <-send
	require.True(t, open)
	assert.Equal(t, entities.EventTypeSessionClosed, event.Type)

	_, open = <-send
	assert.False(t, open, "connection closed after the notice")
	assert.Equal(t, 0, cm.Count())
}
