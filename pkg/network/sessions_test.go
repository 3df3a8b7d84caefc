package network

import (
	"sync"
	"testing"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_Open_unknownToken(t *testing.T) {
	sm := NewSessionManager()

	ch, err := sm.Open("missing")

	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Nil(t, ch)
}

func TestSessionManager_GetSession(t *testing.T) {
	sm := NewSessionManager()
	sm.RegisterOrSupersede("token-1", 5)

	session, ok := sm.GetSession("token-1")
	require.True(t, ok)
	assert.Equal(t, types.UserID(5), session.UserID)
	assert.Nil(t, session.Channel)

	_, ok = sm.GetSession("token-2")
	assert.False(t, ok)
}

func TestSessionManager_Deliver(t *testing.T) {
	sm := NewSessionManager()
	sm.RegisterOrSupersede("a", 1)
	sm.RegisterOrSupersede("b", 1)
	sm.RegisterOrSupersede("c", 2)
	sm.RegisterOrSupersede("d", 1) // never attached

	chA, err := sm.Open("a")
	require.NoError(t, err)
	chB, err := sm.Open("b")
	require.NoError(t, err)
	chC, err := sm.Open("c")
	require.NoError(t, err)

	delivered := sm.Deliver(1, messages.NewHelloClient())

	assert.Equal(t, 2, delivered)
	assert.Equal(t, messages.NewAppEnvelope(messages.NewHelloClient()), <-chA)
	assert.Equal(t, messages.NewAppEnvelope(messages.NewHelloClient()), <-chB)
	assert.Empty(t, chC)

	assert.Zero(t, sm.Deliver(3, messages.NewHelloClient()))
}

func TestSessionManager_Deliver_fullChannelDrops(t *testing.T) {
	sm := NewSessionManager()
	sm.RegisterOrSupersede("a", 1)
	ch, err := sm.Open("a")
	require.NoError(t, err)

	for i := 0; i < SessionChannelSize; i++ {
		require.Equal(t, 1, sm.Deliver(1, messages.NewHelloClient()))
	}

	assert.Zero(t, sm.Deliver(1, messages.NewHelloClient()))
	assert.Len(t, ch, SessionChannelSize)
}

func TestSessionManager_AttachChannel_supersedes(t *testing.T) {
	sm := NewSessionManager()
	sm.RegisterOrSupersede("a", 1)

	first, err := sm.Open("a")
	require.NoError(t, err)
	second, err := sm.Open("a")
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.True(t, (<-first).IsSuperseded())

	sm.Deliver(1, messages.NewHelloClient())
	assert.Empty(t, first)
	assert.Len(t, second, 1)

	// the old stream detaching must not clear the new channel
	sm.DetachChannel("a", first)
	session, _ := sm.GetSession("a")
	assert.Equal(t, second, session.Channel)

	sm.DetachChannel("a", second)
	session, _ = sm.GetSession("a")
	assert.Nil(t, session.Channel)
}

func TestSessionManager_AttachChannel_supersedesFullChannel(t *testing.T) {
	sm := NewSessionManager()
	sm.RegisterOrSupersede("a", 1)
	first, err := sm.Open("a")
	require.NoError(t, err)
	for i := 0; i < SessionChannelSize; i++ {
		sm.Deliver(1, messages.NewHelloClient())
	}

	_, err = sm.Open("a")
	require.NoError(t, err)

	var last messages.Envelope
	for len(first) > 0 {
		last = <-first
	}
	assert.True(t, last.IsSuperseded())
}

func TestSessionManager_RegisterOrSupersede_sameToken(t *testing.T) {
	sm := NewSessionManager()
	sm.RegisterOrSupersede("a", 1)
	ch, err := sm.Open("a")
	require.NoError(t, err)

	sm.RegisterOrSupersede("a", 2)

	assert.True(t, (<-ch).IsSuperseded())
	session, ok := sm.GetSession("a")
	require.True(t, ok)
	assert.Equal(t, types.UserID(2), session.UserID)
	assert.Nil(t, session.Channel)
}

func TestSessionManager_concurrentAttachAndDeliver(t *testing.T) {
	sm := NewSessionManager()
	sm.RegisterOrSupersede("a", 1)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch, err := sm.Open("a")
			assert.NoError(t, err)
			sm.DetachChannel("a", ch)
		}()
		go func() {
			defer wg.Done()
			sm.Deliver(1, messages.NewHelloClient())
		}()
	}
	wg.Wait()
}

func TestNewToken(t *testing.T) {
	assert.NotEqual(t, NewToken(), NewToken())
	assert.Len(t, NewToken(), 36)
}
