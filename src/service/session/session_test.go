package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyOne = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	keyTwo = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

func TestConnectAndDisconnect(t *testing.T) {
	m := NewManager()

	_, ok := m.Current()
	assert.False(t, ok)

	sess, err := m.Connect(keyOne, 1)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", sess.Address.Hex())
	assert.NotNil(t, sess.Auth())
	assert.NotEmpty(t, sess.ID)

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, sess.Address, cur.Address)

	m.Disconnect()
	_, ok = m.Current()
	assert.False(t, ok)
}

func TestReconnectGetsFreshSessionID(t *testing.T) {
	m := NewManager()

	first, err := m.Connect(keyOne, 1)
	require.NoError(t, err)
	second, err := m.Connect(keyOne, 1)
	require.NoError(t, err)

	assert.Equal(t, first.Address, second.Address)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestConnectRejectsBadKey(t *testing.T) {
	m := NewManager()
	_, err := m.Connect("not a key", 1)
	assert.Error(t, err)
}

func TestEvents(t *testing.T) {
	m := NewManager()
	ch := make(chan Event, 4)
	sub := m.Subscribe(ch)
	defer sub.Unsubscribe()

	_, err := m.Connect(keyOne, 1)
	require.NoError(t, err)
	ev := <-ch
	assert.Equal(t, AddressChanged, ev.Kind)

	// same account, different network
	_, err = m.Connect(keyOne, 5)
	require.NoError(t, err)
	ev = <-ch
	assert.Equal(t, NetworkChanged, ev.Kind)

	// different account
	_, err = m.Connect(keyTwo, 5)
	require.NoError(t, err)
	ev = <-ch
	assert.Equal(t, AddressChanged, ev.Kind)

	m.Disconnect()
	ev = <-ch
	assert.Equal(t, Disconnected, ev.Kind)
	assert.Nil(t, ev.Session)
}
