package session

import (
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// EventKind classifies session lifecycle events.
type EventKind int

const (
	AddressChanged EventKind = iota
	NetworkChanged
	Disconnected
)

// Event is delivered to subscribers whenever the active session changes.
type Event struct {
	Kind    EventKind
	Session *Session // nil on Disconnected
}

// Session is the signing identity every component receives explicitly:
// created on connect, replaced on account or network change, cleared on
// disconnect. Never ambient.
type Session struct {
	// ID identifies one connect; a reconnect of the same address gets a
	// fresh one, so logs and API clients can tell the sessions apart.
	ID      string
	Address common.Address
	ChainID int64

	auth *bind.TransactOpts
}

// Auth returns the transact opts bound to this session's key.
func (s *Session) Auth() *bind.TransactOpts { return s.auth }

// Manager owns the current session and fans change events out to
// subscribers.
type Manager struct {
	mu   sync.RWMutex
	cur  *Session
	feed event.Feed
}

func NewManager() *Manager {
	return &Manager{}
}

// Connect derives a session from a hex private key. An existing session is
// replaced; subscribers see AddressChanged or NetworkChanged accordingly.
func (m *Manager) Connect(privateKeyHex string, chainID int64) (*Session, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed on parse signer key")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
	if err != nil {
		return nil, errors.Wrap(err, "failed on build transactor")
	}

	next := &Session{
		ID:      uuid.NewString(),
		Address: crypto.PubkeyToAddress(*key.Public().(*ecdsa.PublicKey)),
		ChainID: chainID,
		auth:    auth,
	}

	m.mu.Lock()
	prev := m.cur
	m.cur = next
	m.mu.Unlock()

	switch {
	case prev == nil || prev.Address != next.Address:
		m.feed.Send(Event{Kind: AddressChanged, Session: next})
	case prev.ChainID != next.ChainID:
		m.feed.Send(Event{Kind: NetworkChanged, Session: next})
	}
	return next, nil
}

// Disconnect clears the session.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	had := m.cur != nil
	m.cur = nil
	m.mu.Unlock()
	if had {
		m.feed.Send(Event{Kind: Disconnected})
	}
}

// Current returns the active session, or false when disconnected.
func (m *Manager) Current() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cur == nil {
		return nil, false
	}
	return m.cur, true
}

// Subscribe registers ch for session events.
func (m *Manager) Subscribe(ch chan<- Event) event.Subscription {
	return m.feed.Subscribe(ch)
}
