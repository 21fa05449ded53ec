package mock

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
)

// MockClient implements chainclient.Client on an in-memory ledger. Tests seed
// holdings, approvals and offers directly and inspect the recorded calls.
type MockClient struct {
	mu sync.Mutex

	TradeAddr common.Address

	Holdings   map[common.Address][]*big.Int    // owner -> ordered token ids
	TokenURIs  map[string]string                // token id -> metadata uri
	Operators  map[string]common.Address        // token id -> approved operator
	Allowances map[common.Address]*big.Int      // owner -> allowance to trade contract
	Offers     map[int64]chainclient.RawOffer   // offer id -> raw record
	Initiated  map[common.Address][]*big.Int    // owner -> offer ids
	Received   map[common.Address][]*big.Int    // owner -> offer ids

	// Submitted records every write in submission order, e.g.
	// "approve_nft:100", "approve_usdc:50000000", "acceptOffer:7".
	Submitted []string

	// Confirmed records every AwaitConfirmation call in order.
	Confirmed []string

	// FailSubmission maps a call label to an error returned at submit time.
	FailSubmission map[string]error
	// FailConfirmation maps a tx hash to an error returned while awaiting.
	FailConfirmation map[string]error
	// HoldingCountErr, when set, fails the holdings enumeration outright.
	HoldingCountErr error

	txSeq int
}

// NewMockClient returns an empty ledger with the given trade contract address.
func NewMockClient(tradeAddr common.Address) *MockClient {
	return &MockClient{
		TradeAddr:        tradeAddr,
		Holdings:         make(map[common.Address][]*big.Int),
		TokenURIs:        make(map[string]string),
		Operators:        make(map[string]common.Address),
		Allowances:       make(map[common.Address]*big.Int),
		Offers:           make(map[int64]chainclient.RawOffer),
		Initiated:        make(map[common.Address][]*big.Int),
		Received:         make(map[common.Address][]*big.Int),
		FailSubmission:   make(map[string]error),
		FailConfirmation: make(map[string]error),
	}
}

func (m *MockClient) TradeContract() common.Address { return m.TradeAddr }

func (m *MockClient) HoldingCount(_ context.Context, owner common.Address) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HoldingCountErr != nil {
		return nil, m.HoldingCountErr
	}
	return big.NewInt(int64(len(m.Holdings[owner]))), nil
}

func (m *MockClient) HoldingAt(_ context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens := m.Holdings[owner]
	i := int(index.Int64())
	if i < 0 || i >= len(tokens) {
		return nil, errors.Errorf("holding index out of range: %d", i)
	}
	return tokens[i], nil
}

func (m *MockClient) TokenMetadataURI(_ context.Context, tokenID *big.Int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uri, ok := m.TokenURIs[tokenID.String()]
	if !ok {
		return "", errors.Errorf("no metadata uri for token %s", tokenID)
	}
	return uri, nil
}

func (m *MockClient) Operator(_ context.Context, tokenID *big.Int) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Operators[tokenID.String()], nil
}

func (m *MockClient) SetOperator(_ context.Context, _ *bind.TransactOpts, tokenID *big.Int, spender common.Address) (chainclient.TxHandle, error) {
	return m.submit(fmt.Sprintf("approve_nft:%s", tokenID), func() {
		m.Operators[tokenID.String()] = spender
	})
}

func (m *MockClient) Allowance(_ context.Context, owner, _ common.Address) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Allowances[owner]; ok {
		return new(big.Int).Set(a), nil
	}
	return new(big.Int), nil
}

func (m *MockClient) SetAllowance(_ context.Context, auth *bind.TransactOpts, _ common.Address, amount *big.Int) (chainclient.TxHandle, error) {
	owner := common.Address{}
	if auth != nil {
		owner = auth.From
	}
	return m.submit(fmt.Sprintf("approve_usdc:%s", amount), func() {
		m.Allowances[owner] = new(big.Int).Set(amount)
	})
}

func (m *MockClient) OffersInitiatedBy(_ context.Context, owner common.Address) ([]*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*big.Int(nil), m.Initiated[owner]...), nil
}

func (m *MockClient) OffersReceivedBy(_ context.Context, owner common.Address) ([]*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*big.Int(nil), m.Received[owner]...), nil
}

func (m *MockClient) GetOffer(_ context.Context, id *big.Int) (chainclient.RawOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Offers[id.Int64()]
	if !ok {
		return chainclient.RawOffer{}, errors.Errorf("no offer %s", id)
	}
	return raw, nil
}

func (m *MockClient) CreateOffer(_ context.Context, _ *bind.TransactOpts, draft chainclient.OfferDraft) (chainclient.TxHandle, error) {
	return m.submit(fmt.Sprintf("makeOffer:%s", draft.Counterparty.Hex()), nil)
}

func (m *MockClient) AcceptOffer(_ context.Context, _ *bind.TransactOpts, id *big.Int) (chainclient.TxHandle, error) {
	return m.submit(fmt.Sprintf("acceptOffer:%s", id), nil)
}

func (m *MockClient) RejectOffer(_ context.Context, _ *bind.TransactOpts, id *big.Int) (chainclient.TxHandle, error) {
	return m.submit(fmt.Sprintf("rejectOffer:%s", id), nil)
}

func (m *MockClient) CancelOffer(_ context.Context, _ *bind.TransactOpts, id *big.Int) (chainclient.TxHandle, error) {
	return m.submit(fmt.Sprintf("cancelOffer:%s", id), nil)
}

func (m *MockClient) SealOffer(_ context.Context, _ *bind.TransactOpts, id *big.Int) (chainclient.TxHandle, error) {
	return m.submit(fmt.Sprintf("sealOffer:%s", id), nil)
}

func (m *MockClient) AwaitConfirmation(_ context.Context, handle chainclient.TxHandle) (chainclient.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Confirmed = append(m.Confirmed, handle.Hash)
	if err, ok := m.FailConfirmation[handle.Hash]; ok {
		return chainclient.Receipt{}, err
	}
	return chainclient.Receipt{TxHash: handle.Hash, BlockNumber: uint64(len(m.Confirmed))}, nil
}

// submit records the call, applies its ledger effect and returns a handle
// whose hash doubles as the call label for assertions.
func (m *MockClient) submit(label string, apply func()) (chainclient.TxHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailSubmission[label]; ok {
		return chainclient.TxHandle{}, err
	}
	m.Submitted = append(m.Submitted, label)
	if apply != nil {
		apply()
	}
	m.txSeq++
	return chainclient.HandleWithHash(fmt.Sprintf("%s#%d", label, m.txSeq)), nil
}
