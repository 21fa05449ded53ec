package offers

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient/mock"
	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
	"github.com/nftrade-labs/NFTradeBackend/src/service/inventory"
	"github.com/nftrade-labs/NFTradeBackend/src/service/metadata"
)

var (
	tradeAddr = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob       = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, _ string) (metadata.Meta, error) {
	return metadata.Meta{Name: "stub"}, nil
}

func seedOffer(m *mock.MockClient, id int64, status interface{}) {
	m.Offers[id] = chainclient.RawOffer{
		OfferID:       big.NewInt(id),
		Offerer:       alice.Hex(),
		Offeree:       bob.Hex(),
		RequestedUSDC: big.NewInt(25_000000),
		Status:        status,
	}
}

func newTestStore(m *mock.MockClient) *Store {
	ix := inventory.New(m, stubFetcher{}, "0xcafe")
	return NewStore(m, ix)
}

func TestRefetchAndList(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	seedOffer(m, 1, uint8(0)) // pending
	seedOffer(m, 2, uint8(4)) // completed
	seedOffer(m, 3, uint8(2)) // rejected
	m.Initiated[alice] = []*big.Int{big.NewInt(1), big.NewInt(2)}
	m.Received[alice] = []*big.Int{big.NewInt(3)}

	s := newTestStore(m)
	require.NoError(t, s.Refetch(context.Background(), alice))

	made := s.List(alice, DirectionMade, nil)
	require.Len(t, made, 1) // completed is hidden by default
	assert.Equal(t, int64(1), made[0].ID)

	received := s.List(alice, DirectionReceived, nil)
	require.Len(t, received, 1)
	assert.Equal(t, model.StatusRejected, received[0].Status)

	// explicit filter surfaces the completed offer
	all := s.List(alice, DirectionMade, map[model.OfferStatus]bool{
		model.StatusPending:   true,
		model.StatusCompleted: true,
	})
	assert.Len(t, all, 2)
}

func TestRefetchSkipsUnreadableRecords(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	seedOffer(m, 1, uint8(0))
	// id 2 is listed but has no readable record; GetOffer fails for it
	m.Initiated[alice] = []*big.Int{big.NewInt(1), big.NewInt(2)}

	s := newTestStore(m)
	require.NoError(t, s.Refetch(context.Background(), alice))

	made := s.List(alice, DirectionMade, nil)
	require.Len(t, made, 1)
	assert.Equal(t, int64(1), made[0].ID)
}

func TestRefetchSkipsDeletedSlots(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	m.Offers[0] = chainclient.RawOffer{OfferID: big.NewInt(0), Status: uint8(0)}
	seedOffer(m, 5, uint8(0))
	m.Initiated[alice] = []*big.Int{big.NewInt(0), big.NewInt(5)}

	s := newTestStore(m)
	require.NoError(t, s.Refetch(context.Background(), alice))

	made := s.List(alice, DirectionMade, nil)
	require.Len(t, made, 1)
	assert.Equal(t, int64(5), made[0].ID)
}

func TestApplyLocalTransition(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	seedOffer(m, 1, uint8(0))
	m.Initiated[alice] = []*big.Int{big.NewInt(1)}

	s := newTestStore(m)
	require.NoError(t, s.Refetch(context.Background(), alice))

	require.NoError(t, s.ApplyLocalTransition(1, model.StatusAccepted))
	offer, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, model.StatusAccepted, offer.Status)

	// accepted can only complete
	assert.ErrorIs(t, s.ApplyLocalTransition(1, model.StatusCanceled), errcode.ErrOfferTerminal)

	require.NoError(t, s.ApplyLocalTransition(1, model.StatusCompleted))
	assert.ErrorIs(t, s.ApplyLocalTransition(1, model.StatusAccepted), errcode.ErrOfferTerminal)

	assert.ErrorIs(t, s.ApplyLocalTransition(404, model.StatusAccepted), errcode.ErrOfferNotFound)
}

func TestRemoveRejectedIsLocal(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	seedOffer(m, 1, uint8(0))
	seedOffer(m, 2, uint8(0))
	m.Received[bob] = []*big.Int{big.NewInt(1), big.NewInt(2)}

	s := newTestStore(m)
	require.NoError(t, s.Refetch(context.Background(), bob))

	s.RemoveRejected(1)

	received := s.List(bob, DirectionReceived, nil)
	require.Len(t, received, 1)
	assert.Equal(t, int64(2), received[0].ID)

	_, ok := s.Get(1)
	assert.False(t, ok)
}

func TestResetClearsEverything(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	seedOffer(m, 1, uint8(0))
	m.Initiated[alice] = []*big.Int{big.NewInt(1)}

	s := newTestStore(m)
	require.NoError(t, s.Refetch(context.Background(), alice))
	s.SetInventory(alice, []model.NonFungible{{TokenID: big.NewInt(9)}})

	s.Reset()

	assert.Empty(t, s.List(alice, DirectionMade, nil))
	_, ok := s.Inventory(alice)
	assert.False(t, ok)
}
