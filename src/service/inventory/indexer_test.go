package inventory

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient/mock"
	"github.com/nftrade-labs/NFTradeBackend/src/service/metadata"
)

var (
	tradeAddr = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	owner     = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

type fakeFetcher struct {
	metas map[string]metadata.Meta
	errs  map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, uri string) (metadata.Meta, error) {
	if err, ok := f.errs[uri]; ok {
		return metadata.Meta{}, err
	}
	return f.metas[uri], nil
}

func TestListOwnedEmpty(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	ix := New(m, &fakeFetcher{}, "0xcafe")

	items, err := ix.ListOwned(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListOwnedDegradesToPlaceholder(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	m.Holdings[owner] = []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	m.TokenURIs["1"] = "ipfs://one"
	m.TokenURIs["2"] = "ipfs://two"
	m.TokenURIs["3"] = "ipfs://three"

	f := &fakeFetcher{
		metas: map[string]metadata.Meta{
			"ipfs://one":   {Name: "One", Image: "img1"},
			"ipfs://three": {Name: "Three", Image: "img3"},
		},
		errs: map[string]error{
			"ipfs://two": errors.New("gateway timeout"),
		},
	}
	ix := New(m, f, "0xcafe")

	items, err := ix.ListOwned(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// discovery order is preserved regardless of resolution order
	assert.Equal(t, "One", items[0].Name)
	assert.Equal(t, "Error: gateway timeout", items[1].Name)
	assert.Empty(t, items[1].ImageURI)
	assert.Equal(t, "Three", items[2].Name)
	assert.Equal(t, "0xcafe", items[0].CollectionAddress)
}

func TestListOwnedMissingURIPlaceholder(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	m.Holdings[owner] = []*big.Int{big.NewInt(7)}
	// no TokenURIs entry: the uri lookup itself fails

	ix := New(m, &fakeFetcher{}, "0xcafe")
	items, err := ix.ListOwned(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Name, "Error: ")
	assert.Equal(t, "7", items[0].TokenID.String())
}

func TestListOwnedCountFailureIsTotal(t *testing.T) {
	m := mock.NewMockClient(tradeAddr)
	m.HoldingCountErr = errors.New("rpc down")

	ix := New(m, &fakeFetcher{}, "0xcafe")
	items, err := ix.ListOwned(context.Background(), owner)
	require.Error(t, err)
	assert.Nil(t, items)
}
