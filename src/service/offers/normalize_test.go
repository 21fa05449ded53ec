package offers

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
)

func TestToInteger(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want int64
	}{
		{"nil", nil, 0},
		{"big int", big.NewInt(42), 42},
		{"json number", json.Number("17"), 17},
		{"json number garbage", json.Number("x"), 0},
		{"decimal", decimal.NewFromInt(9), 9},
		{"string", "123", 123},
		{"string padded", "  123 ", 123},
		{"string garbage", "abc", 0},
		{"int", 5, 5},
		{"uint64", uint64(8), 8},
		{"float64", float64(3.9), 3},
		{"unsupported", struct{}{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToInteger(tc.in))
		})
	}
}

func TestNormalizePairsMetadataPositionally(t *testing.T) {
	raw := chainclient.RawOffer{
		OfferID:       big.NewInt(7),
		Offerer:       "0x1111111111111111111111111111111111111111",
		Offeree:       "0x2222222222222222222222222222222222222222",
		OfferedNFTs:   []*big.Int{big.NewInt(100), big.NewInt(101)},
		OfferedUSDC:   big.NewInt(0),
		RequestedNFTs: nil,
		RequestedUSDC: big.NewInt(50_000000),
		Status:        uint8(0),
	}
	givenMeta := []model.NonFungible{
		{TokenID: big.NewInt(100), Name: "Ape #100"},
	}

	offer := Normalize(raw, givenMeta, nil)

	require.Equal(t, int64(7), offer.ID)
	assert.Equal(t, model.StatusPending, offer.Status)

	nfts := offer.GivenNFTs()
	require.Len(t, nfts, 2)
	assert.Equal(t, "Ape #100", nfts[0].Name)
	// second entry had no metadata, falls back to the bare token id
	assert.Empty(t, nfts[1].Name)
	assert.Equal(t, "101", nfts[1].TokenID.String())

	// zero offered amount must not produce a fungible entry
	assert.Equal(t, int64(0), offer.GivenAmount().Int64())
	assert.Equal(t, int64(50_000000), offer.RequestedAmount().Int64())
}

func TestNormalizeUnknownStatus(t *testing.T) {
	raw := chainclient.RawOffer{
		OfferID: big.NewInt(3),
		Status:  int64(99),
	}
	offer := Normalize(raw, nil, nil)
	assert.Equal(t, model.StatusUnknown, offer.Status)
	assert.False(t, model.DefaultVisibleStatuses()[offer.Status])
}
