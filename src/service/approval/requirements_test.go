package approval

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftrade-labs/NFTradeBackend/src/model"
)

func TestRequirementDescribe(t *testing.T) {
	nft := Requirement{
		Asset:   model.NonFungible{TokenID: big.NewInt(100)},
		Spender: tradeAddr,
	}
	assert.Contains(t, nft.Describe(), "transfer NFT #100")
	assert.Contains(t, nft.Describe(), tradeAddr.Hex())

	usdc := Requirement{
		Asset:   model.NewFungible(big.NewInt(50_000000)),
		Spender: tradeAddr,
	}
	assert.Contains(t, usdc.Describe(), "spend 50 USDC")
}

func TestComputeRequirementsOnlyUnmet(t *testing.T) {
	h := newHarness(t, nil)
	m := h.client

	// token 1 already approved, token 2 not; allowance covers half the amount
	m.Operators["1"] = tradeAddr
	m.Allowances[initiatorAddr] = big.NewInt(10_000000)

	stake := []model.Asset{
		model.NonFungible{TokenID: big.NewInt(1)},
		model.NonFungible{TokenID: big.NewInt(2)},
		model.NewFungible(big.NewInt(20_000000)),
	}
	reqs, err := h.orch.ComputeRequirements(context.Background(), initiatorAddr, stake)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	first, ok := reqs[0].Asset.(model.NonFungible)
	require.True(t, ok)
	assert.Equal(t, "2", first.TokenID.String())

	second, ok := reqs[1].Asset.(model.Fungible)
	require.True(t, ok)
	assert.Equal(t, int64(20_000000), second.Amount.Int64())
}

func TestComputeRequirementsSkipsZeroAmount(t *testing.T) {
	h := newHarness(t, nil)
	reqs, err := h.orch.ComputeRequirements(context.Background(), initiatorAddr,
		[]model.Asset{model.NewFungible(nil)})
	require.NoError(t, err)
	assert.Empty(t, reqs)
}
