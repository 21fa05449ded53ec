package model

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50", FormatAmount(big.NewInt(50_000000)))
	assert.Equal(t, "0.5", FormatAmount(big.NewInt(500000)))
	assert.Equal(t, "0.000001", FormatAmount(big.NewInt(1)))
	assert.Equal(t, "0", FormatAmount(nil))
}

func TestParseAmount(t *testing.T) {
	raw, err := ParseAmount("25.5")
	require.NoError(t, err)
	assert.Equal(t, int64(25_500000), raw.Int64())

	raw, err = ParseAmount("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), raw.Int64())

	_, err = ParseAmount("-1")
	assert.Error(t, err)

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}

func TestFormatAsset(t *testing.T) {
	named := NonFungible{TokenID: big.NewInt(7), Name: "Ape #7"}
	assert.Equal(t, "Ape #7", FormatAsset(named))

	bare := NonFungible{TokenID: big.NewInt(7)}
	assert.Equal(t, "NFT #7", FormatAsset(bare))

	assert.Equal(t, "50 USDC", FormatAsset(NewFungible(big.NewInt(50_000000))))
}

func TestNewFungibleNormalizesNil(t *testing.T) {
	f := NewFungible(nil)
	require.NotNil(t, f.Amount)
	assert.True(t, f.IsZero())
	assert.EqualValues(t, StableTokenDecimals, f.Decimals)
}
