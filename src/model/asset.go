package model

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// StableTokenDecimals is the fixed scale of the fungible settlement token.
// Comparisons always run on raw scaled integers; division by this factor
// happens only when formatting for display.
const StableTokenDecimals = 6

// Asset is a tagged union: either a NonFungible token or a Fungible amount.
// Consumption sites switch exhaustively on the concrete type.
type Asset interface {
	assetKind() string
}

// NonFungible is a single ERC-721 token with best-effort metadata.
type NonFungible struct {
	CollectionAddress string
	TokenID           *big.Int
	Name              string
	ImageURI          string
}

func (NonFungible) assetKind() string { return "non_fungible" }

// Fungible is a non-negative stable-token amount in raw 6-decimal units.
type Fungible struct {
	Amount   *big.Int
	Decimals int32
}

func (Fungible) assetKind() string { return "fungible" }

// NewFungible builds a Fungible at the standard scale. A nil amount is
// normalized to zero.
func NewFungible(amount *big.Int) Fungible {
	if amount == nil {
		amount = new(big.Int)
	}
	return Fungible{Amount: amount, Decimals: StableTokenDecimals}
}

// IsZero reports whether the fungible amount is zero.
func (f Fungible) IsZero() bool {
	return f.Amount == nil || f.Amount.Sign() == 0
}

// FormatAsset renders an asset for display. This is the only place raw
// fungible units are divided down to a human amount.
func FormatAsset(a Asset) string {
	switch at := a.(type) {
	case NonFungible:
		if at.Name != "" {
			return at.Name
		}
		return fmt.Sprintf("NFT #%s", at.TokenID.String())
	case Fungible:
		return FormatAmount(at.Amount) + " USDC"
	default:
		return "unknown asset"
	}
}

// FormatAmount converts raw 6-decimal units into a display string.
func FormatAmount(raw *big.Int) string {
	if raw == nil {
		raw = new(big.Int)
	}
	return decimal.NewFromBigInt(raw, -StableTokenDecimals).String()
}

// ParseAmount converts a display amount like "50.0" into raw 6-decimal units.
func ParseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %s", s)
	}
	return d.Shift(StableTokenDecimals).BigInt(), nil
}
