package offers

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
)

// int64Capable covers wrapper types exposing a direct numeric conversion,
// *big.Int being the usual suspect.
type int64Capable interface {
	Int64() int64
}

// ToInteger is the single tolerant numeric coercion used on raw ledger
// fields. Ledger records vary across versions: numbers arrive as native ints,
// big-integer wrappers, numeric strings or floats. The conversion is total.
// Unrecognized shapes degrade to 0 and the caller filters the record out as an
// invalid placeholder rather than crashing.
func ToInteger(v interface{}) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int64Capable:
		return n.Int64()
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0
		}
		return parsed
	case decimal.Decimal:
		return n.IntPart()
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// Normalize converts a raw ledger record into the canonical Offer. It is pure
// and synchronous: given/requested NFT metadata is supplied by the caller and
// paired positionally with the raw token-id arrays; missing entries fall back
// to bare token ids. An unrecognized status becomes StatusUnknown, which stays
// outside default-visible filters.
func Normalize(raw chainclient.RawOffer, givenMeta, requestedMeta []model.NonFungible) model.Offer {
	return model.Offer{
		ID:           ToInteger(raw.OfferID),
		Initiator:    raw.Offerer,
		Counterparty: raw.Offeree,
		Given:        buildAssets(raw.OfferedNFTs, givenMeta, raw.OfferedUSDC),
		Requested:    buildAssets(raw.RequestedNFTs, requestedMeta, raw.RequestedUSDC),
		Status:       model.ParseStatus(ToInteger(raw.Status)),
	}
}

func buildAssets(tokenIDs []*big.Int, meta []model.NonFungible, amount *big.Int) []model.Asset {
	assets := make([]model.Asset, 0, len(tokenIDs)+1)
	for i, tokenID := range tokenIDs {
		if i < len(meta) {
			assets = append(assets, meta[i])
			continue
		}
		assets = append(assets, model.NonFungible{TokenID: tokenID})
	}
	fungible := model.NewFungible(amount)
	if !fungible.IsZero() {
		assets = append(assets, fungible)
	}
	return assets
}
