package v1

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/xhttp"
	"github.com/nftrade-labs/NFTradeBackend/src/service/offers"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
	types "github.com/nftrade-labs/NFTradeBackend/src/types/v1"
)

func sessionAddress(c *gin.Context, svcCtx *svc.ServerCtx) (common.Address, bool) {
	addr := c.Query("address")
	if addr != "" {
		if !common.IsHexAddress(addr) {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return common.Address{}, false
		}
		return common.HexToAddress(addr), true
	}
	sess, ok := svcCtx.Sessions.Current()
	if !ok {
		xhttp.Error(c, errcode.ErrNoSession)
		return common.Address{}, false
	}
	return sess.Address, true
}

// OffersHandler lists cached offers for one account and direction, filtered
// by the visible status set. Pass refresh=true to reconcile with the ledger
// first.
func OffersHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := sessionAddress(c, svcCtx)
		if !ok {
			return
		}

		direction := offers.DirectionReceived
		if c.DefaultQuery("direction", "received") == "made" {
			direction = offers.DirectionMade
		}

		if c.Query("refresh") == "true" {
			if err := svcCtx.OfferStore.Refetch(c.Request.Context(), account); err != nil {
				xhttp.Error(c, errcode.ErrLedger)
				return
			}
		}

		list := svcCtx.OfferStore.List(account, direction, parseStatuses(c))
		result := make([]types.OfferResp, 0, len(list))
		for _, o := range list {
			result = append(result, toOfferResp(o))
		}
		xhttp.OkJson(c, types.OffersResp{Result: result, Count: len(result)})
	}
}

// OfferRefreshHandler forces a full reconciliation of the account's cached
// offers against the ledger.
func OfferRefreshHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := sessionAddress(c, svcCtx)
		if !ok {
			return
		}
		if err := svcCtx.OfferStore.Refetch(c.Request.Context(), account); err != nil {
			xhttp.Error(c, errcode.ErrLedger)
			return
		}
		xhttp.OkJson(c, gin.H{"refreshed": true})
	}
}

func OfferDetailHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		offer, ok := svcCtx.OfferStore.Get(id)
		if !ok {
			xhttp.Error(c, errcode.ErrOfferNotFound)
			return
		}
		xhttp.OkJson(c, toOfferResp(offer))
	}
}
