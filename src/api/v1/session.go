package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/threading"

	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/xhttp"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
	types "github.com/nftrade-labs/NFTradeBackend/src/types/v1"
)

// SessionConnectHandler activates a signing session and warms the offer
// cache for the connected address in the background.
func SessionConnectHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SessionConnectReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		sess, err := svcCtx.Sessions.Connect(req.PrivateKey, req.ChainID)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		addr := sess.Address
		threading.GoSafe(func() {
			_ = svcCtx.OfferStore.Refetch(context.Background(), addr)
		})

		xhttp.OkJson(c, types.SessionResp{
			SessionID:    sess.ID,
			Address:      sess.Address.Hex(),
			ShortAddress: shortAddress(sess.Address.Hex()),
			ChainID:      sess.ChainID,
		})
	}
}

func SessionDisconnectHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		svcCtx.Sessions.Disconnect()
		xhttp.OkJson(c, gin.H{"disconnected": true})
	}
}

func SessionCurrentHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := svcCtx.Sessions.Current()
		if !ok {
			xhttp.Error(c, errcode.ErrNoSession)
			return
		}
		xhttp.OkJson(c, types.SessionResp{
			SessionID:    sess.ID,
			Address:      sess.Address.Hex(),
			ShortAddress: shortAddress(sess.Address.Hex()),
			ChainID:      sess.ChainID,
		})
	}
}
