package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/xhttp"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
	types "github.com/nftrade-labs/NFTradeBackend/src/types/v1"
)

// PendingApprovalsHandler lists authorizations waiting on a user decision.
// Only available when auto confirm is off.
func PendingApprovalsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svcCtx.Confirmer == nil {
			xhttp.Error(c, errcode.NewCustomErr("auto confirm is enabled"))
			return
		}
		xhttp.OkJson(c, svcCtx.Confirmer.Pending())
	}
}

// ApprovalDecisionHandler approves or declines one pending authorization.
func ApprovalDecisionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svcCtx.Confirmer == nil {
			xhttp.Error(c, errcode.NewCustomErr("auto confirm is enabled"))
			return
		}
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var req types.ApprovalDecisionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := svcCtx.Confirmer.Decide(id, req.Approved); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, gin.H{"decided": true})
	}
}
