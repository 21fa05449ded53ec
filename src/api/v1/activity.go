package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/xhttp"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
	types "github.com/nftrade-labs/NFTradeBackend/src/types/v1"
)

// ActivitiesHandler pages through the confirmed-transaction journal for one
// account, newest first.
func ActivitiesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := sessionAddress(c, svcCtx)
		if !ok {
			return
		}
		page, pageSize := parsePagination(c)

		acts, total, err := svcCtx.Dao.QueryActivities(c.Request.Context(),
			account.Hex(), page, pageSize)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr("failed to query activities"))
			return
		}
		xhttp.OkJson(c, types.ActivitiesResp{Result: acts, Count: total})
	}
}
