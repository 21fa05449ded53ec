package v1

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/xhttp"
	"github.com/nftrade-labs/NFTradeBackend/src/common/utils"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
	types "github.com/nftrade-labs/NFTradeBackend/src/types/v1"
)

// InventoryHandler enumerates the NFTs owned by an address, with optional
// name search and pagination. Defaults to the session address.
func InventoryHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.Query("address")
		if addr == "" {
			sess, ok := svcCtx.Sessions.Current()
			if !ok {
				xhttp.Error(c, errcode.ErrNoSession)
				return
			}
			addr = sess.Address.Hex()
		}
		if !common.IsHexAddress(addr) {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		owner := common.HexToAddress(addr)

		items, err := svcCtx.Indexer.ListOwned(c.Request.Context(), owner)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr("failed to enumerate holdings"))
			return
		}
		svcCtx.OfferStore.SetInventory(owner, items)

		if search := strings.ToLower(c.Query("search")); search != "" {
			filtered := make([]model.NonFungible, 0, len(items))
			for _, it := range items {
				if strings.Contains(strings.ToLower(it.Name), search) ||
					it.TokenID.String() == search {
					filtered = append(filtered, it)
				}
			}
			items = filtered
		}

		page, pageSize := parsePagination(c)
		total := len(items)
		start := utils.Min((page-1)*pageSize, total)
		end := utils.Min(start+pageSize, total)

		result := make([]types.InventoryItem, 0, end-start)
		for _, it := range items[start:end] {
			result = append(result, toInventoryItem(it))
		}
		xhttp.OkJson(c, types.InventoryResp{Result: result, Count: total})
	}
}
