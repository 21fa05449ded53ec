package v1

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nftrade-labs/NFTradeBackend/src/common/utils"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
	types "github.com/nftrade-labs/NFTradeBackend/src/types/v1"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// shortAddress renders 0x1234...abcd for display.
func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = utils.Min(pageSize, maxPageSize)
	return page, pageSize
}

// parseStatuses reads the comma separated status query, e.g. "0,1". An empty
// value keeps the default visible set.
func parseStatuses(c *gin.Context) map[model.OfferStatus]bool {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	visible := make(map[model.OfferStatus]bool)
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		if st := model.ParseStatus(v); st != model.StatusUnknown {
			visible[st] = true
		}
	}
	if len(visible) == 0 {
		return nil
	}
	return visible
}

func toInventoryItem(n model.NonFungible) types.InventoryItem {
	return types.InventoryItem{
		CollectionAddress: n.CollectionAddress,
		TokenID:           n.TokenID.String(),
		Name:              n.Name,
		Image:             n.ImageURI,
	}
}

func toOfferSide(assets []model.Asset) types.OfferSide {
	side := types.OfferSide{NFTs: []types.InventoryItem{}}
	for _, a := range assets {
		switch at := a.(type) {
		case model.NonFungible:
			side.NFTs = append(side.NFTs, toInventoryItem(at))
		case model.Fungible:
			side.Amount = model.FormatAmount(at.Amount)
		}
	}
	return side
}

func toOfferResp(o model.Offer) types.OfferResp {
	return types.OfferResp{
		ID:                o.ID,
		Initiator:         o.Initiator,
		ShortInitiator:    shortAddress(o.Initiator),
		Counterparty:      o.Counterparty,
		ShortCounterparty: shortAddress(o.Counterparty),
		Status:            o.Status.String(),
		StatusCode:        int(o.Status),
		Given:             toOfferSide(o.Given),
		Requested:         toOfferSide(o.Requested),
	}
}
