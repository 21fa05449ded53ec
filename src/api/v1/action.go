package v1

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/xhttp"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
	"github.com/nftrade-labs/NFTradeBackend/src/service/approval"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
	types "github.com/nftrade-labs/NFTradeBackend/src/types/v1"
)

// MakeOfferHandler submits a new offer through the approval workflow.
func MakeOfferHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.MakeOfferReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if !common.IsHexAddress(req.Counterparty) {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		draft, err := buildDraft(req)
		if err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		writeOutcome(c, svcCtx.Orchestrator.Make(c.Request.Context(), draft))
	}
}

// OfferActionHandler drives accept, reject, cancel and seal for one offer.
func OfferActionHandler(svcCtx *svc.ServerCtx, action approval.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		var outcome approval.Outcome
		ctx := c.Request.Context()
		switch action {
		case approval.ActionAccept:
			outcome = svcCtx.Orchestrator.Accept(ctx, id)
		case approval.ActionReject:
			outcome = svcCtx.Orchestrator.Reject(ctx, id)
		case approval.ActionCancel:
			outcome = svcCtx.Orchestrator.Cancel(ctx, id)
		case approval.ActionSeal:
			outcome = svcCtx.Orchestrator.Seal(ctx, id)
		default:
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		writeOutcome(c, outcome)
	}
}

func writeOutcome(c *gin.Context, outcome approval.Outcome) {
	if outcome.State == approval.StateFailed {
		xhttp.Error(c, outcome.Err)
		return
	}
	xhttp.OkJson(c, types.ActionResp{
		Action: string(outcome.Action),
		State:  outcome.State.String(),
		TxHash: outcome.TxHash,
	})
}

func buildDraft(req types.MakeOfferReq) (chainclient.OfferDraft, error) {
	draft := chainclient.OfferDraft{
		Counterparty: common.HexToAddress(req.Counterparty),
	}

	var err error
	if draft.GivenNFTs, err = parseTokenIDs(req.GivenTokenIDs); err != nil {
		return chainclient.OfferDraft{}, err
	}
	if draft.RequestedNFTs, err = parseTokenIDs(req.RequestedTokenIDs); err != nil {
		return chainclient.OfferDraft{}, err
	}
	if draft.GivenAmount, err = parseOptionalAmount(req.GivenAmount); err != nil {
		return chainclient.OfferDraft{}, err
	}
	if draft.RequestedAmount, err = parseOptionalAmount(req.RequestedAmount); err != nil {
		return chainclient.OfferDraft{}, err
	}
	return draft, nil
}

func parseTokenIDs(raw []string) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(raw))
	for _, s := range raw {
		id, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, errcode.ErrInvalidParams
		}
		out = append(out, id)
	}
	return out, nil
}

func parseOptionalAmount(raw string) (*big.Int, error) {
	if raw == "" {
		return new(big.Int), nil
	}
	return model.ParseAmount(raw)
}
