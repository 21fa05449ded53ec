package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient/mock"
	"github.com/nftrade-labs/NFTradeBackend/src/service/approval"
	"github.com/nftrade-labs/NFTradeBackend/src/service/inventory"
	"github.com/nftrade-labs/NFTradeBackend/src/service/metadata"
	"github.com/nftrade-labs/NFTradeBackend/src/service/offers"
	"github.com/nftrade-labs/NFTradeBackend/src/service/session"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
)

const counterpartyKey = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

var (
	tradeAddr       = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	initiatorAddr   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	counterpartAddr = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, _ string) (metadata.Meta, error) {
	return metadata.Meta{Name: "stub", Image: "img"}, nil
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestCtx(t *testing.T) (*svc.ServerCtx, *mock.MockClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := mock.NewMockClient(tradeAddr)
	ix := inventory.New(m, stubFetcher{}, "0xcafe")
	store := offers.NewStore(m, ix)
	sessions := session.NewManager()
	orch := approval.New(m, store, sessions, approval.AutoConfirmer{}, nil)

	return &svc.ServerCtx{
		ChainClient:  m,
		Sessions:     sessions,
		Indexer:      ix,
		OfferStore:   store,
		Orchestrator: orch,
	}, m
}

func doRequest(r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestInventoryHandler(t *testing.T) {
	svcCtx, m := newTestCtx(t)
	m.Holdings[counterpartAddr] = []*big.Int{big.NewInt(1), big.NewInt(2)}
	m.TokenURIs["1"] = "ipfs://one"
	m.TokenURIs["2"] = "ipfs://two"

	r := gin.New()
	r.GET("/inventory", InventoryHandler(svcCtx))

	w, env := doRequest(r, http.MethodGet, "/inventory?address="+counterpartAddr.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 200, env.Code)

	var resp struct {
		Result []struct {
			TokenID string `json:"token_id"`
			Name    string `json:"name"`
		} `json:"result"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Result, 2)
	assert.Equal(t, "1", resp.Result[0].TokenID)
	assert.Equal(t, "stub", resp.Result[0].Name)
}

func TestInventoryHandlerRejectsBadAddress(t *testing.T) {
	svcCtx, _ := newTestCtx(t)
	r := gin.New()
	r.GET("/inventory", InventoryHandler(svcCtx))

	_, env := doRequest(r, http.MethodGet, "/inventory?address=nonsense", nil)
	assert.Equal(t, 7001, env.Code)
}

func TestOffersHandlerNeedsSession(t *testing.T) {
	svcCtx, _ := newTestCtx(t)
	r := gin.New()
	r.GET("/offers", OffersHandler(svcCtx))

	_, env := doRequest(r, http.MethodGet, "/offers", nil)
	assert.Equal(t, 7002, env.Code)
}

func TestOffersHandlerListsReceived(t *testing.T) {
	svcCtx, m := newTestCtx(t)
	m.Offers[7] = chainclient.RawOffer{
		OfferID:       big.NewInt(7),
		Offerer:       initiatorAddr.Hex(),
		Offeree:       counterpartAddr.Hex(),
		RequestedUSDC: big.NewInt(50_000000),
		Status:        uint8(0),
	}
	m.Received[counterpartAddr] = []*big.Int{big.NewInt(7)}

	_, err := svcCtx.Sessions.Connect(counterpartyKey, 1)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/offers", OffersHandler(svcCtx))

	_, env := doRequest(r, http.MethodGet, "/offers?direction=received&refresh=true", nil)
	require.Equal(t, 200, env.Code)

	var resp struct {
		Result []struct {
			ID        int64  `json:"id"`
			Status    string `json:"status"`
			Requested struct {
				Amount string `json:"amount"`
			} `json:"requested"`
		} `json:"result"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, int64(7), resp.Result[0].ID)
	assert.Equal(t, "pending", resp.Result[0].Status)
	assert.Equal(t, "50", resp.Result[0].Requested.Amount)
}

func TestAcceptActionEndToEnd(t *testing.T) {
	svcCtx, m := newTestCtx(t)
	m.Offers[7] = chainclient.RawOffer{
		OfferID:       big.NewInt(7),
		Offerer:       initiatorAddr.Hex(),
		Offeree:       counterpartAddr.Hex(),
		RequestedUSDC: big.NewInt(50_000000),
		Status:        uint8(0),
	}

	_, err := svcCtx.Sessions.Connect(counterpartyKey, 1)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/offers/:id/accept", OfferActionHandler(svcCtx, approval.ActionAccept))

	_, env := doRequest(r, http.MethodPost, "/offers/7/accept", nil)
	require.Equal(t, 200, env.Code)

	var resp struct {
		Action string `json:"action"`
		State  string `json:"state"`
		TxHash string `json:"tx_hash"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "accept", resp.Action)
	assert.Equal(t, "done", resp.State)
	assert.Contains(t, resp.TxHash, "acceptOffer:7")

	assert.Equal(t, []string{"approve_usdc:50000000", "acceptOffer:7"}, m.Submitted)
}

func TestActionHandlerRejectsBadID(t *testing.T) {
	svcCtx, _ := newTestCtx(t)
	r := gin.New()
	r.POST("/offers/:id/accept", OfferActionHandler(svcCtx, approval.ActionAccept))

	_, env := doRequest(r, http.MethodPost, "/offers/zero/accept", nil)
	assert.Equal(t, 7001, env.Code)
}
