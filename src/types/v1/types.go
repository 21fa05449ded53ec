package types

// SessionConnectReq carries the signer credentials for a new session.
type SessionConnectReq struct {
	PrivateKey string `json:"private_key" binding:"required"`
	ChainID    int64  `json:"chain_id" binding:"required"`
}

type SessionResp struct {
	SessionID    string `json:"session_id"`
	Address      string `json:"address"`
	ShortAddress string `json:"short_address"`
	ChainID      int64  `json:"chain_id"`
}

type InventoryItem struct {
	CollectionAddress string `json:"collection_address"`
	TokenID           string `json:"token_id"`
	Name              string `json:"name"`
	Image             string `json:"image"`
}

type InventoryResp struct {
	Result []InventoryItem `json:"result"`
	Count  int             `json:"count"`
}

// OfferSide is one party's stake: zero or more NFTs plus an optional
// display-scaled USDC amount.
type OfferSide struct {
	NFTs   []InventoryItem `json:"nfts"`
	Amount string          `json:"amount"`
}

type OfferResp struct {
	ID                int64     `json:"id"`
	Initiator         string    `json:"initiator"`
	ShortInitiator    string    `json:"short_initiator"`
	Counterparty      string    `json:"counterparty"`
	ShortCounterparty string    `json:"short_counterparty"`
	Status            string    `json:"status"`
	StatusCode        int       `json:"status_code"`
	Given             OfferSide `json:"given"`
	Requested         OfferSide `json:"requested"`
}

type OffersResp struct {
	Result []OfferResp `json:"result"`
	Count  int         `json:"count"`
}

// MakeOfferReq describes a new offer; token ids and amounts arrive as
// base-10 strings because they may exceed float precision in JSON.
type MakeOfferReq struct {
	Counterparty      string   `json:"counterparty" binding:"required"`
	GivenTokenIDs     []string `json:"given_token_ids"`
	GivenAmount       string   `json:"given_amount"`
	RequestedTokenIDs []string `json:"requested_token_ids"`
	RequestedAmount   string   `json:"requested_amount"`
}

type ActionResp struct {
	Action string `json:"action"`
	State  string `json:"state"`
	TxHash string `json:"tx_hash,omitempty"`
}

type ApprovalDecisionReq struct {
	Approved bool `json:"approved"`
}

type ActivitiesResp struct {
	Result interface{} `json:"result"`
	Count  int64       `json:"count"`
}
