package chainclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// RawOffer is an offer record as read from the ledger, before normalization.
// OfferID and Status are deliberately untyped: depending on the ledger version
// and transport they arrive as *big.Int, numeric strings, or plain numbers.
// The normalizer owns the tolerant conversion.
type RawOffer struct {
	OfferID       interface{}
	Offerer       string
	Offeree       string
	OfferedNFTs   []*big.Int
	OfferedUSDC   *big.Int
	RequestedNFTs []*big.Int
	RequestedUSDC *big.Int
	Status        interface{}
}

// TxHandle identifies a submitted, not yet confirmed transaction.
type TxHandle struct {
	Hash string

	tx interface{} // keeps the underlying *types.Transaction for WaitMined
}

// HandleWithHash builds a bare handle, used by fake clients in tests.
func HandleWithHash(hash string) TxHandle {
	return TxHandle{Hash: hash}
}

// Receipt is a confirmed transaction receipt.
type Receipt struct {
	TxHash      string
	BlockNumber uint64
}

// OfferDraft carries the parameters of a createOffer call.
type OfferDraft struct {
	GivenNFTs       []*big.Int
	GivenAmount     *big.Int
	RequestedNFTs   []*big.Int
	RequestedAmount *big.Int
	Counterparty    common.Address
}

// Client is the ledger gateway consumed by the orchestration layer. Reads are
// view calls; writes return a TxHandle which must be passed to
// AwaitConfirmation before the mutation may be treated as applied.
type Client interface {
	// ERC-721 holdings enumeration. HoldingAt depends on the ledger's
	// order-sensitive index and must be called sequentially.
	HoldingCount(ctx context.Context, owner common.Address) (*big.Int, error)
	HoldingAt(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error)
	TokenMetadataURI(ctx context.Context, tokenID *big.Int) (string, error)

	// Authorization state and grants.
	Operator(ctx context.Context, tokenID *big.Int) (common.Address, error)
	SetOperator(ctx context.Context, auth *bind.TransactOpts, tokenID *big.Int, spender common.Address) (TxHandle, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	SetAllowance(ctx context.Context, auth *bind.TransactOpts, spender common.Address, amount *big.Int) (TxHandle, error)

	// Offer records.
	OffersInitiatedBy(ctx context.Context, owner common.Address) ([]*big.Int, error)
	OffersReceivedBy(ctx context.Context, owner common.Address) ([]*big.Int, error)
	GetOffer(ctx context.Context, id *big.Int) (RawOffer, error)

	// Terminal transactions.
	CreateOffer(ctx context.Context, auth *bind.TransactOpts, draft OfferDraft) (TxHandle, error)
	AcceptOffer(ctx context.Context, auth *bind.TransactOpts, id *big.Int) (TxHandle, error)
	RejectOffer(ctx context.Context, auth *bind.TransactOpts, id *big.Int) (TxHandle, error)
	CancelOffer(ctx context.Context, auth *bind.TransactOpts, id *big.Int) (TxHandle, error)
	SealOffer(ctx context.Context, auth *bind.TransactOpts, id *big.Int) (TxHandle, error)

	// AwaitConfirmation blocks until the transaction is mined and returns an
	// error if it reverted.
	AwaitConfirmation(ctx context.Context, handle TxHandle) (Receipt, error)

	// TradeContract is the spender every approval is granted to.
	TradeContract() common.Address
}
