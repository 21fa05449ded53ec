package chainclient

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

const tradeAbi = `[
{"inputs":[{"internalType":"uint256[]","name":"offeredNFTs","type":"uint256[]"},{"internalType":"uint256","name":"offeredUSDC","type":"uint256"},{"internalType":"uint256[]","name":"requestedNFTs","type":"uint256[]"},{"internalType":"uint256","name":"requestedUSDC","type":"uint256"},{"internalType":"address","name":"offeree","type":"address"}],"name":"makeOffer","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"offerID","type":"uint256"}],"name":"acceptOffer","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"offerID","type":"uint256"}],"name":"rejectOffer","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"offerID","type":"uint256"}],"name":"cancelOfferedOffer","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"offerID","type":"uint256"}],"name":"sealDeal","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"offerID","type":"uint256"}],"name":"viewOffer","outputs":[{"components":[{"internalType":"uint256","name":"offerID","type":"uint256"},{"internalType":"address","name":"offerer","type":"address"},{"internalType":"address","name":"offeree","type":"address"},{"internalType":"uint256[]","name":"offeredNFTs","type":"uint256[]"},{"internalType":"uint256","name":"offeredUSDC","type":"uint256"},{"internalType":"uint256[]","name":"requestedNFTs","type":"uint256[]"},{"internalType":"uint256","name":"requestedUSDC","type":"uint256"},{"internalType":"uint8","name":"status","type":"uint8"}],"internalType":"struct NFTrade.Offer","name":"","type":"tuple"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"offerer","type":"address"}],"name":"viewOfferedOffers","outputs":[{"internalType":"uint256[]","name":"","type":"uint256[]"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"offeree","type":"address"}],"name":"viewReceivedOffers","outputs":[{"internalType":"uint256[]","name":"","type":"uint256[]"}],"stateMutability":"view","type":"function"}]`

const erc721Abi = `[
{"inputs":[{"internalType":"address","name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"uint256","name":"index","type":"uint256"}],"name":"tokenOfOwnerByIndex","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"getApproved","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"approve","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

const erc20Abi = `[
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"address","name":"spender","type":"address"}],"name":"allowance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"spender","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"approve","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}]`

// rawOfferTuple matches the viewOffer return tuple of the trade contract.
type rawOfferTuple struct {
	OfferID       *big.Int
	Offerer       common.Address
	Offeree       common.Address
	OfferedNFTs   []*big.Int
	OfferedUSDC   *big.Int
	RequestedNFTs []*big.Int
	RequestedUSDC *big.Int
	Status        uint8
}

// EvmClient implements Client against an EVM JSON-RPC endpoint.
type EvmClient struct {
	eth *ethclient.Client

	trade *bind.BoundContract
	nft   *bind.BoundContract
	usdc  *bind.BoundContract

	tradeAddr common.Address
}

// NewEvmClient dials the endpoint and binds the trade, collection and stable
// token contracts.
func NewEvmClient(rawURL string, tradeAddr, nftAddr, usdcAddr common.Address) (*EvmClient, error) {
	eth, err := ethclient.Dial(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed on dial rpc endpoint")
	}

	parsedTrade, err := abi.JSON(strings.NewReader(tradeAbi))
	if err != nil {
		return nil, errors.Wrap(err, "failed on parse trade abi")
	}
	parsedNft, err := abi.JSON(strings.NewReader(erc721Abi))
	if err != nil {
		return nil, errors.Wrap(err, "failed on parse erc721 abi")
	}
	parsedUsdc, err := abi.JSON(strings.NewReader(erc20Abi))
	if err != nil {
		return nil, errors.Wrap(err, "failed on parse erc20 abi")
	}

	return &EvmClient{
		eth:       eth,
		trade:     bind.NewBoundContract(tradeAddr, parsedTrade, eth, eth, eth),
		nft:       bind.NewBoundContract(nftAddr, parsedNft, eth, eth, eth),
		usdc:      bind.NewBoundContract(usdcAddr, parsedUsdc, eth, eth, eth),
		tradeAddr: tradeAddr,
	}, nil
}

func (c *EvmClient) TradeContract() common.Address {
	return c.tradeAddr
}

func (c *EvmClient) HoldingCount(ctx context.Context, owner common.Address) (*big.Int, error) {
	var out []interface{}
	if err := c.nft.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner); err != nil {
		return nil, errors.Wrap(err, "failed on read holding count")
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *EvmClient) HoldingAt(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := c.nft.Call(&bind.CallOpts{Context: ctx}, &out, "tokenOfOwnerByIndex", owner, index); err != nil {
		return nil, errors.Wrap(err, "failed on read holding at index")
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *EvmClient) TokenMetadataURI(ctx context.Context, tokenID *big.Int) (string, error) {
	var out []interface{}
	if err := c.nft.Call(&bind.CallOpts{Context: ctx}, &out, "tokenURI", tokenID); err != nil {
		return "", errors.Wrap(err, "failed on read token uri")
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (c *EvmClient) Operator(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	var out []interface{}
	if err := c.nft.Call(&bind.CallOpts{Context: ctx}, &out, "getApproved", tokenID); err != nil {
		return common.Address{}, errors.Wrap(err, "failed on read token operator")
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (c *EvmClient) SetOperator(ctx context.Context, auth *bind.TransactOpts, tokenID *big.Int, spender common.Address) (TxHandle, error) {
	tx, err := c.nft.Transact(withContext(auth, ctx), "approve", spender, tokenID)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "failed on submit operator approval")
	}
	return newHandle(tx), nil
}

func (c *EvmClient) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	if err := c.usdc.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender); err != nil {
		return nil, errors.Wrap(err, "failed on read allowance")
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *EvmClient) SetAllowance(ctx context.Context, auth *bind.TransactOpts, spender common.Address, amount *big.Int) (TxHandle, error) {
	tx, err := c.usdc.Transact(withContext(auth, ctx), "approve", spender, amount)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "failed on submit allowance approval")
	}
	return newHandle(tx), nil
}

func (c *EvmClient) OffersInitiatedBy(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	return c.offerIDs(ctx, "viewOfferedOffers", owner)
}

func (c *EvmClient) OffersReceivedBy(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	return c.offerIDs(ctx, "viewReceivedOffers", owner)
}

func (c *EvmClient) offerIDs(ctx context.Context, method string, owner common.Address) ([]*big.Int, error) {
	var out []interface{}
	if err := c.trade.Call(&bind.CallOpts{Context: ctx}, &out, method, owner); err != nil {
		return nil, errors.Wrapf(err, "failed on %s", method)
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

func (c *EvmClient) GetOffer(ctx context.Context, id *big.Int) (RawOffer, error) {
	var out []interface{}
	if err := c.trade.Call(&bind.CallOpts{Context: ctx}, &out, "viewOffer", id); err != nil {
		return RawOffer{}, errors.Wrap(err, "failed on read offer")
	}
	tuple := *abi.ConvertType(out[0], new(rawOfferTuple)).(*rawOfferTuple)
	return RawOffer{
		OfferID:       tuple.OfferID,
		Offerer:       tuple.Offerer.Hex(),
		Offeree:       tuple.Offeree.Hex(),
		OfferedNFTs:   tuple.OfferedNFTs,
		OfferedUSDC:   tuple.OfferedUSDC,
		RequestedNFTs: tuple.RequestedNFTs,
		RequestedUSDC: tuple.RequestedUSDC,
		Status:        tuple.Status,
	}, nil
}

func (c *EvmClient) CreateOffer(ctx context.Context, auth *bind.TransactOpts, draft OfferDraft) (TxHandle, error) {
	tx, err := c.trade.Transact(withContext(auth, ctx), "makeOffer",
		draft.GivenNFTs, draft.GivenAmount, draft.RequestedNFTs, draft.RequestedAmount, draft.Counterparty)
	if err != nil {
		return TxHandle{}, errors.Wrap(err, "failed on submit make offer")
	}
	return newHandle(tx), nil
}

func (c *EvmClient) AcceptOffer(ctx context.Context, auth *bind.TransactOpts, id *big.Int) (TxHandle, error) {
	return c.terminalTx(ctx, auth, "acceptOffer", id)
}

func (c *EvmClient) RejectOffer(ctx context.Context, auth *bind.TransactOpts, id *big.Int) (TxHandle, error) {
	return c.terminalTx(ctx, auth, "rejectOffer", id)
}

func (c *EvmClient) CancelOffer(ctx context.Context, auth *bind.TransactOpts, id *big.Int) (TxHandle, error) {
	return c.terminalTx(ctx, auth, "cancelOfferedOffer", id)
}

func (c *EvmClient) SealOffer(ctx context.Context, auth *bind.TransactOpts, id *big.Int) (TxHandle, error) {
	return c.terminalTx(ctx, auth, "sealDeal", id)
}

func (c *EvmClient) terminalTx(ctx context.Context, auth *bind.TransactOpts, method string, id *big.Int) (TxHandle, error) {
	tx, err := c.trade.Transact(withContext(auth, ctx), method, id)
	if err != nil {
		return TxHandle{}, errors.Wrapf(err, "failed on submit %s", method)
	}
	return newHandle(tx), nil
}

func (c *EvmClient) AwaitConfirmation(ctx context.Context, handle TxHandle) (Receipt, error) {
	tx, ok := handle.tx.(*ethereumTypes.Transaction)
	if !ok {
		return Receipt{}, errors.New("tx handle does not carry a transaction")
	}
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "failed on await confirmation")
	}
	if receipt.Status != ethereumTypes.ReceiptStatusSuccessful {
		return Receipt{}, errors.Errorf("transaction reverted: %s", handle.Hash)
	}
	return Receipt{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}

func newHandle(tx *ethereumTypes.Transaction) TxHandle {
	return TxHandle{Hash: tx.Hash().Hex(), tx: tx}
}

// withContext clones auth with ctx attached so a caller's cancellation
// propagates into transaction submission.
func withContext(auth *bind.TransactOpts, ctx context.Context) *bind.TransactOpts {
	cloned := *auth
	cloned.Context = ctx
	return &cloned
}
