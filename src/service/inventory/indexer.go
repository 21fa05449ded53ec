package inventory

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
	"github.com/nftrade-labs/NFTradeBackend/src/service/metadata"
)

// MetaFetcher resolves a descriptor URI; satisfied by *metadata.Resolver.
type MetaFetcher interface {
	Fetch(ctx context.Context, uri string) (metadata.Meta, error)
}

// Indexer enumerates an account's token holdings and resolves their metadata.
type Indexer struct {
	client         chainclient.Client
	fetcher        MetaFetcher
	collectionAddr string
}

func New(client chainclient.Client, fetcher MetaFetcher, collectionAddr string) *Indexer {
	return &Indexer{
		client:         client,
		fetcher:        fetcher,
		collectionAddr: collectionAddr,
	}
}

// ListOwned returns the account's holdings in discovery order. Token ids are
// enumerated sequentially because the ledger's tokenOfOwnerByIndex contract is
// order dependent; metadata resolution then fans out concurrently, one
// goroutine per token, and failures degrade to a placeholder entry instead of
// aborting the batch. A holding-count read failure is total: it returns an
// empty slice and the error.
func (ix *Indexer) ListOwned(ctx context.Context, owner common.Address) ([]model.NonFungible, error) {
	count, err := ix.client.HoldingCount(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed on read holding count")
	}

	n := int(count.Int64())
	tokenIDs := make([]*big.Int, 0, n)
	for i := 0; i < n; i++ {
		tokenID, err := ix.client.HoldingAt(ctx, owner, big.NewInt(int64(i)))
		if err != nil {
			return nil, errors.Wrapf(err, "failed on read holding at index %d", i)
		}
		tokenIDs = append(tokenIDs, tokenID)
	}

	items := make([]model.NonFungible, n)
	wg := sync.WaitGroup{}
	for i, tokenID := range tokenIDs {
		i, tokenID := i, tokenID
		wg.Add(1)
		threading.GoSafe(func() {
			defer wg.Done()
			// Results land in their own slot; completion order carries no
			// meaning after the fan-out.
			items[i] = ix.resolveOne(ctx, tokenID)
		})
	}
	wg.Wait()

	return items, nil
}

// ResolveAssets attaches metadata to a list of token ids, used when decorating
// offer asset lists. Same degradation rules as ListOwned.
func (ix *Indexer) ResolveAssets(ctx context.Context, tokenIDs []*big.Int) []model.NonFungible {
	items := make([]model.NonFungible, len(tokenIDs))
	wg := sync.WaitGroup{}
	for i, tokenID := range tokenIDs {
		i, tokenID := i, tokenID
		wg.Add(1)
		threading.GoSafe(func() {
			defer wg.Done()
			items[i] = ix.resolveOne(ctx, tokenID)
		})
	}
	wg.Wait()
	return items
}

func (ix *Indexer) resolveOne(ctx context.Context, tokenID *big.Int) model.NonFungible {
	item := model.NonFungible{
		CollectionAddress: ix.collectionAddr,
		TokenID:           tokenID,
	}

	uri, err := ix.client.TokenMetadataURI(ctx, tokenID)
	if err != nil {
		return placeholder(item, err)
	}

	meta, err := ix.fetcher.Fetch(ctx, uri)
	if err != nil {
		xzap.WithContext(ctx).Warn("metadata resolution degraded to placeholder",
			zap.String("token_id", tokenID.String()),
			zap.Error(err))
		return placeholder(item, err)
	}

	item.Name = meta.Name
	item.ImageURI = meta.Image
	return item
}

func placeholder(item model.NonFungible, cause error) model.NonFungible {
	item.Name = fmt.Sprintf("Error: %s", cause.Error())
	item.ImageURI = ""
	return item
}
