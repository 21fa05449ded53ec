package offers

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/pkg/errcode"
	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
	"github.com/nftrade-labs/NFTradeBackend/src/service/inventory"
	"github.com/nftrade-labs/NFTradeBackend/src/service/session"
)

// Direction selects which side of an account's offers to list.
type Direction int

const (
	DirectionMade Direction = iota
	DirectionReceived
)

// Store is the working set of offers and inventory per account. It is a cache
// over the ledger, never an authority: mutations happen only through Refetch
// after confirmed transactions, plus the one optimistic removal allowed for a
// just-rejected offer. All reads are pure projections with no network access.
type Store struct {
	mu sync.RWMutex

	client  chainclient.Client
	indexer *inventory.Indexer

	made      map[string][]model.Offer
	received  map[string][]model.Offer
	inventory map[string][]model.NonFungible
}

func NewStore(client chainclient.Client, indexer *inventory.Indexer) *Store {
	return &Store{
		client:    client,
		indexer:   indexer,
		made:      make(map[string][]model.Offer),
		received:  make(map[string][]model.Offer),
		inventory: make(map[string][]model.NonFungible),
	}
}

func accountKey(account common.Address) string {
	return strings.ToLower(account.Hex())
}

// Refetch rebuilds both directions of an account's offer set from the ledger.
func (s *Store) Refetch(ctx context.Context, account common.Address) error {
	madeIDs, err := s.client.OffersInitiatedBy(ctx, account)
	if err != nil {
		return errors.Wrap(err, "failed on list initiated offers")
	}
	receivedIDs, err := s.client.OffersReceivedBy(ctx, account)
	if err != nil {
		return errors.Wrap(err, "failed on list received offers")
	}

	made := s.fetchSet(ctx, madeIDs)
	received := s.fetchSet(ctx, receivedIDs)

	key := accountKey(account)
	s.mu.Lock()
	s.made[key] = made
	s.received[key] = received
	s.mu.Unlock()
	return nil
}

// fetchSet reads and normalizes the listed offers. An unreadable record is
// skipped so the rest of the set still populates; the next refetch picks it
// up again.
func (s *Store) fetchSet(ctx context.Context, ids []*big.Int) []model.Offer {
	out := make([]model.Offer, 0, len(ids))
	for _, id := range ids {
		raw, err := s.client.GetOffer(ctx, id)
		if err != nil {
			xzap.WithContext(ctx).Warn("skipping unreadable offer record",
				zap.String("offer_id", id.String()),
				zap.Error(err))
			continue
		}
		offer := Normalize(raw,
			s.indexer.ResolveAssets(ctx, raw.OfferedNFTs),
			s.indexer.ResolveAssets(ctx, raw.RequestedNFTs))
		// id 0 is the ledger's reserved placeholder for deleted slots.
		if offer.ID == 0 {
			continue
		}
		out = append(out, offer)
	}
	return out
}

// List projects the cached set through a status filter. A nil filter applies
// the default-visible statuses (Pending, Accepted, Rejected).
func (s *Store) List(account common.Address, direction Direction, visible map[model.OfferStatus]bool) []model.Offer {
	if visible == nil {
		visible = model.DefaultVisibleStatuses()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var src []model.Offer
	if direction == DirectionMade {
		src = s.made[accountKey(account)]
	} else {
		src = s.received[accountKey(account)]
	}

	out := make([]model.Offer, 0, len(src))
	for _, offer := range src {
		if visible[offer.Status] {
			out = append(out, offer)
		}
	}
	return out
}

// Get looks an offer up across all cached sets.
func (s *Store) Get(offerID int64) (model.Offer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, set := range []map[string][]model.Offer{s.made, s.received} {
		for _, list := range set {
			for _, offer := range list {
				if offer.ID == offerID {
					return offer, true
				}
			}
		}
	}
	return model.Offer{}, false
}

// ApplyLocalTransition updates a cached offer's status after a confirmed
// transaction. Illegal transitions (anything out of a terminal status, or a
// jump the state machine does not allow) are refused.
func (s *Store) ApplyLocalTransition(offerID int64, next model.OfferStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range []map[string][]model.Offer{s.made, s.received} {
		for key, list := range set {
			for i, offer := range list {
				if offer.ID != offerID {
					continue
				}
				if !offer.Status.CanTransitionTo(next) {
					return errcode.ErrOfferTerminal
				}
				list[i].Status = next
				set[key] = list
				return nil
			}
		}
	}
	return errcode.ErrOfferNotFound
}

// RemoveRejected drops a just-rejected offer from the visible sets without a
// refetch round-trip. Rejection has a single outcome, so the optimistic
// removal is safe; a later refetch reconciles fully.
func (s *Store) RemoveRejected(offerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range []map[string][]model.Offer{s.made, s.received} {
		for key, list := range set {
			kept := list[:0]
			for _, offer := range list {
				if offer.ID != offerID {
					kept = append(kept, offer)
				}
			}
			set[key] = kept
		}
	}
}

// SetInventory replaces the account's inventory snapshot wholesale.
func (s *Store) SetInventory(account common.Address, items []model.NonFungible) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[accountKey(account)] = items
}

// Inventory returns the cached snapshot, ok=false when never built.
func (s *Store) Inventory(account common.Address) ([]model.NonFungible, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.inventory[accountKey(account)]
	return items, ok
}

// Reset clears every cache, used when the signing session changes.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.made = make(map[string][]model.Offer)
	s.received = make(map[string][]model.Offer)
	s.inventory = make(map[string][]model.NonFungible)
}

// WatchSession clears the cache whenever the account or network changes;
// cached state belongs to exactly one signing identity.
func (s *Store) WatchSession(ctx context.Context, mgr *session.Manager) {
	ch := make(chan session.Event, 8)
	sub := mgr.Subscribe(ch)
	threading.GoSafe(func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				xzap.WithContext(ctx).Info("session changed, resetting offer store",
					zap.Int("event_kind", int(ev.Kind)))
				s.Reset()
			}
		}
	})
}
