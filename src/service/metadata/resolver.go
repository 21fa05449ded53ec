package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/syncx"
	"go.uber.org/zap"

	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
)

const cacheMetadataKeyPrefix = "cache:nftrade:metadata:%s"

// maxDescriptorBytes caps descriptor bodies; token URIs point at third-party
// hosts that cannot be trusted to stay small.
const maxDescriptorBytes = 1 << 20

// Meta is the resolved JSON descriptor of a token.
type Meta struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Resolver fetches token descriptors over HTTP with an optional Redis-backed
// cache in front. A nil kv store disables caching.
type Resolver struct {
	httpc    *http.Client
	kvStore  kv.Store
	cacheTTL int
	barrier  syncx.SingleFlight
}

func NewResolver(kvStore kv.Store, timeout time.Duration, cacheTTLSeconds int) *Resolver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{
		httpc:    &http.Client{Timeout: timeout},
		kvStore:  kvStore,
		cacheTTL: cacheTTLSeconds,
		barrier:  syncx.NewSingleFlight(),
	}
}

// Fetch resolves a descriptor URI. Network and parse failures are returned to
// the caller, which decides how to degrade; the resolver never fabricates
// placeholder content itself.
func (r *Resolver) Fetch(ctx context.Context, uri string) (Meta, error) {
	if cached, ok := r.fromCache(uri); ok {
		return cached, nil
	}

	// concurrent requests for one descriptor share a single fetch
	v, err := r.barrier.Do(uri, func() (interface{}, error) {
		return r.fetchRemote(ctx, uri)
	})
	if err != nil {
		return Meta{}, err
	}
	return v.(Meta), nil
}

func (r *Resolver) fetchRemote(ctx context.Context, uri string) (Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return Meta{}, errors.Wrap(err, "failed on build metadata request")
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Meta{}, errors.Wrap(err, "failed on fetch metadata")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Meta{}, errors.Errorf("metadata fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorBytes))
	if err != nil {
		return Meta{}, errors.Wrap(err, "failed on read metadata body")
	}

	var meta Meta
	if err := json.Unmarshal(body, &meta); err != nil {
		return Meta{}, errors.Wrap(err, "failed on parse metadata json")
	}

	r.toCache(uri, meta)
	return meta, nil
}

func (r *Resolver) fromCache(uri string) (Meta, bool) {
	if r.kvStore == nil {
		return Meta{}, false
	}
	raw, err := r.kvStore.Get(fmt.Sprintf(cacheMetadataKeyPrefix, uri))
	if err != nil || raw == "" {
		return Meta{}, false
	}
	var meta Meta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return Meta{}, false
	}
	return meta, true
}

func (r *Resolver) toCache(uri string, meta Meta) {
	if r.kvStore == nil || r.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(&meta)
	if err != nil {
		return
	}
	if err := r.kvStore.Setex(fmt.Sprintf(cacheMetadataKeyPrefix, uri), string(raw), r.cacheTTL); err != nil {
		xzap.WithContext(context.Background()).Warn("failed on cache metadata", zap.Error(err), zap.String("uri", uri))
	}
}
