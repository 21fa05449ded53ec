package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
	"github.com/nftrade-labs/NFTradeBackend/src/config"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
)

// Platform bundles everything the running service consists of.
type Platform struct {
	config    *config.Config
	router    *gin.Engine
	serverCtx *svc.ServerCtx
}

func NewPlatform(config *config.Config, router *gin.Engine, serverCtx *svc.ServerCtx) (*Platform, error) {
	return &Platform{
		config:    config,
		router:    router,
		serverCtx: serverCtx,
	}, nil
}

// Start runs the HTTP server; blocking. Session lifecycle watching runs in
// the background so cached offers reset whenever the signer changes.
func (p *Platform) Start(ctx context.Context) {
	threading.GoSafe(func() {
		p.serverCtx.OfferStore.WatchSession(ctx, p.serverCtx.Sessions)
	})

	addr := fmt.Sprintf(":%d", p.config.Api.Port)
	xzap.WithContext(ctx).Info("NFTrade backend run", zap.String("addr", addr))
	if err := p.router.Run(addr); err != nil {
		panic(err)
	}
}
