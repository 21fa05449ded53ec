package svc

import (
	"github.com/zeromicro/go-zero/core/stores/kv"
	"gorm.io/gorm"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/src/dao"
	"github.com/nftrade-labs/NFTradeBackend/src/service/session"
)

// CtxConfig collects the components a ServerCtx is assembled from.
type CtxConfig struct {
	db          *gorm.DB
	dao         *dao.Dao
	KvStore     kv.Store
	ChainClient chainclient.Client
	Sessions    *session.Manager
}

type CtxOption func(conf *CtxConfig)

func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		DB:          c.db,
		Dao:         c.dao,
		KvStore:     c.KvStore,
		ChainClient: c.ChainClient,
		Sessions:    c.Sessions,
	}
}

func WithKv(kv kv.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.KvStore = kv
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithDao(dao *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = dao
	}
}

func WithChainClient(client chainclient.Client) CtxOption {
	return func(conf *CtxConfig) {
		conf.ChainClient = client
	}
}

func WithSessions(mgr *session.Manager) CtxOption {
	return func(conf *CtxConfig) {
		conf.Sessions = mgr
	}
}
