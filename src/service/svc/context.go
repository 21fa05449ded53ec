package svc

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"gorm.io/gorm"

	"github.com/nftrade-labs/NFTradeBackend/pkg/chain/chainclient"
	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
	"github.com/nftrade-labs/NFTradeBackend/pkg/stores/gdb"
	"github.com/nftrade-labs/NFTradeBackend/src/common/utils"
	"github.com/nftrade-labs/NFTradeBackend/src/config"
	"github.com/nftrade-labs/NFTradeBackend/src/dao"
	"github.com/nftrade-labs/NFTradeBackend/src/model"
	"github.com/nftrade-labs/NFTradeBackend/src/service/approval"
	"github.com/nftrade-labs/NFTradeBackend/src/service/inventory"
	"github.com/nftrade-labs/NFTradeBackend/src/service/metadata"
	"github.com/nftrade-labs/NFTradeBackend/src/service/offers"
	"github.com/nftrade-labs/NFTradeBackend/src/service/session"
)

// ServerCtx carries every long-lived component the API handlers use.
type ServerCtx struct {
	C           *config.Config
	DB          *gorm.DB
	Dao         *dao.Dao
	KvStore     kv.Store
	ChainClient chainclient.Client
	Sessions    *session.Manager

	Metadata     *metadata.Resolver
	Indexer      *inventory.Indexer
	OfferStore   *offers.Store
	Orchestrator *approval.Orchestrator
	Confirmer    *approval.PromptConfirmer // nil when auto confirm is on
}

// NewServiceContext wires logging, storage, the chain client and the offer
// services from config.
func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	_, err := xzap.SetUp(*c.Log)
	if err != nil {
		return nil, err
	}

	var kvConf kv.KvConf
	for _, con := range c.Kv.Redis {
		kvConf = append(kvConf, cache.NodeConf{
			RedisConf: redis.RedisConf{
				Host: con.Host,
				Type: con.Type,
				Pass: con.Pass,
			},
			Weight: 1,
		})
	}
	var store kv.Store
	if len(kvConf) > 0 {
		store = kv.NewStore(kvConf)
	}

	db, err := gdb.NewDB(c.DB)
	if err != nil {
		return nil, err
	}

	d := dao.New(context.Background(), db)
	if err := d.AutoMigrate(&model.Activity{}); err != nil {
		return nil, errors.Wrap(err, "failed on migrate journal tables")
	}

	var chainClient chainclient.Client
	err = utils.Retry("dial chain rpc", 3, 2*time.Second, func() error {
		var dialErr error
		chainClient, dialErr = chainclient.NewEvmClient(
			c.NodeCfg.HttpsUrl+c.NodeCfg.ApiKey,
			common.HexToAddress(c.ContractCfg.TradeAddress),
			common.HexToAddress(c.ContractCfg.NftAddress),
			common.HexToAddress(c.ContractCfg.UsdcAddress),
		)
		return dialErr
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed on create chain client")
	}

	sessions := session.NewManager()
	if c.SignerCfg.PrivateKey != "" {
		if _, err := sessions.Connect(c.SignerCfg.PrivateKey, c.ChainCfg.ID); err != nil {
			return nil, errors.Wrap(err, "failed on connect configured signer")
		}
	}

	serverCtx := NewServerCtx(
		WithDB(db),
		WithKv(store),
		WithDao(d),
		WithChainClient(chainClient),
		WithSessions(sessions),
	)
	serverCtx.C = c

	serverCtx.Metadata = metadata.NewResolver(store,
		time.Duration(c.MetadataCfg.TimeoutSeconds)*time.Second,
		c.MetadataCfg.CacheTTLSeconds)
	serverCtx.Indexer = inventory.New(chainClient, serverCtx.Metadata, c.ContractCfg.NftAddress)
	serverCtx.OfferStore = offers.NewStore(chainClient, serverCtx.Indexer)

	var confirmer approval.Confirmer = approval.AutoConfirmer{}
	if !c.ApprovalCfg.AutoConfirm {
		serverCtx.Confirmer = approval.NewPromptConfirmer()
		confirmer = serverCtx.Confirmer
	}
	serverCtx.Orchestrator = approval.New(chainClient, serverCtx.OfferStore, serverCtx.Sessions, confirmer, d)

	return serverCtx, nil
}
