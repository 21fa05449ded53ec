package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
	"github.com/nftrade-labs/NFTradeBackend/pkg/stores/gdb"
)

type Config struct {
	Api         Api          `toml:"api" mapstructure:"api" json:"api"`
	Monitor     *Monitor     `toml:"monitor" mapstructure:"monitor" json:"monitor"`
	Log         *xzap.Config `toml:"log" mapstructure:"log" json:"log"`
	Kv          *KvConf      `toml:"kv" mapstructure:"kv" json:"kv"`
	DB          *gdb.Config  `toml:"db" mapstructure:"db" json:"db"`
	ChainCfg    ChainCfg     `toml:"chain_cfg" mapstructure:"chain_cfg" json:"chain_cfg"`
	NodeCfg     NodeCfg      `toml:"node_cfg" mapstructure:"node_cfg" json:"node_cfg"`
	ContractCfg ContractCfg  `toml:"contract_cfg" mapstructure:"contract_cfg" json:"contract_cfg"`
	SignerCfg   SignerCfg    `toml:"signer_cfg" mapstructure:"signer_cfg" json:"signer_cfg"`
	ApprovalCfg ApprovalCfg  `toml:"approval_cfg" mapstructure:"approval_cfg" json:"approval_cfg"`
	MetadataCfg MetadataCfg  `toml:"metadata_cfg" mapstructure:"metadata_cfg" json:"metadata_cfg"`
}

type Api struct {
	Port int `toml:"port" mapstructure:"port" json:"port"`
}

type Monitor struct {
	PprofEnable bool  `toml:"pprof_enable" mapstructure:"pprof_enable" json:"pprof_enable"`
	PprofPort   int64 `toml:"pprof_port" mapstructure:"pprof_port" json:"pprof_port"`
}

type ChainCfg struct {
	Name string `toml:"name" mapstructure:"name" json:"name"`
	ID   int64  `toml:"id" mapstructure:"id" json:"id"`
}

type NodeCfg struct {
	ApiKey   string `toml:"api_key" mapstructure:"api_key" json:"api_key"`
	HttpsUrl string `toml:"https_url" mapstructure:"https_url" json:"https_url"`
}

type ContractCfg struct {
	TradeAddress string `toml:"trade_address" mapstructure:"trade_address" json:"trade_address"`
	NftAddress   string `toml:"nft_address" mapstructure:"nft_address" json:"nft_address"`
	UsdcAddress  string `toml:"usdc_address" mapstructure:"usdc_address" json:"usdc_address"`
}

type SignerCfg struct {
	PrivateKey string `toml:"private_key" mapstructure:"private_key" json:"private_key"`
}

type ApprovalCfg struct {
	AutoConfirm bool `toml:"auto_confirm" mapstructure:"auto_confirm" json:"auto_confirm"`
}

type MetadataCfg struct {
	TimeoutSeconds  int `toml:"timeout_seconds" mapstructure:"timeout_seconds" json:"timeout_seconds"`
	CacheTTLSeconds int `toml:"cache_ttl_seconds" mapstructure:"cache_ttl_seconds" json:"cache_ttl_seconds"`
}

type KvConf struct {
	Redis []*Redis `toml:"redis" mapstructure:"redis" json:"redis"`
}

type Redis struct {
	Host string `toml:"host" mapstructure:"host" json:"host"`
	Type string `toml:"type" mapstructure:"type" json:"type"`
	Pass string `toml:"pass" mapstructure:"pass" json:"pass"`
}

// UnmarshalConfig loads the TOML config at the given path. Environment
// variables with the NFTRADE_ prefix override file values.
func UnmarshalConfig(configFilePath string) (*Config, error) {
	viper.SetConfigFile(configFilePath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("NFTRADE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed on read config file")
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed on unmarshal config")
	}
	return &c, nil
}
