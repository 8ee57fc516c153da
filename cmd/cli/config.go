package cli

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/go-playground/validator.v9"

	"github.com/tronwallet/walletgo/client"
	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/db"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/log"
	"github.com/tronwallet/walletgo/common/wallet"
)

const (
	DefaultWalletName = "default"
	DefaultFullNode   = "http://127.0.0.1:50051"
)

type Config struct {
	Network      string            `json:"network" validate:"oneof=mainnet testnet"`
	FullNodes    []string          `json:"full_nodes" validate:"min=1,dive,url"`
	SolidityNode string            `json:"solidity_node" validate:"omitempty,url"`
	WitnessNodes map[string]string `json:"witness_nodes,omitempty"`
	WalletDir    string            `json:"wallet_dir" validate:"required"`
	WalletName   string            `json:"wallet_name" validate:"required,excludesall=/\\"`
	Store        string            `json:"store" validate:"oneof=file goleveldb mapdb"`
	Timeout      time.Duration     `json:"timeout" validate:"gte=0"`
	LogLevel     string            `json:"log_level" validate:"oneof=trace debug info warn error fatal panic"`
	LogFile      string            `json:"log_file,omitempty"`
}

func AddConfigFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "Parsing configuration file")
	fs.String("network", common.MainNet.Name, "Network of addresses (mainnet, testnet)")
	fs.StringSlice("full_nodes", []string{DefaultFullNode}, "Full node JSON-RPC endpoints, tried in order")
	fs.String("solidity_node", "", "Solidity node JSON-RPC endpoint for confirmed queries")
	fs.String("wallet_dir", defaultWalletDir(), "Directory of wallet records")
	fs.String("wallet_name", DefaultWalletName, "Name of the wallet record")
	fs.String("store", db.FileBlobBackend, "Wallet storage backend (file, goleveldb, mapdb)")
	fs.Duration("timeout", client.DefaultTimeout, "Timeout of each JSON-RPC request")
	fs.String("log_level", "info", "Console log level")
	fs.String("log_file", "", "Rotating log file path")
}

func defaultWalletDir() string {
	return filepath.Join(".", "wallet")
}

// LoadConfig reads the optional config file named by the "config" key and
// decodes the merged flags, environment and file into a validated Config.
func LoadConfig(vc *viper.Viper) (*Config, error) {
	if cfgFile := vc.GetString("config"); cfgFile != "" {
		vc.SetConfigFile(cfgFile)
		if filepath.Ext(cfgFile) == "" {
			vc.SetConfigType("json")
		}
		if err := vc.ReadInConfig(); err != nil {
			return nil, errors.IllegalArgumentError.Wrapf(err, "fail to read config file=%s", cfgFile)
		}
	}
	cfg := &Config{}
	if err := vc.Unmarshal(cfg, ViperDecodeOptJson); err != nil {
		return nil, errors.IllegalArgumentError.Wrap(err, "fail to decode config")
	}
	cfg.Network = strings.ToLower(cfg.Network)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.IllegalArgumentError.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// ApplyLog sets the console level and attaches the log file.
func (cfg *Config) ApplyLog() error {
	lv, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.IllegalArgumentError.Wrap(err, "invalid log level")
	}
	log.GlobalLogger().SetConsoleLevel(lv)
	return log.AttachFile(&log.WriterConfig{
		Filename:   cfg.LogFile,
		MaxSize:    64,
		MaxBackups: 8,
		Compress:   true,
	})
}

// Context holds what a command needs from the configuration and releases
// it in Close.
type Context struct {
	Config *Config

	net     *common.Network
	closers []func() error
}

func NewContext(cfg *Config) (*Context, error) {
	ctx := &Context{}
	if err := ctx.init(cfg); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (ctx *Context) init(cfg *Config) error {
	net, err := common.NetworkByName(cfg.Network)
	if err != nil {
		return err
	}
	ctx.Config, ctx.net = cfg, net
	return nil
}

// Load decodes the configuration of vc and applies its log settings.
func (ctx *Context) Load(vc *viper.Viper) error {
	cfg, err := LoadConfig(vc)
	if err != nil {
		return err
	}
	if err := cfg.ApplyLog(); err != nil {
		return err
	}
	return ctx.init(cfg)
}

func (ctx *Context) Network() *common.Network {
	return ctx.net
}

func (ctx *Context) OpenStore() (*wallet.Store, error) {
	blobs, closer, err := db.OpenBlobStore(ctx.Config.Store, ctx.Config.WalletDir)
	if err != nil {
		return nil, err
	}
	ctx.closers = append(ctx.closers, closer)
	return wallet.NewStore(blobs, ctx.Config.WalletName, ctx.net), nil
}

func (ctx *Context) NewLedgerClient() (*client.LedgerClient, error) {
	sel, err := client.NewNodeSelector(ctx.Config.FullNodes...)
	if err != nil {
		return nil, err
	}
	var hc *http.Client
	if ctx.Config.Timeout > 0 {
		hc = &http.Client{Timeout: ctx.Config.Timeout}
	}
	return client.NewLedgerClient(hc, sel, ctx.Config.SolidityNode, ctx.net), nil
}

func (ctx *Context) NewWalletClient() (*client.WalletClient, error) {
	store, err := ctx.OpenStore()
	if err != nil {
		return nil, err
	}
	ledger, err := ctx.NewLedgerClient()
	if err != nil {
		return nil, err
	}
	return client.NewWalletClient(store, ledger, nil)
}

func (ctx *Context) Close() {
	for i := len(ctx.closers) - 1; i >= 0; i-- {
		if err := ctx.closers[i](); err != nil {
			log.Warnf("fail to close err=%+v", err)
		}
	}
	ctx.closers = nil
}
