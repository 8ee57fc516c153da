package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronwallet/walletgo/client"
	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/errors"
)

func newConfigViper(t *testing.T, args ...string) *viper.Viper {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddConfigFlags(fs)
	require.NoError(t, fs.Parse(args))
	vc := NewViper("walletcli_test")
	require.NoError(t, BindPFlags(vc, fs))
	return vc
}

func writeConfig(t *testing.T, content string) string {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(newConfigViper(t))
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, []string{DefaultFullNode}, cfg.FullNodes)
	assert.Equal(t, DefaultWalletName, cfg.WalletName)
	assert.Equal(t, "file", cfg.Store)
	assert.Equal(t, client.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_File(t *testing.T) {
	p := writeConfig(t, `{
  "network": "TestNet",
  "full_nodes": ["http://10.0.0.1:8090", "http://10.0.0.2:8090"],
  "solidity_node": "http://10.0.0.3:8091",
  "witness_nodes": {"http://witness.example": "http://10.0.0.2:8090"},
  "wallet_name": "alice",
  "store": "goleveldb",
  "timeout": 3
}`)
	cfg, err := LoadConfig(newConfigViper(t, "--config", p, "--wallet_name", "bob"))
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, []string{"http://10.0.0.1:8090", "http://10.0.0.2:8090"}, cfg.FullNodes)
	assert.Equal(t, "http://10.0.0.3:8091", cfg.SolidityNode)
	assert.Equal(t, "http://10.0.0.2:8090", cfg.WitnessNodes["http://witness.example"])
	assert.Equal(t, "bob", cfg.WalletName)
	assert.Equal(t, "goleveldb", cfg.Store)
	assert.Equal(t, 3*time.Second, cfg.Timeout)

	ctx, err := NewContext(cfg)
	require.NoError(t, err)
	assert.Equal(t, common.TestNet, ctx.Network())
}

func TestLoadConfig_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{"Network", []string{"--network", "shasta"}},
		{"Store", []string{"--store", "rocksdb"}},
		{"NoNodes", []string{"--full_nodes", ""}},
		{"BadNode", []string{"--full_nodes", "not a url"}},
		{"WalletName", []string{"--wallet_name", "../escape"}},
		{"LogLevel", []string{"--log_level", "loud"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(newConfigViper(t, tc.args...))
			assert.True(t, errors.IllegalArgumentError.Equals(err), "err=%+v", err)
		})
	}

	_, err := LoadConfig(newConfigViper(t, "--config", filepath.Join(t.TempDir(), "none.json")))
	assert.True(t, errors.IllegalArgumentError.Equals(err))
}

func TestContext_OpenStore(t *testing.T) {
	cfg, err := LoadConfig(newConfigViper(t, "--store", "mapdb", "--wallet_dir", t.TempDir()))
	require.NoError(t, err)
	ctx, err := NewContext(cfg)
	require.NoError(t, err)
	defer ctx.Close()

	store, err := ctx.OpenStore()
	require.NoError(t, err)
	ok, err := store.Exists()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, common.MainNet, store.Network())
}
