package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":3000", cfg.EndpointAddr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "https://rpc.testnet.near.org", cfg.NodeURL)
	assert.Equal(t, "10000000000", cfg.NewAccountAmount)
	assert.Equal(t, 587, cfg.MailPort)
	assert.False(t, cfg.IsProduction())
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", ":8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("NODE_URL", "https://rpc.mainnet.near.org")
	t.Setenv("MAIL_PORT", "2525")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "https://rpc.mainnet.near.org", cfg.NodeURL)
	assert.Equal(t, 2525, cfg.MailPort)
	assert.True(t, cfg.IsProduction())
}

func TestParseEnv_AccountKeys(t *testing.T) {
	creator, err := json.Marshal(map[string]string{
		"account_id":  "creator.near",
		"private_key": "ed25519:creatorsecret",
	})
	require.NoError(t, err)
	recovery, err := json.Marshal(map[string]string{
		"account_id":  "recovery.near",
		"private_key": "ed25519:recoverysecret",
	})
	require.NoError(t, err)

	t.Setenv("ACCOUNT_CREATOR_KEY", string(creator))
	t.Setenv("ACCOUNT_RECOVERY_KEY", string(recovery))

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "creator.near", cfg.CreatorAccountID)
	assert.Equal(t, "ed25519:creatorsecret", cfg.CreatorPrivateKey)
	assert.Equal(t, "recovery.near", cfg.RecoveryAccountID)
	assert.Equal(t, "ed25519:recoverysecret", cfg.RecoveryPrivateKey)
}

func TestParseEnv_MalformedKeyPanics(t *testing.T) {
	t.Setenv("ACCOUNT_CREATOR_KEY", "{not json")

	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Panics(t, func() { parseEnv(cfg) })
}

func TestParseJson_OverlaysNonZeroFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"endpoint_addr": ":9000", "wallet_url": "https://wallet.testnet.near.org", "mail_port": 465}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	origArgs := os.Args
	os.Args = []string{"server", "-c", path}
	defer func() { os.Args = origArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9000", cfg.EndpointAddr)
	assert.Equal(t, "https://wallet.testnet.near.org", cfg.WalletURL)
	assert.Equal(t, 465, cfg.MailPort)
	// untouched fields keep defaults
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "https://rpc.testnet.near.org", cfg.NodeURL)
}

func TestParseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"server", "-a", ":7000", "-e", "staging", "-unrelated", "x"}
	defer func() { os.Args = origArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7000", cfg.EndpointAddr)
	assert.Equal(t, "staging", cfg.Environment)
}
