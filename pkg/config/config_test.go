package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetworkTarget(t *testing.T) {
	tests := []struct {
		input    string
		expected NetworkTarget
		wantErr  bool
	}{
		{"local", NetworkTargetLocal, false},
		{"foundry", NetworkTargetLocal, false},
		{" Anvil ", NetworkTargetLocal, false},
		{"remote", NetworkTargetRemote, false},
		{"Sepolia", NetworkTargetRemote, false},
		{"mainnet", NetworkTargetLocal, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNetworkTarget(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseInputEncoding(t *testing.T) {
	tests := []struct {
		input    string
		expected InputEncoding
		wantErr  bool
	}{
		{"String", InputEncodingUtf8, false},
		{"utf8", InputEncodingUtf8, false},
		{"Hex", InputEncodingHex, false},
		{"base64", InputEncodingUtf8, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInputEncoding(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	local := DefaultConfig(NetworkTargetLocal)
	local.ApplyDerivedDefaults()
	assert.Equal(t, "http://localhost:8080/nonce", local.NonceUrl)
	assert.Equal(t, "http://localhost:8080/submit", local.SubmitUrl)
	assert.Equal(t, "http://localhost:8080/graphql", local.GraphqlUrl)
	assert.Equal(t, DefaultAnvilRPCURL, local.RpcUrl)
	assert.Equal(t, uint64(ChainId_EthereumAnvil), local.DomainChainId)
	assert.Equal(t, DefaultAdvanceCount, local.AdvanceCount)
	require.NoError(t, local.Validate())

	remote := DefaultConfig(NetworkTargetRemote)
	remote.ApplyDerivedDefaults()
	assert.Equal(t, uint64(ChainId_EthereumSepolia), remote.DomainChainId)
	assert.Equal(t, DefaultSepoliaNodeURL, remote.RpcUrl)
	require.NoError(t, remote.Validate())
}

func TestApplyDerivedDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &MugenConfig{
		NodeUrl:       "http://node:8080/",
		GraphqlUrl:    "http://indexer/graphql",
		DomainChainId: 1,
	}
	cfg.ApplyDerivedDefaults()

	assert.Equal(t, "http://node:8080/nonce", cfg.NonceUrl)
	assert.Equal(t, "http://indexer/graphql", cfg.GraphqlUrl)
	assert.Equal(t, uint64(1), cfg.DomainChainId)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mugen.yaml")
	content := `network: sepolia
nodeUrl: https://node.example.com
appAddress: "0x0000000000000000000000000000000000000abc"
httpTimeout: 5s
advanceCount: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := DefaultConfig(NetworkTargetLocal)
	require.NoError(t, LoadFromFile(path, cfg))

	assert.Equal(t, NetworkTargetRemote, cfg.Network)
	assert.Equal(t, "https://node.example.com", cfg.NodeUrl)
	assert.Equal(t, "0x0000000000000000000000000000000000000abc", cfg.AppAddress)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.AdvanceCount)
	assert.Equal(t, DefaultInputBoxAddress, cfg.InputBoxAddress)
}

func TestLoadFromFile_Errors(t *testing.T) {
	cfg := DefaultConfig(NetworkTargetLocal)

	err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"), cfg)
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network: moon\n"), 0o600))
	err = LoadFromFile(path, cfg)
	assert.ErrorContains(t, err, "unsupported network")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *MugenConfig)
		expectedErr string
	}{
		{name: "missing rpc url", mutate: func(c *MugenConfig) { c.RpcUrl = "" }, expectedErr: "rpcUrl"},
		{name: "relative submit url", mutate: func(c *MugenConfig) { c.SubmitUrl = "/submit" }, expectedErr: "must be an absolute URL"},
		{name: "bad app address", mutate: func(c *MugenConfig) { c.AppAddress = "0x1234" }, expectedErr: "appAddress"},
		{name: "bad input box address", mutate: func(c *MugenConfig) { c.InputBoxAddress = "" }, expectedErr: "inputBoxAddress"},
		{name: "zero domain chain", mutate: func(c *MugenConfig) { c.DomainChainId = 0 }, expectedErr: "domainChainId"},
		{name: "negative rate", mutate: func(c *MugenConfig) { c.IndexerRateLimit = -1 }, expectedErr: "indexerRateLimit"},
		{name: "negative advance count", mutate: func(c *MugenConfig) { c.AdvanceCount = -2 }, expectedErr: "advanceCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(NetworkTargetLocal)
			cfg.ApplyDerivedDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}
