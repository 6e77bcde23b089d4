package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the mugen CLI
const (
	EnvMugenConfig          = "MUGEN_CONFIG"
	EnvMugenNetwork         = "MUGEN_NETWORK"
	EnvMugenNodeURL         = "MUGEN_NODE_URL"
	EnvMugenNonceURL        = "MUGEN_NONCE_URL"
	EnvMugenSubmitURL       = "MUGEN_SUBMIT_URL"
	EnvMugenGraphqlURL      = "MUGEN_GRAPHQL_URL"
	EnvMugenRPCURL          = "MUGEN_RPC_URL"
	EnvMugenAppAddress      = "MUGEN_APP_ADDRESS"
	EnvMugenInputBoxAddress = "MUGEN_INPUT_BOX_ADDRESS"
	EnvMugenServiceKey      = "MUGEN_SERVICE_PRIVATE_KEY"
	EnvMugenDomainChainID   = "MUGEN_DOMAIN_CHAIN_ID"
	EnvMugenHTTPTimeout     = "MUGEN_HTTP_TIMEOUT"
	EnvMugenIndexerRPS      = "MUGEN_INDEXER_RPS"
	EnvMugenAdvanceCount    = "MUGEN_ADVANCE_COUNT"
	EnvMugenWallet          = "MUGEN_WALLET"
	EnvMugenVerbose         = "MUGEN_VERBOSE"
)

type ChainId uint64

const (
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

const (
	DefaultNodeURL          = "http://localhost:8080"
	DefaultSepoliaNodeURL   = "https://ethereum-sepolia-rpc.publicnode.com"
	DefaultAnvilRPCURL      = "http://localhost:8545"
	DefaultAppAddress       = "0xab7528bb862fb57e8a2bcd567a2e929a0be56a5e"
	DefaultInputBoxAddress  = "0x593E5BCf894D6829Dd26D0810DA7F064406aebB6"
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultAdvanceCount     = 11
	DefaultIndexerRateLimit = 0
)

// NetworkTarget selects which chain the CLI talks to.
type NetworkTarget int

const (
	NetworkTargetLocal NetworkTarget = iota
	NetworkTargetRemote
)

func (n NetworkTarget) String() string {
	switch n {
	case NetworkTargetLocal:
		return "local"
	case NetworkTargetRemote:
		return "remote"
	default:
		return fmt.Sprintf("NetworkTarget(%d)", int(n))
	}
}

func (n NetworkTarget) ChainId() ChainId {
	switch n {
	case NetworkTargetRemote:
		return ChainId_EthereumSepolia
	default:
		return ChainId_EthereumAnvil
	}
}

// ParseNetworkTarget accepts both the CLI names and the chain names shown by the prompts.
func ParseNetworkTarget(s string) (NetworkTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "foundry", "anvil", "devnet":
		return NetworkTargetLocal, nil
	case "remote", "sepolia":
		return NetworkTargetRemote, nil
	default:
		return NetworkTargetLocal, fmt.Errorf("unsupported network %q, expected local or remote", s)
	}
}

func (n NetworkTarget) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}

func (n *NetworkTarget) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseNetworkTarget(value.Value)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// InputEncoding describes how raw input text becomes message payload bytes.
type InputEncoding int

const (
	InputEncodingUtf8 InputEncoding = iota
	InputEncodingHex
)

func (e InputEncoding) String() string {
	switch e {
	case InputEncodingUtf8:
		return "String"
	case InputEncodingHex:
		return "Hex"
	default:
		return fmt.Sprintf("InputEncoding(%d)", int(e))
	}
}

func ParseInputEncoding(s string) (InputEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "utf8", "utf-8":
		return InputEncodingUtf8, nil
	case "hex":
		return InputEncodingHex, nil
	default:
		return InputEncodingUtf8, fmt.Errorf("unsupported input type %q, expected String or Hex", s)
	}
}

// CredentialKind is how a wallet selector string is interpreted.
type CredentialKind int

const (
	CredentialKindRegistry CredentialKind = iota
	CredentialKindRawKey
	CredentialKindSeedPhrase
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialKindRegistry:
		return "registry"
	case CredentialKindRawKey:
		return "private-key"
	case CredentialKindSeedPhrase:
		return "seed-phrase"
	default:
		return fmt.Sprintf("CredentialKind(%d)", int(k))
	}
}

// MugenConfig is the resolved configuration for a single command invocation.
type MugenConfig struct {
	Network NetworkTarget `json:"network" yaml:"network"`

	NodeUrl    string `json:"node_url" yaml:"nodeUrl"`
	NonceUrl   string `json:"nonce_url" yaml:"nonceUrl"`
	SubmitUrl  string `json:"submit_url" yaml:"submitUrl"`
	GraphqlUrl string `json:"graphql_url" yaml:"graphqlUrl"`
	RpcUrl     string `json:"rpc_url" yaml:"rpcUrl"`

	AppAddress      string `json:"app_address" yaml:"appAddress"`
	InputBoxAddress string `json:"input_box_address" yaml:"inputBoxAddress"`

	// DomainChainId is the chain id placed in the EIP-712 domain. It is not checked
	// against the RPC endpoint.
	DomainChainId uint64 `json:"domain_chain_id" yaml:"domainChainId"`

	// ServicePrivateKey signs the on-chain transactions (filler inputs and output
	// execution). Empty means registry account #0.
	ServicePrivateKey string `json:"-" yaml:"servicePrivateKey"`

	HTTPTimeout      time.Duration `json:"http_timeout" yaml:"httpTimeout"`
	IndexerRateLimit float64       `json:"indexer_rate_limit" yaml:"indexerRateLimit"`
	AdvanceCount     int           `json:"advance_count" yaml:"advanceCount"`

	Verbose bool `json:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the defaults for a network target. Endpoint URLs left empty
// are derived from NodeUrl by ApplyDerivedDefaults.
func DefaultConfig(target NetworkTarget) *MugenConfig {
	cfg := &MugenConfig{
		Network:          target,
		AppAddress:       DefaultAppAddress,
		InputBoxAddress:  DefaultInputBoxAddress,
		DomainChainId:    uint64(target.ChainId()),
		HTTPTimeout:      DefaultHTTPTimeout,
		IndexerRateLimit: DefaultIndexerRateLimit,
		AdvanceCount:     DefaultAdvanceCount,
	}
	switch target {
	case NetworkTargetRemote:
		cfg.NodeUrl = DefaultSepoliaNodeURL
		cfg.RpcUrl = DefaultSepoliaNodeURL
	default:
		cfg.NodeUrl = DefaultNodeURL
		cfg.RpcUrl = DefaultAnvilRPCURL
	}
	return cfg
}

// ApplyDerivedDefaults fills endpoint URLs that were not set explicitly.
func (c *MugenConfig) ApplyDerivedDefaults() {
	base := strings.TrimRight(c.NodeUrl, "/")
	if c.NonceUrl == "" {
		c.NonceUrl = base + "/nonce"
	}
	if c.SubmitUrl == "" {
		c.SubmitUrl = base + "/submit"
	}
	if c.GraphqlUrl == "" {
		c.GraphqlUrl = base + "/graphql"
	}
	if c.DomainChainId == 0 {
		c.DomainChainId = uint64(c.Network.ChainId())
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
}

// LoadFromFile overlays the YAML file at path onto cfg. Fields missing from the
// file keep their current values.
func LoadFromFile(path string, cfg *MugenConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *MugenConfig) ApplicationAddress() common.Address {
	return common.HexToAddress(c.AppAddress)
}

func (c *MugenConfig) InputBox() common.Address {
	return common.HexToAddress(c.InputBoxAddress)
}

// Validate validates the configuration
func (c *MugenConfig) Validate() error {
	var allErrors field.ErrorList

	urls := []struct {
		name  string
		value string
	}{
		{"nodeUrl", c.NodeUrl},
		{"nonceUrl", c.NonceUrl},
		{"submitUrl", c.SubmitUrl},
		{"graphqlUrl", c.GraphqlUrl},
		{"rpcUrl", c.RpcUrl},
	}
	for _, u := range urls {
		if u.value == "" {
			allErrors = append(allErrors, field.Required(field.NewPath(u.name), fmt.Sprintf("%s is required", u.name)))
			continue
		}
		parsed, err := url.Parse(u.value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			allErrors = append(allErrors, field.Invalid(field.NewPath(u.name), u.value, "must be an absolute URL"))
		}
	}

	if !common.IsHexAddress(c.AppAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("appAddress"), c.AppAddress, "invalid address format"))
	}
	if !common.IsHexAddress(c.InputBoxAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("inputBoxAddress"), c.InputBoxAddress, "invalid address format"))
	}
	if c.DomainChainId == 0 {
		allErrors = append(allErrors, field.Required(field.NewPath("domainChainId"), "domainChainId is required"))
	}
	if c.HTTPTimeout < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("httpTimeout"), c.HTTPTimeout.String(), "must not be negative"))
	}
	if c.IndexerRateLimit < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("indexerRateLimit"), c.IndexerRateLimit, "must not be negative"))
	}
	if c.AdvanceCount < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("advanceCount"), c.AdvanceCount, "must not be negative"))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
