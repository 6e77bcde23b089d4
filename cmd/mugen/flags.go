package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/mugen-go/pkg/config"
)

const (
	flagConfig          = "config"
	flagNetwork         = "network"
	flagNodeUrl         = "node-url"
	flagNonceUrl        = "nonce-url"
	flagSubmitUrl       = "submit-url"
	flagGraphqlUrl      = "graphql-url"
	flagRpcUrl          = "rpc-url"
	flagAppAddress      = "app-address"
	flagInputBoxAddress = "input-box-address"
	flagDomainChainId   = "domain-chain-id"
	flagServiceKey      = "service-private-key"
	flagTimeout         = "timeout"
	flagIndexerRPS      = "indexer-rps"
	flagAdvanceCount    = "advance-count"
	flagVerbose         = "verbose"

	flagWallet      = "wallet"
	flagInputType   = "input-type"
	flagInput       = "input"
	flagOutputIndex = "output-index"

	envWallet = config.EnvMugenWallet
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Usage:   "Path to a YAML config file",
			EnvVars: []string{config.EnvMugenConfig},
		},
		&cli.StringFlag{
			Name:    flagNetwork,
			Usage:   "Target network: local (anvil) or remote (sepolia)",
			Value:   config.NetworkTargetLocal.String(),
			EnvVars: []string{config.EnvMugenNetwork},
		},
		&cli.StringFlag{
			Name:    flagNodeUrl,
			Usage:   "Rollups node base URL; nonce, submit and graphql endpoints derive from it",
			EnvVars: []string{config.EnvMugenNodeURL},
		},
		&cli.StringFlag{
			Name:    flagNonceUrl,
			Usage:   "Nonce authority URL",
			EnvVars: []string{config.EnvMugenNonceURL},
		},
		&cli.StringFlag{
			Name:    flagSubmitUrl,
			Usage:   "Relay endpoint URL",
			EnvVars: []string{config.EnvMugenSubmitURL},
		},
		&cli.StringFlag{
			Name:    flagGraphqlUrl,
			Usage:   "Indexer GraphQL URL",
			EnvVars: []string{config.EnvMugenGraphqlURL},
		},
		&cli.StringFlag{
			Name:    flagRpcUrl,
			Usage:   "Ethereum RPC URL",
			EnvVars: []string{config.EnvMugenRPCURL},
		},
		&cli.StringFlag{
			Name:    flagAppAddress,
			Usage:   "Application contract address",
			EnvVars: []string{config.EnvMugenAppAddress},
		},
		&cli.StringFlag{
			Name:    flagInputBoxAddress,
			Usage:   "InputBox contract address",
			EnvVars: []string{config.EnvMugenInputBoxAddress},
		},
		&cli.Uint64Flag{
			Name:    flagDomainChainId,
			Usage:   "Chain ID placed in the EIP-712 domain (default: the network chain ID)",
			EnvVars: []string{config.EnvMugenDomainChainID},
		},
		&cli.StringFlag{
			Name:    flagServiceKey,
			Usage:   "Private key or seed phrase for filler inputs and voucher execution (default: devnet account #0)",
			EnvVars: []string{config.EnvMugenServiceKey},
		},
		&cli.DurationFlag{
			Name:    flagTimeout,
			Usage:   "Timeout for each HTTP request",
			EnvVars: []string{config.EnvMugenHTTPTimeout},
		},
		&cli.Float64Flag{
			Name:    flagIndexerRPS,
			Usage:   "Maximum indexer queries per second, 0 for unlimited",
			EnvVars: []string{config.EnvMugenIndexerRPS},
		},
		&cli.IntFlag{
			Name:    flagAdvanceCount,
			Usage:   "Filler inputs sent when a proof is missing",
			EnvVars: []string{config.EnvMugenAdvanceCount},
		},
		&cli.BoolFlag{
			Name:    flagVerbose,
			Usage:   "Enable debug logging",
			EnvVars: []string{config.EnvMugenVerbose},
		},
	}
}

// buildConfig resolves the configuration: network defaults, then the YAML file,
// then environment variables and flags.
func buildConfig(c *cli.Context) (*config.MugenConfig, error) {
	target, err := config.ParseNetworkTarget(c.String(flagNetwork))
	if err != nil {
		return nil, err
	}
	cfg := config.DefaultConfig(target)

	if path := strings.TrimSpace(c.String(flagConfig)); path != "" {
		if err := config.LoadFromFile(path, cfg); err != nil {
			return nil, err
		}
		if cfg.Network != target && !c.IsSet(flagNetwork) {
			fromFile := config.DefaultConfig(cfg.Network)
			if err := config.LoadFromFile(path, fromFile); err != nil {
				return nil, err
			}
			cfg = fromFile
		}
	}
	if c.IsSet(flagNetwork) {
		cfg.Network = target
	}

	stringFlags := map[string]*string{
		flagNodeUrl:         &cfg.NodeUrl,
		flagNonceUrl:        &cfg.NonceUrl,
		flagSubmitUrl:       &cfg.SubmitUrl,
		flagGraphqlUrl:      &cfg.GraphqlUrl,
		flagRpcUrl:          &cfg.RpcUrl,
		flagAppAddress:      &cfg.AppAddress,
		flagInputBoxAddress: &cfg.InputBoxAddress,
		flagServiceKey:      &cfg.ServicePrivateKey,
	}
	for name, dst := range stringFlags {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	if c.IsSet(flagDomainChainId) {
		cfg.DomainChainId = c.Uint64(flagDomainChainId)
	}
	if c.IsSet(flagTimeout) {
		cfg.HTTPTimeout = c.Duration(flagTimeout)
	}
	if c.IsSet(flagIndexerRPS) {
		cfg.IndexerRateLimit = c.Float64(flagIndexerRPS)
	}
	if c.IsSet(flagAdvanceCount) {
		cfg.AdvanceCount = c.Int(flagAdvanceCount)
	}
	if c.IsSet(flagVerbose) {
		cfg.Verbose = c.Bool(flagVerbose)
	}

	cfg.ApplyDerivedDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
