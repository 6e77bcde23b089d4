package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/mugen-go/pkg/advance"
	"github.com/Layr-Labs/mugen-go/pkg/clients/indexerClient"
	"github.com/Layr-Labs/mugen-go/pkg/clients/nonceClient"
	"github.com/Layr-Labs/mugen-go/pkg/config"
	"github.com/Layr-Labs/mugen-go/pkg/contractCaller/caller"
	"github.com/Layr-Labs/mugen-go/pkg/logger"
	"github.com/Layr-Labs/mugen-go/pkg/relay"
	"github.com/Layr-Labs/mugen-go/pkg/session"
	"github.com/Layr-Labs/mugen-go/pkg/settlement"
	"github.com/Layr-Labs/mugen-go/pkg/transactionSigner"
	"github.com/Layr-Labs/mugen-go/pkg/types"
	"github.com/Layr-Labs/mugen-go/pkg/wallet"
)

// invocation holds the state of a single CLI run.
type invocation struct {
	out     io.Writer
	session *session.Session
	cfg     *config.MugenConfig
	logger  *zap.Logger
}

type commandFunc func(ctx context.Context, c *cli.Context, rt *invocation) error

// action resolves configuration and opens the session before running fn.
func (rt *invocation) action(fn commandFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := buildConfig(c)
		if err != nil {
			return err
		}
		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Verbose})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		rt.cfg = cfg
		rt.session = session.New(l, rt.out)
		rt.logger = rt.session.Logger

		rt.logger.Sugar().Debugw("Resolved configuration",
			"network", cfg.Network.String(),
			"nodeUrl", cfg.NodeUrl,
			"rpcUrl", cfg.RpcUrl,
			"app", cfg.AppAddress,
		)
		defer func() { _ = rt.logger.Sync() }()

		return fn(c.Context, c, rt)
	}
}

func (rt *invocation) httpClient() *http.Client {
	return &http.Client{Timeout: rt.cfg.HTTPTimeout}
}

// sendCommand handles the send subcommand
func sendCommand(ctx context.Context, c *cli.Context, rt *invocation) error {
	encoding, err := config.ParseInputEncoding(c.String(flagInputType))
	if err != nil {
		return err
	}

	signer, err := wallet.Resolve(c.String(flagWallet), rt.cfg.Network)
	if err != nil {
		return fmt.Errorf("failed to resolve wallet: %w", err)
	}

	nonces, err := nonceClient.NewClient(&nonceClient.ClientConfig{
		NonceUrl:   rt.cfg.NonceUrl,
		HttpClient: rt.httpClient(),
		Logger:     rt.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create nonce client: %w", err)
	}

	relayClient, err := relay.NewClient(&relay.ClientConfig{
		SubmitUrl:     rt.cfg.SubmitUrl,
		DomainChainId: rt.cfg.DomainChainId,
		Nonces:        nonces,
		HttpClient:    rt.httpClient(),
		Logger:        rt.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create relay client: %w", err)
	}

	rt.session.Printf("📨 Sending input from %s to %s\n", signer.Address().Hex(), rt.cfg.ApplicationAddress().Hex())

	id, err := relayClient.Send(ctx, signer, rt.cfg.ApplicationAddress(), encoding, c.String(flagInput))
	if err != nil {
		return err
	}

	rt.session.Printf("Input submitted: %s\n", id)
	return nil
}

// vouchersCommand handles the vouchers subcommand
func vouchersCommand(ctx context.Context, c *cli.Context, rt *invocation) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	outputs, err := engine.Process(ctx)
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		rt.session.Printf("No vouchers found\n")
		return nil
	}
	for _, out := range outputs {
		printOutput(rt.session, out)
	}
	return nil
}

// executeCommand handles the execute subcommand
func executeCommand(ctx context.Context, c *cli.Context, rt *invocation) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	outputs, err := engine.Process(ctx)
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		rt.session.Printf("No pending vouchers\n")
		return nil
	}

	selected := outputs[0]
	if c.IsSet(flagOutputIndex) {
		selected, err = settlement.Select(outputs, c.Uint64(flagOutputIndex))
		if err != nil {
			return err
		}
	}
	printOutput(rt.session, selected)

	txHash, err := engine.Execute(ctx, selected)
	if err != nil {
		return err
	}

	rt.session.Printf("Voucher %d executed in transaction %s\n", selected.Index, txHash.Hex())
	return nil
}

// createEngine wires the indexer, the chain client and the service signer into a
// settlement engine.
func createEngine(rt *invocation) (*settlement.Engine, error) {
	outputs, err := indexerClient.NewClient(&indexerClient.ClientConfig{
		GraphqlUrl: rt.cfg.GraphqlUrl,
		HttpClient: rt.httpClient(),
		RateLimit:  rt.cfg.IndexerRateLimit,
		Logger:     rt.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer client: %w", err)
	}

	ethClient := ethereum.NewEthereumClient(&ethereum.EthereumClientConfig{
		BaseUrl:   rt.cfg.RpcUrl,
		BlockType: ethereum.BlockType_Latest,
	}, rt.logger)

	l1Client, err := ethClient.GetEthereumContractCaller()
	if err != nil {
		return nil, fmt.Errorf("failed to get Ethereum contract caller: %w", err)
	}

	serviceKey, err := resolveServiceKey(rt.cfg.ServicePrivateKey)
	if err != nil {
		return nil, err
	}
	txSigner, err := transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{
		PrivateKey: serviceKey,
	}, l1Client, rt.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction signer: %w", err)
	}

	contractCaller, err := caller.NewContractCaller(l1Client, txSigner, rt.cfg.InputBox(), rt.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract caller: %w", err)
	}

	trigger, err := advance.NewTrigger(&advance.TriggerConfig{
		InputAdder:         contractCaller,
		ApplicationAddress: rt.cfg.ApplicationAddress(),
		Count:              rt.cfg.AdvanceCount,
		Logger:             rt.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create advance trigger: %w", err)
	}

	return settlement.NewEngine(&settlement.EngineConfig{
		Outputs:            outputs,
		Advancer:           trigger,
		Executor:           contractCaller,
		ApplicationAddress: rt.cfg.ApplicationAddress(),
		Logger:             rt.logger,
	})
}

// resolveServiceKey accepts a hex key or a seed phrase. Empty means the first devnet
// account.
func resolveServiceKey(selector string) (string, error) {
	if selector == "" {
		return wallet.DefaultRegistry().ServiceAccount().PrivateKey, nil
	}
	if wallet.Classify(selector, config.NetworkTargetRemote) != config.CredentialKindSeedPhrase {
		return selector, nil
	}
	signer, err := wallet.NewSeedPhraseSigner(selector)
	if err != nil {
		return "", fmt.Errorf("failed to resolve service key: %w", err)
	}
	return signer.PrivateKeyHex(), nil
}

func printOutput(s *session.Session, out *types.DecodedOutput) {
	proofStatus := "ready"
	if out.ProofPending() {
		proofStatus = "pending"
	}
	s.Printf("[%d] %s\n", out.Index, out.Description)
	s.Printf("    destination: %s value: %s executed: %t proof: %s\n", out.Destination, out.Value, out.Executed, proofStatus)
	if out.OutputsRoot != nil {
		s.Printf("    outputs root: %s\n", out.OutputsRoot.Hex())
	}
	if out.ProofErr != nil {
		s.Printf("    proof error: %v\n", out.ProofErr)
	}
}
