package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Layr-Labs/mugen-go/pkg/config"
	"github.com/Layr-Labs/mugen-go/pkg/typedData"
	"github.com/Layr-Labs/mugen-go/pkg/types"
	"github.com/Layr-Labs/mugen-go/pkg/wallet"
)

// NonceFetcher is the nonce authority used before every signature
type NonceFetcher interface {
	FetchNonce(ctx context.Context, sender common.Address, app common.Address) (uint64, error)
}

// ClientConfig holds the configuration for the relay client
type ClientConfig struct {
	SubmitUrl     string
	DomainChainId uint64
	Nonces        NonceFetcher
	HttpClient    *http.Client
	Logger        *zap.Logger
}

// Client signs typed messages and submits them to the off-chain inbox
type Client struct {
	submitUrl     string
	domainChainId uint64
	nonces        NonceFetcher
	httpClient    *http.Client
	logger        *zap.Logger
}

// Submission is the body posted to the relay endpoint
type Submission struct {
	TypedData wireTypedData `json:"typedData"`
	Account   string        `json:"account"`
	Signature string        `json:"signature"`
}

type wireDomain struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	ChainId           uint64 `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
}

type wireMessage struct {
	App         string `json:"app"`
	Nonce       uint64 `json:"nonce"`
	Data        string `json:"data"`
	MaxGasPrice uint64 `json:"max_gas_price"`
}

type wireTypedData struct {
	Domain      wireDomain     `json:"domain"`
	Types       apitypes.Types `json:"types"`
	PrimaryType string         `json:"primaryType"`
	Message     wireMessage    `json:"message"`
}

type submitResponse struct {
	Id string `json:"id"`
}

func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.SubmitUrl == "" {
		return nil, fmt.Errorf("submit URL is required")
	}
	if cfg.DomainChainId == 0 {
		return nil, fmt.Errorf("domain chain ID is required")
	}
	if cfg.Nonces == nil {
		return nil, fmt.Errorf("nonce fetcher is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		submitUrl:     cfg.SubmitUrl,
		domainChainId: cfg.DomainChainId,
		nonces:        cfg.Nonces,
		httpClient:    httpClient,
		logger:        cfg.Logger,
	}, nil
}

// Send runs the whole relay flow: encode the input, fetch a fresh nonce for the
// signer, build the typed message, sign and submit it. Any failure aborts the flow.
func (c *Client) Send(
	ctx context.Context,
	signer wallet.Signer,
	app common.Address,
	encoding config.InputEncoding,
	input string,
) (string, error) {
	payload, err := typedData.EncodePayload(encoding, input)
	if err != nil {
		return "", fmt.Errorf("failed to encode input: %w", err)
	}

	nonce, err := c.nonces.FetchNonce(ctx, signer.Address(), app)
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}

	msg := typedData.Build(app, nonce, payload, c.domainChainId)
	return c.Relay(ctx, signer, msg)
}

// Relay signs msg with signer and posts it to the relay endpoint, returning the
// submission id. It never retries: the nonce is spent once the request is sent.
func (c *Client) Relay(ctx context.Context, signer wallet.Signer, msg *typedData.TypedMessage) (string, error) {
	hash, err := msg.Hash()
	if err != nil {
		return "", &types.SigningError{Err: err}
	}
	signature, err := signer.SignHash(hash)
	if err != nil {
		return "", &types.SigningError{Err: err}
	}

	submission, err := NewSubmission(msg, signer.Address(), signature)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(submission)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submission: %w", err)
	}

	c.logger.Sugar().Infow("Relaying signed input",
		"account", signer.Address().Hex(),
		"app", msg.Message.App.Hex(),
		"nonce", msg.Message.Nonce,
	)

	netErr := func(status int, respBody string, err error) error {
		return &types.NetworkError{Op: "submit input", Url: c.submitUrl, StatusCode: status, Body: respBody, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submitUrl, bytes.NewReader(body))
	if err != nil {
		return "", netErr(0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", netErr(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", netErr(resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", netErr(resp.StatusCode, string(respBody), nil)
	}

	var parsed submitResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", netErr(resp.StatusCode, string(respBody), fmt.Errorf("failed to parse submit response: %w", err))
	}
	if parsed.Id == "" {
		return "", netErr(resp.StatusCode, string(respBody), fmt.Errorf("submission id missing from response"))
	}

	c.logger.Sugar().Infow("Input submitted", "id", parsed.Id)
	return parsed.Id, nil
}

// NewSubmission serializes the signed message. Big integer fields become plain JSON
// integers; a value that does not fit fails with types.ErrNumericOverflow.
func NewSubmission(msg *typedData.TypedMessage, account common.Address, signature []byte) (*Submission, error) {
	chainId, err := toWireInteger("chainId", msg.Domain.ChainId)
	if err != nil {
		return nil, err
	}
	maxGasPrice, err := toWireInteger("max_gas_price", msg.Message.MaxGasPrice)
	if err != nil {
		return nil, err
	}

	return &Submission{
		TypedData: wireTypedData{
			Domain: wireDomain{
				Name:              msg.Domain.Name,
				Version:           msg.Domain.Version,
				ChainId:           chainId,
				VerifyingContract: msg.Domain.VerifyingContract.Hex(),
			},
			Types:       typedData.Types(),
			PrimaryType: typedData.PrimaryType,
			Message: wireMessage{
				App:         msg.Message.App.Hex(),
				Nonce:       msg.Message.Nonce,
				Data:        msg.Message.Data,
				MaxGasPrice: maxGasPrice,
			},
		},
		Account:   account.Hex(),
		Signature: hexutil.Encode(signature),
	}, nil
}

func toWireInteger(name string, v *big.Int) (uint64, error) {
	if v == nil {
		return 0, fmt.Errorf("%s is missing", name)
	}
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%s=%s: %w", name, v.String(), types.ErrNumericOverflow)
	}
	return v.Uint64(), nil
}
