package nonceClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Layr-Labs/mugen-go/pkg/types"
)

// ClientConfig holds the configuration for the nonce authority client
type ClientConfig struct {
	NonceUrl   string
	HttpClient *http.Client
	Logger     *zap.Logger
}

// Client fetches the next input nonce for a (sender, application) pair
type Client struct {
	nonceUrl   string
	httpClient *http.Client
	logger     *zap.Logger
}

type nonceRequest struct {
	MsgSender   string `json:"msg_sender"`
	AppContract string `json:"app_contract"`
}

type nonceResponse struct {
	Nonce *uint64 `json:"nonce"`
}

func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.NonceUrl == "" {
		return nil, fmt.Errorf("nonce URL is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		nonceUrl:   cfg.NonceUrl,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// FetchNonce asks the nonce authority for the next nonce. There is no retry and no
// fallback value; any failure is a *types.NetworkError.
func (c *Client) FetchNonce(ctx context.Context, sender common.Address, app common.Address) (uint64, error) {
	body, err := json.Marshal(&nonceRequest{
		MsgSender:   sender.Hex(),
		AppContract: app.Hex(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal nonce request: %w", err)
	}

	netErr := func(status int, respBody string, err error) error {
		return &types.NetworkError{Op: "fetch nonce", Url: c.nonceUrl, StatusCode: status, Body: respBody, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.nonceUrl, bytes.NewReader(body))
	if err != nil {
		return 0, netErr(0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, netErr(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, netErr(resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, netErr(resp.StatusCode, string(respBody), nil)
	}

	var parsed nonceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return 0, netErr(resp.StatusCode, string(respBody), fmt.Errorf("failed to parse nonce response: %w", err))
	}
	if parsed.Nonce == nil {
		return 0, netErr(resp.StatusCode, string(respBody), fmt.Errorf("nonce missing from response"))
	}

	c.logger.Sugar().Debugw("Fetched nonce",
		"sender", sender.Hex(),
		"app", app.Hex(),
		"nonce", *parsed.Nonce,
	)
	return *parsed.Nonce, nil
}
