package indexerClient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Layr-Labs/mugen-go/pkg/types"
)

const (
	voucherQuery = `query voucher($outputIndex: Int!) {
  voucher(outputIndex: $outputIndex) {
    index
    input { id index payload }
    destination
    executed
    value
    payload
    proof { outputIndex outputHashesSiblings }
  }
}`

	vouchersQuery = `query vouchers {
  vouchers {
    edges {
      node {
        index
        input { id index payload }
        destination
        value
        payload
      }
    }
  }
}`
)

// ClientConfig holds the configuration for the indexer client
type ClientConfig struct {
	GraphqlUrl string
	HttpClient *http.Client

	// RateLimit is the maximum number of queries per second. Zero disables pacing.
	RateLimit float64

	Logger *zap.Logger
}

// Client queries outputs from the rollups GraphQL indexer
type Client struct {
	graphqlUrl string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// errNotFound marks a GraphQL level "not found" error. The listing treats it as empty.
var errNotFound = errors.New("not found")

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type voucherData struct {
	Voucher *types.Output `json:"voucher"`
}

type vouchersData struct {
	Vouchers *struct {
		Edges []struct {
			Node *types.Output `json:"node"`
		} `json:"edges"`
	} `json:"vouchers"`
}

func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.GraphqlUrl == "" {
		return nil, fmt.Errorf("GraphQL URL is required")
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must not be negative")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		graphqlUrl: cfg.GraphqlUrl,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     cfg.Logger,
	}, nil
}

// FetchAll lists every output known to the indexer. Proofs are not included. A 404
// from the endpoint is reported as types.ErrIndexerUnavailable; an empty listing is
// not an error.
func (c *Client) FetchAll(ctx context.Context) ([]*types.Output, error) {
	outputs := make([]*types.Output, 0)

	var data vouchersData
	if err := c.query(ctx, "fetch outputs", vouchersQuery, nil, &data); err != nil {
		if errors.Is(err, errNotFound) {
			return outputs, nil
		}
		return nil, err
	}
	if data.Vouchers == nil {
		return outputs, nil
	}
	for _, edge := range data.Vouchers.Edges {
		if edge.Node != nil {
			outputs = append(outputs, edge.Node)
		}
	}

	c.logger.Sugar().Debugw("Fetched outputs", "count", len(outputs))
	return outputs, nil
}

// FetchOne queries a single output with its proof. The proof may carry no siblings
// when it has not been computed yet.
func (c *Client) FetchOne(ctx context.Context, index uint64) (*types.Output, error) {
	var data voucherData
	vars := map[string]interface{}{"outputIndex": index}
	if err := c.query(ctx, "fetch output", voucherQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Voucher == nil {
		return nil, &types.NetworkError{
			Op:  "fetch output",
			Url: c.graphqlUrl,
			Err: fmt.Errorf("output %d not found", index),
		}
	}

	c.logger.Sugar().Debugw("Fetched output",
		"index", index,
		"siblings", siblingCount(data.Voucher.Proof),
	)
	return data.Voucher, nil
}

func (c *Client) query(ctx context.Context, op string, query string, vars map[string]interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	body, err := json.Marshal(&graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	netErr := func(status int, respBody string, err error) error {
		return &types.NetworkError{Op: op, Url: c.graphqlUrl, StatusCode: status, Body: respBody, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlUrl, bytes.NewReader(body))
	if err != nil {
		return netErr(0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return netErr(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return netErr(resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode == http.StatusNotFound {
		return netErr(resp.StatusCode, string(respBody), types.ErrIndexerUnavailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return netErr(resp.StatusCode, string(respBody), nil)
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return netErr(resp.StatusCode, string(respBody), fmt.Errorf("failed to parse response: %w", err))
	}
	if len(parsed.Errors) > 0 {
		msg := parsed.Errors[0].Message
		if strings.Contains(strings.ToLower(msg), "not found") {
			return netErr(resp.StatusCode, string(respBody), fmt.Errorf("query failed: %s: %w", msg, errNotFound))
		}
		return netErr(resp.StatusCode, string(respBody), fmt.Errorf("query failed: %s", msg))
	}
	if len(parsed.Data) == 0 || string(parsed.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(parsed.Data, out); err != nil {
		return netErr(resp.StatusCode, string(respBody), fmt.Errorf("failed to parse data: %w", err))
	}
	return nil
}

func siblingCount(p *types.Proof) int {
	if p == nil {
		return 0
	}
	return len(p.OutputHashesSiblings)
}
