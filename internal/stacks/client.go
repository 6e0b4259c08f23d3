package stacks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"daoview/internal/clarity"
	"daoview/internal/domain"
)

// DefaultEndpoints are the public Hiro API hosts
var DefaultEndpoints = map[domain.Network]string{
	domain.NetworkMainnet: "https://api.mainnet.hiro.so",
	domain.NetworkTestnet: "https://api.testnet.hiro.so",
}

// ClientConfig holds settings for the HTTP client
type ClientConfig struct {
	Endpoints    map[domain.Network]string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultClientConfig returns sensible client defaults
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Endpoints:    DefaultEndpoints,
		Timeout:      10 * time.Second,
		MaxRetries:   2,
		RetryBackoff: 250 * time.Millisecond,
	}
}

// APIError is a non-success HTTP response from the remote API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stacks api returned %d: %s", e.StatusCode, e.Body)
}

// Client is the HTTP implementation of the Remote Read Interface
type Client struct {
	config ClientConfig
	http   *http.Client
}

// NewClient creates a new client. Unset endpoints and timeout come from
// DefaultClientConfig.
func NewClient(cfg ClientConfig) *Client {
	defaults := DefaultClientConfig()
	if cfg.Endpoints == nil {
		cfg.Endpoints = defaults.Endpoints
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
	}
}

// CallReadOnly invokes a read-only function and decodes its result.
// args are hex-encoded serialized values.
func (c *Client) CallReadOnly(ctx context.Context, principal, contractName, function string, args []string, sender string, network domain.Network) (clarity.Value, error) {
	if args == nil {
		args = []string{}
	}
	body, err := json.Marshal(callReadRequest{Sender: sender, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("encode call-read request: %w", err)
	}

	path := fmt.Sprintf("/v2/contracts/call-read/%s/%s/%s",
		url.PathEscape(principal), url.PathEscape(contractName), url.PathEscape(function))

	var resp callReadResponse
	if err := c.do(ctx, network, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	if !resp.Okay {
		if strings.Contains(resp.Cause, "NoSuchContract") {
			return nil, fmt.Errorf("%w: %s.%s", domain.ErrContractNotFound, principal, contractName)
		}
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrFunctionNotAvailable, function, resp.Cause)
	}

	value, err := clarity.DecodeHex(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("decode %s result: %w", function, err)
	}
	return value, nil
}

// FetchAccountBalance returns the balances held by address
func (c *Client) FetchAccountBalance(ctx context.Context, address string, network domain.Network) (*AccountBalance, error) {
	var resp AccountBalance
	path := fmt.Sprintf("/extended/v1/address/%s/balances", url.PathEscape(address))
	if err := c.do(ctx, network, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLatestBlockHeight returns the current chain tip height
func (c *Client) GetLatestBlockHeight(ctx context.Context, network domain.Network) (int64, error) {
	var resp infoResponse
	if err := c.do(ctx, network, http.MethodGet, "/v2/info", nil, &resp); err != nil {
		return 0, err
	}
	return resp.StacksTipHeight, nil
}

// GetContractInterface returns the declared functions, variables and maps of a contract
func (c *Client) GetContractInterface(ctx context.Context, principal, contractName string, network domain.Network) (*ContractInterface, error) {
	var resp ContractInterface
	path := fmt.Sprintf("/v2/contracts/interface/%s/%s", url.PathEscape(principal), url.PathEscape(contractName))
	if err := c.do(ctx, network, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs a request with retries on transport errors, 429 and 5xx
func (c *Client) do(ctx context.Context, network domain.Network, method, path string, body []byte, out interface{}) error {
	base, ok := c.config.Endpoints[network]
	if !ok {
		return fmt.Errorf("no endpoint configured for network %q", network)
	}

	backoff := c.config.RetryBackoff
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", domain.ErrNetworkUnreachable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		retry, err := c.attempt(ctx, method, base+path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
		log.Printf("Stacks API %s %s failed (attempt %d): %v", method, path, attempt+1, err)
	}

	var apiErr *APIError
	if errors.As(lastErr, &apiErr) {
		return fmt.Errorf("%w: %v", domain.ErrNetworkUnreachable, lastErr)
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, target string, body []byte, out interface{}) (bool, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIKey != "" {
		req.Header.Set("x-api-key", c.config.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("%w: %v", domain.ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("%w: %s", domain.ErrContractNotFound, target)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return true, &APIError{StatusCode: resp.StatusCode, Body: string(msg)}
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, &APIError{StatusCode: resp.StatusCode, Body: string(msg)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}
