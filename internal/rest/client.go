// Package rest implements the read-only REST façade: product specs/data
// (public) and orders/fills/block-trades (HMAC-authenticated), per spec.md
// §6. It is an external collaborator of the BTP core — it consumes
// internal/auth's signer but never touches pkg/btp's binary codec.
//
// Grounded on internal/exchange/client.go's resty wrapper (base URL,
// timeout, retries) with all Polymarket order-placement content replaced;
// only transport failures are retried, HTTP error statuses are not — this exchange's REST surface is read-only; order entry is the
// binary session's job (spec.md §1).
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"log/slog"

	"github.com/bitnomial/btnl-client/internal/auth"
	"github.com/bitnomial/btnl-client/internal/config"
	"github.com/bitnomial/btnl-client/pkg/types"
)

// ErrorKind classifies a RestError.
type ErrorKind int

const (
	// Http means the server answered with a non-2xx status.
	Http ErrorKind = iota
	// Decode means the response body didn't match the expected JSON shape.
	Decode
	// Transport means the request never reached or returned from the
	// server.
	Transport
)

// RestError is per-call; the façade surfaces it to its caller without
// retrying beyond resty's own transport-level retry (spec.md §7).
type RestError struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

func (e *RestError) Error() string {
	switch e.Kind {
	case Http:
		return fmt.Sprintf("rest: http %d: %s", e.Status, e.Body)
	case Decode:
		return fmt.Sprintf("rest: decode: %v", e.Err)
	default:
		return fmt.Sprintf("rest: transport: %v", e.Err)
	}
}

func (e *RestError) Unwrap() error { return e.Err }

// Client is the REST façade's HTTP client.
type Client struct {
	http   *resty.Client
	signer *auth.Signer // nil: only public endpoints may be called
	env    string
	rl     *RequestLimiter
	logger *slog.Logger
}

// NewClient builds a REST client for the configured base URL and
// environment. signer may be nil if the caller only needs the public
// product endpoints.
func NewClient(cfg config.Config, signer *auth.Signer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := cfg.API.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultRESTBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		}).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:   httpClient,
		signer: signer,
		env:    cfg.API.Env,
		rl:     DefaultRequestLimiter(),
		logger: logger.With("component", "rest"),
	}
}

func (c *Client) envPath(suffix string) string {
	return "/" + c.env + suffix
}

// GetProductSpec fetches one product's spec (public).
func (c *Client) GetProductSpec(ctx context.Context, productID int64, params types.ProductListParams) (*types.ProductSpec, error) {
	path := c.envPath(fmt.Sprintf("/product/spec/%d", productID))
	var result types.ProductSpec
	if err := c.getPublic(ctx, path, productListAuthParams(params), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProductSpecs fetches every matching product spec (public).
func (c *Client) GetProductSpecs(ctx context.Context, params types.ProductListParams) ([]types.ProductSpec, error) {
	path := c.envPath("/product/specs")
	var result []types.ProductSpec
	if err := c.getPublic(ctx, path, productListAuthParams(params), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetProductDatum fetches one product's market-data snapshot (public).
func (c *Client) GetProductDatum(ctx context.Context, productID int64, params types.ProductListParams) (*types.ProductData, error) {
	path := c.envPath(fmt.Sprintf("/product/data/%d", productID))
	var result types.ProductData
	if err := c.getPublic(ctx, path, productListAuthParams(params), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProductData fetches every matching product's market-data snapshot
// (public).
func (c *Client) GetProductData(ctx context.Context, params types.ProductListParams) ([]types.ProductData, error) {
	path := c.envPath("/product/data")
	var result []types.ProductData
	if err := c.getPublic(ctx, path, productListAuthParams(params), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetOrders fetches order history (HMAC-authenticated).
func (c *Client) GetOrders(ctx context.Context, params types.ListParams) (*types.PaginatedResponse[types.Order], error) {
	var result types.PaginatedResponse[types.Order]
	if err := c.getSigned(ctx, c.envPath("/orders"), listAuthParams(params), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFills fetches fill history (HMAC-authenticated).
func (c *Client) GetFills(ctx context.Context, params types.ListParams) (*types.PaginatedResponse[types.Fill], error) {
	var result types.PaginatedResponse[types.Fill]
	if err := c.getSigned(ctx, c.envPath("/fills"), listAuthParams(params), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBlockTrades fetches reported block trades (HMAC-authenticated).
func (c *Client) GetBlockTrades(ctx context.Context, params types.ListParams) (*types.PaginatedResponse[types.BlockTrade], error) {
	var result types.PaginatedResponse[types.BlockTrade]
	if err := c.getSigned(ctx, c.envPath("/block-trades"), listAuthParams(params), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) getPublic(ctx context.Context, path string, params []auth.Param, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return &RestError{Kind: Transport, Err: err}
	}

	req := c.http.R().SetContext(ctx).SetResult(out)
	applyQuery(req, params)

	correlationID := uuid.New().String()
	c.logger.Debug("rest request", "method", "GET", "path", path, "correlation_id", correlationID)

	resp, err := req.Get(path)
	return checkResponse(resp, err)
}

func (c *Client) getSigned(ctx context.Context, path string, params []auth.Param, out any) error {
	if c.signer == nil {
		return fmt.Errorf("rest: %s requires an authenticated client", path)
	}
	if err := c.rl.Wait(ctx); err != nil {
		return &RestError{Kind: Transport, Err: err}
	}

	timestamp := time.Now()
	headers, err := c.signer.Headers(http.MethodGet, path, params, timestamp)
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}

	req := c.http.R().SetContext(ctx).SetResult(out).SetHeaders(headers)
	applyQuery(req, params)

	correlationID := uuid.New().String()
	c.logger.Debug("rest request", "method", "GET", "path", path, "correlation_id", correlationID)

	resp, err := req.Get(path)
	return checkResponse(resp, err)
}

func applyQuery(req *resty.Request, params []auth.Param) {
	for _, p := range params {
		switch v := p.Value.(type) {
		case nil:
			continue
		case string:
			if v != "" {
				req.SetQueryParam(p.Key, v)
			}
		case []string:
			for _, item := range v {
				if item != "" {
					req.QueryParam.Add(p.Key, item)
				}
			}
		}
	}
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		if resp != nil && resp.StatusCode() == http.StatusOK {
			// resty already read a 200 body; a non-nil err at that point is
			// SetResult's json.Unmarshal failing on an unexpected shape.
			return &RestError{Kind: Decode, Err: err}
		}
		return &RestError{Kind: Transport, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &RestError{Kind: Http, Status: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
