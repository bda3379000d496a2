package badapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/SundaeSwap-finance/holder-snapshot/metrics"
	"github.com/SundaeSwap-finance/holder-snapshot/retry"
	"github.com/SundaeSwap-finance/holder-snapshot/types"
)

var ErrNotFound = errors.New("badapi: not found")

// StatusError is returned for any non-200 response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("badapi: status %d: %s", e.Code, e.Message())
}

// Message is the response body as the service sent it, or the status text when it was empty
func (e *StatusError) Message() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return http.StatusText(e.Code)
	}
	return body
}

func (e *StatusError) StatusCode() int { return e.Code }

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Client reads stake pools, policies, tokens and token owners from the indexing service.
// Requests are issued one at a time by the caller; the client only spaces and retries them
type Client struct {
	base    string
	client  *http.Client
	apiKey  string
	limiter *rate.Limiter
	retry   retry.Config
	log     *slog.Logger
}

var _ types.HolderLookup = (*Client)(nil)

type Option func(c *Client)

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithRateLimit spaces requests to at most perSecond, with the given burst
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(base string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		client: httpClient,
		retry:  retry.DefaultConfig(),
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, op string, path string, query url.Values, out interface{}) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	cfg := c.retry
	cfg.OnRetry = func(attempt int, err error) {
		metrics.LookupRetriesTotal.WithLabelValues(op).Inc()
		c.log.Debug("badapi: retrying request", "operation", op, "url", u, "attempt", attempt, "error", err)
	}
	return retry.Do(ctx, cfg, func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		start := time.Now()
		err := c.do(ctx, u, out)
		metrics.LookupDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.LookupRequestsTotal.WithLabelValues(op, status).Inc()
		return err
	})
}

func (c *Client) do(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("badapi: decode %v: %w", u, err)
	}
	return nil
}

func (c *Client) StakePoolDelegators(ctx context.Context, poolID types.PoolID) ([]types.StakeKey, error) {
	var out poolResponse
	query := url.Values{"withDelegators": {"true"}}
	if err := c.get(ctx, "stake_pool", "/cardano/pool/"+url.PathEscape(poolID), query, &out); err != nil {
		return nil, err
	}
	return out.Delegators, nil
}

func (c *Client) PolicyTokens(ctx context.Context, policyID types.PolicyID, withRanks bool) ([]types.TokenSummary, error) {
	var out policyResponse
	query := url.Values{
		"allTokens": {"true"},
		"withRanks": {strconv.FormatBool(withRanks)},
	}
	if err := c.get(ctx, "policy", "/cardano/policy/"+url.PathEscape(policyID), query, &out); err != nil {
		return nil, err
	}
	tokens := make([]types.TokenSummary, 0, len(out.Tokens))
	for _, t := range out.Tokens {
		tokens = append(tokens, t.summary())
	}
	return tokens, nil
}

func (c *Client) Token(ctx context.Context, tokenID types.TokenID) (types.TokenDetail, error) {
	var out tokenResponse
	if err := c.get(ctx, "token", "/cardano/token/"+url.PathEscape(tokenID), nil, &out); err != nil {
		return types.TokenDetail{}, err
	}
	return out.detail(), nil
}

func (c *Client) TokenOwners(ctx context.Context, tokenID types.TokenID, page int) ([]types.TokenOwner, error) {
	var out ownersResponse
	query := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.get(ctx, "token_owners", "/cardano/token/"+url.PathEscape(tokenID)+"/owners", query, &out); err != nil {
		return nil, err
	}
	owners := make([]types.TokenOwner, 0, len(out.Owners))
	for _, o := range out.Owners {
		owner := types.TokenOwner{Quantity: o.Quantity, StakeKey: o.StakeKey}
		for _, a := range o.Addresses {
			owner.Addresses = append(owner.Addresses, types.OwnerAddress{Address: a.Address, IsScript: a.IsScript})
		}
		owners = append(owners, owner)
	}
	return owners, nil
}
