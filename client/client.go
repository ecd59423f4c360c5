package client

import (
	"context"
	"fmt"
	"github.com/infiotinc/gqlbasic/client/transport"
	"github.com/rs/zerolog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client posts GraphQL operations to a single endpoint. It is safe for
// concurrent use; nothing in it changes after construction.
type Client struct {
	Transport transport.Transport

	url string
	cfg Config
	log zerolog.Logger
}

// New validates endpoint and builds a Client from DefaultConfig plus options
func New(endpoint string, options ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, o := range options {
		o(&cfg)
	}

	return NewWithConfig(endpoint, cfg)
}

func NewWithConfig(endpoint string, cfg Config) (*Client, error) {
	if err := validateURL(endpoint); err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()

	httpcli := transport.NewHttpClient(transport.HttpConfig{
		RequestTimeout: cfg.RequestTimeout,
		ConnectTimeout: cfg.ConnectTimeout,
		VerifyTLS:      cfg.VerifyTLS,
	}, cfg.TransportOptions...)

	c := &Client{
		Transport: &transport.Http{
			URL:            endpoint,
			Client:         httpcli,
			RequestOptions: cfg.RequestOptions,
		},
		url: endpoint,
		cfg: cfg,
		log: cfg.logger().With().Str("url", endpoint).Logger(),
	}

	if !cfg.VerifyTLS {
		c.log.Warn().Msg("TLS verification disabled")
	}

	return c, nil
}

// URL returns the configured endpoint
func (c *Client) URL() string {
	return c.url
}

// Config returns a copy of the client configuration
func (c *Client) Config() Config {
	return c.cfg.withDefaults()
}

// Execute runs a query or mutation. variables and headers are optional.
// Caller headers replace the defaults on key collision.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}, headers http.Header) (*Response, error) {
	return c.do(ctx, "", query, variables, headers)
}

// ExecuteOperation is Execute with an operationName in the request body
func (c *Client) ExecuteOperation(ctx context.Context, operationName string, query string, variables map[string]interface{}, headers http.Header) (*Response, error) {
	return c.do(ctx, operationName, query, variables, headers)
}

func (c *Client) do(ctx context.Context, operationName string, query string, variables map[string]interface{}, headers http.Header) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(query) == "" {
		return nil, newConfigurationError("GraphQL query cannot be empty", c.url, query)
	}

	req := &transport.Request{
		Context:       ctx,
		OperationName: operationName,
		Query:         query,
		Variables:     variables,
	}

	body, err := transport.NewOperationRequestFromRequest(req).Encode()
	if err != nil {
		c.log.Debug().Err(err).Msg("encode request")
		return nil, newSerializationError(err)
	}
	req.Body = body

	req.Header, err = c.composeHeader(headers)
	if err != nil {
		return nil, err
	}

	if c.cfg.Debug {
		req.Context = transport.WithTrace(ctx, c.log)
	}

	start := time.Now()
	c.log.Debug().Str("operation", operationName).Int("bytes", len(body)).Msg("dispatch")

	res, err := c.Transport.Request(req)
	if err != nil {
		terr := newTransportError(c.url, transportCode(err), err)
		c.log.Warn().Err(err).Str("code", terr.Code).Dur("elapsed", time.Since(start)).Msg("transport failure")
		return nil, terr
	}

	c.log.Debug().Int("status", res.StatusCode).Int("bytes", len(res.Body)).Dur("elapsed", time.Since(start)).Msg("response")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, newHTTPStatusError(c.url, res.StatusCode, res.Header, res.Body)
	}

	opres, err := decodeResponse(res.Body)
	if err != nil {
		return nil, newDecodeError(res.Body, err)
	}

	if raw, ok := graphQLErrors(opres.Fields); ok {
		gerr := newGraphQLError(joinErrorMessages(raw), raw, toGQLErrors(raw), opres)
		c.log.Debug().Int("errors", len(raw)).Msg(gerr.Message)
		return nil, gerr
	}

	return opres, nil
}

func (c *Client) composeHeader(headers http.Header) (http.Header, error) {
	h := http.Header{}

	if c.cfg.TokenSource != nil {
		tok, err := c.cfg.TokenSource.Token()
		if err != nil {
			return nil, newTransportError(c.url, CodeAuth, fmt.Errorf("token: %w", err))
		}
		h.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	}

	for k, vs := range headers {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}

	return h, nil
}

func validateURL(endpoint string) error {
	if endpoint == "" {
		return newConfigurationError("URL cannot be empty", endpoint, "")
	}

	u, err := url.Parse(endpoint)
	if err != nil || !u.IsAbs() || u.Host == "" || u.Hostname() == "" {
		return newConfigurationError(fmt.Sprintf("invalid URL format: %s", endpoint), endpoint, "")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return newConfigurationError("URL must use HTTP or HTTPS protocol", endpoint, "")
	}

	return nil
}
