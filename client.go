// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kanboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const (
	// DefaultAuthHeader is sent with HTTP Basic credentials. Any other header
	// name receives the bare base64 credentials.
	DefaultAuthHeader = "Authorization"

	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "Kanboard Go API Client"
)

// Params are the named arguments of a call, forwarded verbatim as the
// JSON-RPC params object.
type Params map[string]any

// Config is the immutable configuration of a Client.
type Config struct {
	URL                        string
	Username                   string
	Password                   string
	AuthHeader                 string
	CAFile                     string
	Insecure                   bool
	IgnoreHostnameVerification bool
	UserAgent                  string
	Timeout                    time.Duration
}

// Doer sends a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*options)

type options struct {
	cfg      Config
	http     Doer
	executor Executor
}

// WithAuthHeader sets the header that carries the credentials.
func WithAuthHeader(name string) Option {
	return func(o *options) { o.cfg.AuthHeader = name }
}

// WithCAFile trusts the PEM certificates in path instead of the system pool.
func WithCAFile(path string) Option {
	return func(o *options) { o.cfg.CAFile = path }
}

// WithInsecure disables certificate and hostname verification.
func WithInsecure(insecure bool) Option {
	return func(o *options) { o.cfg.Insecure = insecure }
}

// WithIgnoreHostnameVerification disables only the hostname check.
func WithIgnoreHostnameVerification(ignore bool) Option {
	return func(o *options) { o.cfg.IgnoreHostnameVerification = ignore }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.cfg.UserAgent = ua }
}

// WithTimeout bounds each HTTP exchange. Zero, the default, means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.cfg.Timeout = d }
}

// WithHTTPClient replaces the HTTP client built from the TLS settings. The
// CA file, Insecure, IgnoreHostnameVerification and Timeout settings are then
// ignored; configure them on d instead.
func WithHTTPClient(d Doer) Option {
	return func(o *options) { o.http = d }
}

// WithExecutor sets where asynchronous calls run. Defaults to DefaultExecutor.
func WithExecutor(e Executor) Option {
	return func(o *options) { o.executor = e }
}

// Client calls methods on a single Kanboard JSON-RPC endpoint. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	cfg        Config
	authValue  string
	httpClient Doer
	executor   Executor
}

// New returns a Client for the endpoint at url authenticated as
// username/password (an API token for the "jsonrpc" user works too).
func New(url, username, password string, opts ...Option) (*Client, error) {
	o := &options{cfg: Config{
		URL:        url,
		Username:   username,
		Password:   password,
		AuthHeader: DefaultAuthHeader,
		UserAgent:  DefaultUserAgent,
	}}
	for _, opt := range opts {
		opt(o)
	}
	return newClient(o)
}

// NewFromConfig returns a Client for cfg. Options are applied on top of it.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	o := &options{cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}
	return newClient(o)
}

func newClient(o *options) (*Client, error) {
	cfg := o.cfg
	switch {
	case cfg.URL == "":
		return nil, errors.New("kanboard: url required")
	case cfg.Username == "":
		return nil, errors.New("kanboard: username required")
	case cfg.Password == "":
		return nil, errors.New("kanboard: password required")
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = DefaultAuthHeader
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	httpClient := o.http
	if httpClient == nil {
		tlsCfg, err := TLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsCfg
		httpClient = &http.Client{Timeout: cfg.Timeout, Transport: transport}
	}
	executor := o.executor
	if executor == nil {
		executor = DefaultExecutor
	}

	return &Client{
		cfg:        cfg,
		authValue:  AuthHeaderValue(cfg.AuthHeader, cfg.Username, cfg.Password),
		httpClient: httpClient,
		executor:   executor,
	}, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Call invokes the method named by name, given in snake_case. Names ending
// in AsyncMarker run on the client's executor; Call waits for them either way.
func (c *Client) Call(ctx context.Context, name string, params Params) (any, error) {
	return c.Invoke(ctx, name, params).Await(ctx)
}

// CallResult is Call with the result decoded into out.
func (c *Client) CallResult(ctx context.Context, name string, params Params, out any) error {
	return c.Invoke(ctx, name, params).Decode(ctx, out)
}

// Invoke resolves name and starts the call. Synchronous names have completed
// by the time Invoke returns; asynchronous ones are submitted to the executor.
func (c *Client) Invoke(ctx context.Context, name string, params Params) *Future {
	method, async := ResolveName(name)
	if async {
		return c.Go(ctx, method, params)
	}
	f := newFuture()
	f.resolve(c.Execute(ctx, method, params))
	return f
}

func decodeResult(raw json.RawMessage) (any, error) {
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ClientError{Message: msgParseFailure + err.Error(), Err: err}
	}
	return out, nil
}
