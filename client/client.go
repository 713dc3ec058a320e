// Package client is a typed caller for the /api/trpc endpoint. It keeps the
// session cookie between calls, caches query results per (path, input) and
// drops the cached queries a mutation makes stale.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/rpc"
)

const (
	defaultCacheSize = 256
	defaultTimeout   = 15 * time.Second
	rpcPath          = "/api/trpc"
)

type options struct {
	httpClient *http.Client
	cacheSize  int
	timeout    time.Duration
}

type Option func(*options)

// WithHTTPClient sends requests through hc. Its cookie jar is replaced.
func WithHTTPClient(hc *http.Client) Option { return func(o *options) { o.httpClient = hc } }

// WithCacheSize bounds the number of cached query results.
func WithCacheSize(n int) Option { return func(o *options) { o.cacheSize = n } }

func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

type Client struct {
	http  *resty.Client
	cache *lru.Cache[string, json.RawMessage]
}

// New returns a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := options{cacheSize: defaultCacheSize, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, json.RawMessage](o.cacheSize)
	if err != nil {
		return nil, err
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetCookieJar(jar).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, cache: cache}, nil
}

// Query runs a query procedure, answering from the cache when it can.
func (c *Client) Query(ctx context.Context, path string, input, out any) error {
	key, err := cacheKey(path, input)
	if err != nil {
		return err
	}
	if data, ok := c.cache.Get(key); ok {
		return decode(data, out)
	}
	data, err := c.call(ctx, path, input)
	if err != nil {
		return err
	}
	c.cache.Add(key, data)
	return decode(data, out)
}

// Mutate runs a mutation procedure and, on success, invalidates the queries
// it affects.
func (c *Client) Mutate(ctx context.Context, path string, input, out any) error {
	data, err := c.call(ctx, path, input)
	if err != nil {
		return err
	}
	c.invalidateFor(path)
	return decode(data, out)
}

// Call is one entry of a batch. Out receives the result and Err the error of
// this call alone.
type Call struct {
	Path  string
	Input any
	Out   any
	Err   error
}

// Batch sends every call in one request. The returned error is a transport
// failure; per-call failures are left in each Call.Err.
func (c *Client) Batch(ctx context.Context, calls ...*Call) error {
	if len(calls) == 0 {
		return nil
	}
	if len(calls) > rpc.MaxBatch {
		return fmt.Errorf("client: batch of %d exceeds %d calls", len(calls), rpc.MaxBatch)
	}
	reqs := make([]rpc.Request, len(calls))
	for i, call := range calls {
		input, err := json.Marshal(call.Input)
		if err != nil {
			return err
		}
		reqs[i] = rpc.Request{ID: json.RawMessage(fmt.Sprint(i)), Path: call.Path, Input: input}
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(reqs).Post(rpcPath)
	if err != nil {
		return networkError(err)
	}
	var out []rpc.Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return responseError(resp.StatusCode(), resp.Body())
	}
	if len(out) != len(calls) {
		return fmt.Errorf("client: batch answered %d of %d calls", len(out), len(calls))
	}

	for i, call := range calls {
		r := out[i]
		if r.Error != nil {
			call.Err = &Error{Code: r.Error.Code, Message: r.Error.Message, Status: r.Error.HTTPStatus()}
			continue
		}
		if r.Result == nil {
			call.Err = fmt.Errorf("client: empty result for %s", call.Path)
			continue
		}
		if _, ok := invalidates[call.Path]; ok {
			c.invalidateFor(call.Path)
		} else if key, err := cacheKey(call.Path, call.Input); err == nil {
			c.cache.Add(key, r.Result.Data)
		}
		call.Err = decode(r.Result.Data, call.Out)
	}
	return nil
}

// Invalidate drops the cached results of the given query paths.
func (c *Client) Invalidate(paths ...string) {
	for _, key := range c.cache.Keys() {
		for _, p := range paths {
			if strings.HasPrefix(key, p+"\x00") {
				c.cache.Remove(key)
				break
			}
		}
	}
}

// Reset drops every cached result.
func (c *Client) Reset() { c.cache.Purge() }

func (c *Client) call(ctx context.Context, path string, input any) (json.RawMessage, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(input).Post(rpcPath + "/" + path)
	if err != nil {
		return nil, networkError(err)
	}
	var out rpc.Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, responseError(resp.StatusCode(), resp.Body())
	}
	if out.Error != nil {
		return nil, &Error{Code: out.Error.Code, Message: out.Error.Message, Status: resp.StatusCode()}
	}
	if out.Result == nil {
		return nil, responseError(resp.StatusCode(), resp.Body())
	}
	return out.Result.Data, nil
}

func (c *Client) invalidateFor(mutation string) {
	paths := invalidates[mutation]
	if len(paths) == 1 && paths[0] == invalidateAll {
		c.Reset()
		return
	}
	c.Invalidate(paths...)
}

// Session returns the signed-in session, or nil.
func (c *Client) Session(ctx context.Context) (*auth.Session, error) {
	var out struct {
		Session *auth.Session `json:"session"`
	}
	if err := c.rest(ctx, http.MethodGet, "/api/auth/session", nil, &out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

// SignOut clears the session cookie and the cache.
func (c *Client) SignOut(ctx context.Context) error {
	c.Reset()
	return c.rest(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
}

// TestLogin signs in as the fixed test account of role. Only available on
// servers running the end-to-end profile.
func (c *Client) TestLogin(ctx context.Context, role entity.Role) (*auth.Session, error) {
	var out struct {
		Session *auth.Session `json:"session"`
	}
	if err := c.rest(ctx, http.MethodPost, "/api/test/login", map[string]entity.Role{"role": role}, &out); err != nil {
		return nil, err
	}
	c.Reset()
	return out.Session, nil
}

func (c *Client) rest(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return networkError(err)
	}
	if resp.IsError() {
		return responseError(resp.StatusCode(), resp.Body())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return responseError(resp.StatusCode(), resp.Body())
	}
	return nil
}

func cacheKey(path string, input any) (string, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return path + "\x00" + string(b), nil
}

func decode(data json.RawMessage, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
