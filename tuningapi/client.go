/*
Copyright 2021 TuneLab, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tuningapi

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config exposes the information for configuring a tuning API client
type Config interface {
	// TuningURL returns a URL to the tuning API
	TuningURL(path string) (*url.URL, error)

	// Authorize returns a transport that applies the authorization defined by this configuration. The
	// supplied context is used for any additional requests necessary to perform authentication. If this
	// configuration does not define any authorization details, the supplied transport may be returned
	// directly.
	Authorize(ctx context.Context, transport http.RoundTripper) (http.RoundTripper, error)
}

// Client handles the transport level concerns of talking to the tuning API
type Client interface {
	URL(endpoint string) *url.URL
	Do(context.Context, *http.Request) (*http.Response, []byte, error)
}

// ClientOption adjusts the behavior of the client returned by NewClient
type ClientOption func(*httpClient)

// WithLogger sets the logger used to record individual API requests (at verbosity 1)
func WithLogger(log logr.Logger) ClientOption {
	return func(c *httpClient) { c.log = log }
}

// WithRateLimit bounds the request rate, primarily to keep paginated trial listings polite
func WithRateLimit(limit rate.Limit, burst int) ClientOption {
	return func(c *httpClient) { c.limiter = rate.NewLimiter(limit, burst) }
}

// NewClient returns a new client for accessing the tuning API; the supplied context is used for
// authentication/authorization requests and the supplied transport (which may be nil in the case
// of the default transport) is used for all requests made to the API server.
func NewClient(ctx context.Context, cfg Config, transport http.RoundTripper, opts ...ClientOption) (Client, error) {
	var err error

	hc := &httpClient{
		config:  cfg,
		log:     zapr.NewLogger(zap.NewNop()),
		limiter: rate.NewLimiter(rate.Limit(20), 20),
	}
	hc.client.Timeout = 10 * time.Second

	// Configure the OAuth2 transport
	hc.client.Transport, err = cfg.Authorize(ctx, transport)
	if err != nil {
		return nil, err
	}

	// Make sure that we can ignore the error from TuningURL
	if _, err = cfg.TuningURL(""); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(hc)
	}

	return hc, nil
}

type httpClient struct {
	config  Config
	client  http.Client
	log     logr.Logger
	limiter *rate.Limiter
}

func (c *httpClient) URL(ep string) *url.URL {
	u, _ := c.config.TuningURL(ep)
	return u
}

func (c *httpClient) Do(ctx context.Context, req *http.Request) (*http.Response, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req = req.WithContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error(err, "Tuning API request failed", "method", req.Method, "url", req.URL.String())
		return nil, nil, err
	}
	defer resp.Body.Close()

	c.log.V(1).Info("Tuning API request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start).String())

	var body []byte
	done := make(chan struct{})
	go func() {
		body, err = ioutil.ReadAll(resp.Body)
		close(done)
	}()

	select {
	case <-ctx.Done():
		<-done
		err = resp.Body.Close()
		if err == nil {
			err = ctx.Err()
		}
	case <-done:
	}

	return resp, body, err
}
