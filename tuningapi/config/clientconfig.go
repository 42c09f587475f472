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

package config

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"sigs.k8s.io/yaml"
)

// Loader is used to initially populate a client configuration
type Loader func(cfg *ClientConfig) error

// ClientConfig is the structure used to manage configuration data
type ClientConfig struct {
	// Filename is the path to the configuration file; if left blank, it will be populated
	// using XDG base directory conventions on the next Load
	Filename string

	// Overrides are the persistent flag values applied on top of the loaded data
	Overrides struct {
		// Context overrides the name of the current context
		Context string
		// Server overrides the tuning endpoint of the current server
		Server string
		// Verbose requests request-level logging from API clients
		Verbose bool
	}

	data Config
}

// Load will populate the client configuration
func (cc *ClientConfig) Load(extra ...Loader) error {
	var loaders []Loader
	loaders = append(loaders, fileLoader, envLoader)
	loaders = append(loaders, extra...)
	loaders = append(loaders, defaultLoader) // Always do defaults last so it can fill in the gaps
	for i := range loaders {
		if err := loaders[i](cc); err != nil {
			return err
		}
	}
	return nil
}

// Merge combines the supplied data with what is already present in this client configuration
func (cc *ClientConfig) Merge(data *Config) {
	mergeServers(&cc.data, data.Servers)
	mergeAuthorizations(&cc.data, data.Authorizations)
	mergeContexts(&cc.data, data.Contexts)
	mergeString(&cc.data.CurrentContext, data.CurrentContext)
}

// Marshal returns the current configuration data rendered as YAML
func (cc *ClientConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(redact(cc.data))
}

// CurrentServer returns the server configuration of the current context
func (cc *ClientConfig) CurrentServer() (Server, error) {
	srv, _, err := cc.contextConfig()
	if err != nil {
		return Server{}, err
	}
	return *srv, nil
}

// TuningURL resolves a path against the tuning API endpoint of the current server
func (cc *ClientConfig) TuningURL(path string) (*url.URL, error) {
	srv, _, err := cc.contextConfig()
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(srv.API.TuningEndpoint)
	if err != nil {
		return nil, err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u, nil
}

// Authorize configures the supplied transport
func (cc *ClientConfig) Authorize(ctx context.Context, transport http.RoundTripper) (http.RoundTripper, error) {
	srv, az, err := cc.contextConfig()
	if err != nil {
		return nil, err
	}

	if az.Credential.ClientCredential != nil {
		c := clientcredentials.Config{
			ClientID:     az.Credential.ClientID,
			ClientSecret: az.Credential.ClientSecret,
			TokenURL:     srv.Authorization.TokenEndpoint,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		return &oauth2.Transport{Source: c.TokenSource(ctx), Base: transport}, nil
	}

	if az.Credential.TokenCredential != nil {
		t := &oauth2.Token{
			AccessToken:  az.Credential.AccessToken,
			TokenType:    az.Credential.TokenType,
			RefreshToken: az.Credential.RefreshToken,
			Expiry:       az.Credential.Expiry,
		}
		return &oauth2.Transport{Source: oauth2.StaticTokenSource(t), Base: transport}, nil
	}

	return transport, nil
}

// contextConfig returns the configuration objects for the current context
func (cc *ClientConfig) contextConfig() (*Server, *Authorization, error) {
	name := cc.data.CurrentContext
	if cc.Overrides.Context != "" {
		name = cc.Overrides.Context
	}

	ctx := findContext(cc.data.Contexts, name)
	if ctx == nil {
		return nil, nil, fmt.Errorf("could not find context (%s)", name)
	}

	srv := findServer(cc.data.Servers, ctx.Server)
	if srv == nil {
		return nil, nil, fmt.Errorf("could not find server (%s)", ctx.Server)
	}

	if cc.Overrides.Server != "" {
		s := *srv
		s.API.TuningEndpoint = cc.Overrides.Server
		srv = &s
	}

	az := findAuthorization(cc.data.Authorizations, ctx.Authorization)
	if az == nil {
		// An unauthenticated context is allowed, e.g. for local deployments
		az = &Authorization{}
	}

	return srv, az, nil
}

// redact strips secret material before the configuration is rendered
func redact(data Config) Config {
	for i := range data.Authorizations {
		cred := &data.Authorizations[i].Authorization.Credential
		if cred.ClientCredential != nil {
			c := *cred.ClientCredential
			if c.ClientSecret != "" {
				c.ClientSecret = "[REDACTED]"
			}
			cred.ClientCredential = &c
		}
		if cred.TokenCredential != nil {
			t := *cred.TokenCredential
			if t.AccessToken != "" {
				t.AccessToken = "[REDACTED]"
			}
			if t.RefreshToken != "" {
				t.RefreshToken = "[REDACTED]"
			}
			cred.TokenCredential = &t
		}
	}
	return data
}
