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

import "time"

// Config is the top-level configuration structure persisted to disk
type Config struct {
	// Servers is a named list of server configurations
	Servers []NamedServer `json:"servers,omitempty"`
	// Authorizations is a named list of authorizations
	Authorizations []NamedAuthorization `json:"authorizations,omitempty"`
	// Contexts is a named list of server/authorization pairings
	Contexts []NamedContext `json:"contexts,omitempty"`
	// CurrentContext is the name of the context to use
	CurrentContext string `json:"current-context,omitempty"`
}

// NamedServer associates a name to a server configuration
type NamedServer struct {
	// Name of the server configuration
	Name string `json:"name"`
	// Server configuration
	Server Server `json:"server"`
}

// NamedAuthorization associates a name to an authorization
type NamedAuthorization struct {
	// Name of the authorization
	Name string `json:"name"`
	// Authorization credentials
	Authorization Authorization `json:"authorization"`
}

// NamedContext associates a name to a context
type NamedContext struct {
	// Name of the context
	Name string `json:"name"`
	// Context configuration
	Context Context `json:"context"`
}

// Server is the API surface of a single tuning service deployment
type Server struct {
	// Identifier is the audience value reported to the authorization server
	Identifier string `json:"identifier,omitempty"`
	// API holds the resolved endpoint locations
	API APIEndpoints `json:"api"`
	// Authorization holds the authorization server locations
	Authorization AuthorizationEndpoints `json:"authorization,omitempty"`
}

// APIEndpoints are the entry points into the tuning API
type APIEndpoints struct {
	// TuningEndpoint is the base URL of the tuning job API
	TuningEndpoint string `json:"tuning_endpoint"`
}

// AuthorizationEndpoints are the entry points into the authorization server
type AuthorizationEndpoints struct {
	// TokenEndpoint is the URL used to obtain access tokens
	TokenEndpoint string `json:"token_endpoint,omitempty"`
}

// Authorization is the set of credentials used to access a server
type Authorization struct {
	// Credential is the actual credential value
	Credential Credential `json:"credential,omitempty"`
}

// Credential holds exactly one type of credential
type Credential struct {
	*ClientCredential `json:",inline,omitempty"`
	*TokenCredential  `json:",inline,omitempty"`
}

// ClientCredential is used for the OAuth2 client credentials grant
type ClientCredential struct {
	// ClientID identifies the client to the authorization server
	ClientID string `json:"client_id"`
	// ClientSecret authenticates the client to the authorization server
	ClientSecret string `json:"client_secret"`
}

// TokenCredential is a previously obtained (or static) token
type TokenCredential struct {
	// AccessToken is the bearer token value
	AccessToken string `json:"access_token"`
	// TokenType is the type of the access token (e.g. "Bearer")
	TokenType string `json:"token_type,omitempty"`
	// RefreshToken is used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
	// Expiry is the access token expiration time
	Expiry time.Time `json:"expiry,omitempty"`
}

// Context is a pairing of a server and an authorization
type Context struct {
	// Server is the name of the server configuration
	Server string `json:"server"`
	// Authorization is the name of the authorization to use
	Authorization string `json:"authorization,omitempty"`
}

func findServer(l []NamedServer, name string) *Server {
	for i := range l {
		if l[i].Name == name {
			return &l[i].Server
		}
	}
	return nil
}

func findAuthorization(l []NamedAuthorization, name string) *Authorization {
	for i := range l {
		if l[i].Name == name {
			return &l[i].Authorization
		}
	}
	return nil
}

func findContext(l []NamedContext, name string) *Context {
	for i := range l {
		if l[i].Name == name {
			return &l[i].Context
		}
	}
	return nil
}

func mergeServers(data *Config, servers []NamedServer) {
	for i := range servers {
		if s := findServer(data.Servers, servers[i].Name); s != nil {
			*s = servers[i].Server
			continue
		}
		data.Servers = append(data.Servers, servers[i])
	}
}

func mergeAuthorizations(data *Config, authorizations []NamedAuthorization) {
	for i := range authorizations {
		if a := findAuthorization(data.Authorizations, authorizations[i].Name); a != nil {
			*a = authorizations[i].Authorization
			continue
		}
		data.Authorizations = append(data.Authorizations, authorizations[i])
	}
}

func mergeContexts(data *Config, contexts []NamedContext) {
	for i := range contexts {
		if c := findContext(data.Contexts, contexts[i].Name); c != nil {
			*c = contexts[i].Context
			continue
		}
		data.Contexts = append(data.Contexts, contexts[i])
	}
}

func mergeString(s1 *string, s2 string) {
	if s2 != "" {
		*s1 = s2
	}
}
