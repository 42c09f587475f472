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
	"io/ioutil"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

const (
	// DefaultServerIdentifier is the audience reported for the hosted tuning service
	DefaultServerIdentifier = "https://api.tunelab.io/v1/"

	defaultServerName  = "default"
	defaultContextName = "default"
)

// fileLoader loads configuration data from the file system
func fileLoader(cc *ClientConfig) error {
	if cc.Filename == "" {
		cc.Filename = defaultFilename()
	}

	b, err := ioutil.ReadFile(cc.Filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	data := &Config{}
	if err := yaml.Unmarshal(b, data); err != nil {
		return err
	}

	cc.Merge(data)
	return nil
}

// envLoader overrides configuration data from the process environment
func envLoader(cc *ClientConfig) error {
	data := &Config{}

	if v := os.Getenv("TUNECTL_SERVER"); v != "" {
		data.Servers = append(data.Servers, NamedServer{
			Name:   defaultServerName,
			Server: Server{API: APIEndpoints{TuningEndpoint: v}},
		})
	}

	if v := os.Getenv("TUNECTL_TOKEN"); v != "" {
		data.Authorizations = append(data.Authorizations, NamedAuthorization{
			Name:          defaultContextName,
			Authorization: Authorization{Credential: Credential{TokenCredential: &TokenCredential{AccessToken: v, TokenType: "Bearer"}}},
		})
	}

	if id, secret := os.Getenv("TUNECTL_CLIENT_ID"), os.Getenv("TUNECTL_CLIENT_SECRET"); id != "" && secret != "" {
		data.Authorizations = append(data.Authorizations, NamedAuthorization{
			Name:          defaultContextName,
			Authorization: Authorization{Credential: Credential{ClientCredential: &ClientCredential{ClientID: id, ClientSecret: secret}}},
		})
	}

	if v := os.Getenv("TUNECTL_CONTEXT"); v != "" {
		data.CurrentContext = v
	}

	// Environment supplied servers or authorizations imply the default context
	if len(data.Servers) > 0 || len(data.Authorizations) > 0 {
		data.Contexts = append(data.Contexts, NamedContext{
			Name:    defaultContextName,
			Context: Context{Server: defaultServerName, Authorization: defaultContextName},
		})
	}

	cc.Merge(data)
	return nil
}

// defaultLoader fills in the gaps so a freshly installed client can still resolve a server
func defaultLoader(cc *ClientConfig) error {
	data := &Config{}

	if findServer(cc.data.Servers, defaultServerName) == nil {
		data.Servers = append(data.Servers, NamedServer{
			Name: defaultServerName,
			Server: Server{
				Identifier: DefaultServerIdentifier,
				API:        APIEndpoints{TuningEndpoint: DefaultServerIdentifier},
			},
		})
	}

	if findContext(cc.data.Contexts, defaultContextName) == nil {
		data.Contexts = append(data.Contexts, NamedContext{
			Name:    defaultContextName,
			Context: Context{Server: defaultServerName},
		})
	}

	if cc.data.CurrentContext == "" {
		data.CurrentContext = defaultContextName
	}

	cc.Merge(data)
	return nil
}

// defaultFilename returns the XDG base directory location of the configuration file
func defaultFilename() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "tunectl", "config")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tunectl", "config")
}
