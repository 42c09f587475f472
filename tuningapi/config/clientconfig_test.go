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
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// clearEnv keeps ambient environment configuration out of the tests
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TUNECTL_SERVER", "TUNECTL_TOKEN", "TUNECTL_CLIENT_ID", "TUNECTL_CLIENT_SECRET", "TUNECTL_CONTEXT"} {
		t.Setenv(k, "")
	}
}

// missingFile returns a filename that does not exist so the file loader is a no-op
func missingFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := &ClientConfig{Filename: missingFile(t)}
	require.NoError(t, cfg.Load())

	srv, err := cfg.CurrentServer()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerIdentifier, srv.Identifier)
	assert.Equal(t, DefaultServerIdentifier, srv.API.TuningEndpoint)

	u, err := cfg.TuningURL("/tuning/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.tunelab.io/v1/tuning/", u.String())

	// No authorization configured, the transport passes through untouched
	rt, err := cfg.Authorize(context.Background(), http.DefaultTransport)
	require.NoError(t, err)
	assert.Equal(t, http.DefaultTransport, rt)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TUNECTL_SERVER", "http://tuning.invalid:8080/api/")
	t.Setenv("TUNECTL_TOKEN", "xyz")

	cfg := &ClientConfig{Filename: missingFile(t)}
	require.NoError(t, cfg.Load())

	u, err := cfg.TuningURL("/tuning/test")
	require.NoError(t, err)
	assert.Equal(t, "http://tuning.invalid:8080/api/tuning/test", u.String())

	rt, err := cfg.Authorize(context.Background(), nil)
	require.NoError(t, err)
	tr, ok := rt.(*oauth2.Transport)
	require.True(t, ok)
	tok, err := tr.Source.Token()
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	filename := filepath.Join(t.TempDir(), "config")
	require.NoError(t, ioutil.WriteFile(filename, []byte(`
servers:
- name: testing
  server:
    api:
      tuning_endpoint: http://tuning.invalid/api/
contexts:
- name: testing
  context:
    server: testing
current-context: testing
`), 0600))

	cfg := &ClientConfig{Filename: filename}
	require.NoError(t, cfg.Load())

	u, err := cfg.TuningURL("/tuning/")
	require.NoError(t, err)
	assert.Equal(t, "http://tuning.invalid/api/tuning/", u.String())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)

	cfg := &ClientConfig{Filename: missingFile(t)}
	cfg.Overrides.Server = "http://localhost:8080/"
	require.NoError(t, cfg.Load())

	u, err := cfg.TuningURL("/tuning/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/tuning/", u.String())

	// An override naming a missing context is an error, not a silent default
	cfg.Overrides.Context = "nope"
	_, err = cfg.CurrentServer()
	assert.Error(t, err)
}

func TestMarshal_Redacted(t *testing.T) {
	clearEnv(t)
	t.Setenv("TUNECTL_TOKEN", "super-secret")
	t.Setenv("TUNECTL_CLIENT_ID", "my-client")
	t.Setenv("TUNECTL_CLIENT_SECRET", "also-secret")

	cfg := &ClientConfig{Filename: missingFile(t)}
	require.NoError(t, cfg.Load())

	b, err := cfg.Marshal()
	require.NoError(t, err)

	assert.NotContains(t, string(b), "super-secret")
	assert.NotContains(t, string(b), "also-secret")
	assert.Contains(t, string(b), "[REDACTED]")
	assert.Contains(t, string(b), "my-client")
}

func TestDefaultFilename(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "tunectl", "config"), defaultFilename())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "tunectl", "config"), defaultFilename())
}
