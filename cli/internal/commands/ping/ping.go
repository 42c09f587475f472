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

package ping

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tunelab/tunectl/cli/internal/commander"
	"github.com/tunelab/tunectl/tuningapi/config"
	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

type Options struct {
	// Config is the client configuration
	Config *config.ClientConfig
	// TuningAPI is used to interact with the tuning service
	TuningAPI tuningv1alpha1.API
	// IOStreams are used to access the standard process streams
	commander.IOStreams
}

// NewCommand creates a new command for pinging the tuning API
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Ping the tuning API",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			if o.TuningAPI == nil {
				return commander.SetTuningAPI(&o.TuningAPI, o.Config, cmd)
			}
			return nil
		},
		RunE: commander.WithContextE(o.ping),
	}

	return cmd
}

func (o *Options) ping(ctx context.Context) error {
	host, addrs, err := hostAndAddrs(ctx, o.Config)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(o.Out, "PING %s (%s): HTTP/1.1 OPTIONS\n", host, strings.Join(addrs, ", "))

	start := time.Now()
	_, err = o.TuningAPI.Options(ctx)
	dur := time.Since(start).Round(time.Microsecond)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(o.Out, "PONG time=%s\n", dur.String())
	return nil
}

// Returns the host name and resolved addresses of the tuning API.
func hostAndAddrs(ctx context.Context, cfg *config.ClientConfig) (string, []string, error) {
	srv, err := cfg.CurrentServer()
	if err != nil {
		return "", nil, err
	}

	u, err := url.Parse(srv.API.TuningEndpoint)
	if err != nil {
		return "", nil, err
	}

	host := u.Hostname()
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return "", nil, err
	}
	return host, addrs, nil
}
