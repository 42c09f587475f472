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

package version

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/tunelab/tunectl/cli/internal/commander"
	"github.com/tunelab/tunectl/internal/version"
	"github.com/tunelab/tunectl/tuningapi/config"
	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// defaultTemplate is used to format the version information
const defaultTemplate = `{{range $key, $value := . }}{{$key}} version: {{$value}}
{{end}}`

// Options is the configuration for reporting version information
type Options struct {
	// Config is the client configuration
	Config *config.ClientConfig
	// TuningAPI is used to interact with the remote tuning service
	TuningAPI tuningv1alpha1.API
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Product is the current product name
	Product string
	// Debug enables error logging
	Debug bool
}

// NewCommand creates a new command for reporting version information
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  "Print the version information for the client and, when reachable, the tuning API",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.Product == "" {
				o.Product = cmd.Root().Name()
			}

			commander.SetStreams(&o.IOStreams, cmd)
			if o.TuningAPI == nil {
				return commander.SetTuningAPI(&o.TuningAPI, o.Config, cmd)
			}
			return nil
		},
		RunE: commander.WithContextE(o.version),
	}

	cmd.Flags().BoolVar(&o.Debug, "debug", o.Debug, "display debugging information")

	return cmd
}

func (o *Options) version(ctx context.Context) error {
	// Collect all the version information into a map
	data := make(map[string]*version.Info, 2)
	if o.Product != "" {
		data[o.Product] = version.GetInfo()
	}
	if v, err := o.apiVersion(ctx); err != nil {
		if o.Debug {
			_, _ = fmt.Fprintln(o.ErrOut, "api:", err.Error())
		}
	} else if v != nil {
		data["api"] = v
	}

	// Format the template using the collected version information
	return template.Must(template.New("version").Parse(defaultTemplate)).Execute(o.Out, data)
}

// apiVersion gets the API server metadata via an HTTP OPTIONS request
func (o *Options) apiVersion(ctx context.Context) (*version.Info, error) {
	sm, err := o.TuningAPI.Options(ctx)
	if err != nil {
		return nil, err
	}

	// Try to parse out the server header
	var info *version.Info
	parts := strings.SplitN(sm.Server, " ", 2)
	parts = strings.SplitN(parts[0], "/", 2)
	if len(parts) > 1 {
		info = &version.Info{}
		parts = strings.SplitN(parts[1], "+", 2)
		info.Version = "v" + strings.TrimPrefix(parts[0], "v")
		if len(parts) > 1 {
			info.BuildMetadata = parts[1]
		}
	}
	return info, nil
}
