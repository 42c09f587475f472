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

package configure

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunelab/tunectl/cli/internal/commander"
	"github.com/tunelab/tunectl/tuningapi/config"
)

// Options is the configuration for viewing the client configuration
type Options struct {
	// Config is the client configuration
	Config *config.ClientConfig
	// IOStreams are used to access the standard process streams
	commander.IOStreams
}

// NewCommand creates a new configuration command
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "View the client configuration",
		Long:  "Print the resolved tunectl configuration with credentials redacted",

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE:   commander.WithoutArgsE(o.view),
	}

	return cmd
}

func (o *Options) view() error {
	output, err := o.Config.Marshal()
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(o.Out, string(output))
	return err
}
