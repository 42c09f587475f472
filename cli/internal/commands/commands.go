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

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunelab/tunectl/cli/internal/commander"
	"github.com/tunelab/tunectl/cli/internal/commands/completion"
	"github.com/tunelab/tunectl/cli/internal/commands/configure"
	"github.com/tunelab/tunectl/cli/internal/commands/docs"
	"github.com/tunelab/tunectl/cli/internal/commands/ping"
	"github.com/tunelab/tunectl/cli/internal/commands/plot"
	"github.com/tunelab/tunectl/cli/internal/commands/status"
	"github.com/tunelab/tunectl/cli/internal/commands/trials"
	"github.com/tunelab/tunectl/cli/internal/commands/version"
	"github.com/tunelab/tunectl/tuningapi/config"
	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// NewRootCommand creates a new top-level command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tunectl",
		Short:             "Analyze hyperparameter tuning jobs",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	// Create a global configuration
	cfg := &config.ClientConfig{}
	commander.ConfigGlobals(cfg, rootCmd)

	// Analysis Commands
	rootCmd.AddCommand(status.NewCommand(&status.Options{Config: cfg}))
	rootCmd.AddCommand(trials.NewCommand(&trials.Options{Config: cfg}))
	rootCmd.AddCommand(plot.NewCommand(&plot.Options{Config: cfg}))

	// Administrative Commands
	rootCmd.AddCommand(ping.NewCommand(&ping.Options{Config: cfg}))
	rootCmd.AddCommand(configure.NewCommand(&configure.Options{Config: cfg}))
	rootCmd.AddCommand(completion.NewCommand(&completion.Options{}))
	rootCmd.AddCommand(version.NewCommand(&version.Options{Config: cfg}))
	rootCmd.AddCommand(docs.NewCommand(&docs.Options{}))

	commander.MapErrors(rootCmd, mapError)
	return rootCmd
}

// mapError intercepts errors returned by commands before they are reported.
func mapError(err error) error {
	if tuningv1alpha1.IsUnauthorized(err) {
		// Trust the error message we get from the tuning API
		if _, ok := err.(*tuningv1alpha1.Error); ok {
			return fmt.Errorf("%w, check 'tunectl configure' or set TUNECTL_TOKEN", err)
		}
		return fmt.Errorf("unauthorized, check 'tunectl configure' or set TUNECTL_TOKEN")
	}

	return err
}
