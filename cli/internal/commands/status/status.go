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

// Package status implements the one-shot tuning job status query.
package status

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tunelab/tunectl/cli/internal/commander"
	"github.com/tunelab/tunectl/tuningapi/config"
	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// Options is the configuration for querying tuning job status
type Options struct {
	// Config is the client configuration
	Config *config.ClientConfig
	// TuningAPI is used to interact with the tuning service
	TuningAPI tuningv1alpha1.API
	// Printer is the resource printer used to render the job snapshot
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Name is the tuning job to query
	Name string
}

// NewCommand creates a new status command
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status NAME",
		Short: "Display the status of a tuning job",
		Long:  "Query the tuning service for the current status, objective and best trial of a job",
		Args:  cobra.ExactArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			o.Name = args[0]
			if o.TuningAPI == nil {
				return commander.SetTuningAPI(&o.TuningAPI, o.Config, cmd)
			}
			return nil
		},
		RunE: commander.WithContextE(o.status),
	}

	commander.SetPrinter(&statusMeta{}, &o.Printer, cmd, nil)

	return cmd
}

func (o *Options) status(ctx context.Context) error {
	job, err := o.TuningAPI.GetTuningJobByName(ctx, tuningv1alpha1.NewJobName(o.Name))
	if err != nil {
		return err
	}

	if job.Status != tuningv1alpha1.JobCompleted {
		_, _ = fmt.Fprintf(o.ErrOut, "warning: tuning job %q is %s, results may be partial\n", o.Name, job.Status)
	}

	return o.Printer.PrintObj(&job, o.Out)
}

// statusMeta is the metadata extraction necessary for printing tuning job snapshots
type statusMeta struct{}

func (m *statusMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	if obj != nil {
		return []interface{}{obj}, nil
	}
	return nil, nil
}

func (m *statusMeta) Columns(obj interface{}, outputFormat string) []string {
	columns := []string{"name", "status", "objective", "direction", "completedTrials"}
	if outputFormat == "wide" {
		columns = append(columns, "bestTrial", "bestObjective")
	}
	return columns
}

func (m *statusMeta) ExtractValue(obj interface{}, column string) (string, error) {
	j, ok := obj.(*tuningv1alpha1.TuningJob)
	if !ok {
		return "", fmt.Errorf("expected tuning job, got %T", obj)
	}

	switch column {
	case "name":
		if n := j.Name(); n != "" {
			return n, nil
		}
		return j.DisplayName, nil
	case "status":
		return strings.Title(string(j.Status)), nil
	case "objective":
		return j.Objective.Name, nil
	case "direction":
		return string(j.Objective.Direction), nil
	case "completedTrials":
		return strconv.FormatInt(j.CompletedTrials, 10), nil
	case "bestTrial":
		if j.BestTrial != nil {
			return j.BestTrial.TrialName, nil
		}
		return "", nil
	case "bestObjective":
		if j.BestTrial != nil && j.BestTrial.HasObjective() {
			return strconv.FormatFloat(*j.BestTrial.FinalObjective, 'f', -1, 64), nil
		}
		return "", nil
	}
	return "", fmt.Errorf("unable to get value for column %s", column)
}

func (m *statusMeta) Header(outputFormat string, column string) string {
	if strings.ToLower(outputFormat) == "csv" {
		return column
	}
	column = strings.NewReplacer("completedTrials", "trials", "bestTrial", "best trial", "bestObjective", "best objective").Replace(column)
	return strings.ToUpper(column)
}
