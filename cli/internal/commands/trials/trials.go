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

// Package trials implements the ranked per-trial result listing.
package trials

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tunelab/tunectl/cli/internal/commander"
	"github.com/tunelab/tunectl/internal/analysis"
	"github.com/tunelab/tunectl/tuningapi/config"
	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// Options includes the configuration for listing trial results
type Options struct {
	// Config is the client configuration
	Config *config.ClientConfig
	// TuningAPI is used to interact with the tuning service
	TuningAPI tuningv1alpha1.API
	// Printer is the resource printer used to render the trial table
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Name is the tuning job whose trials are listed
	Name string
	// SortBy overrides the objective ordering using a JSONPath expression
	SortBy string
	// All appends the trials that never reported an objective to the output
	All bool
}

// NewCommand creates a new trials command
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trials NAME",
		Short: "Display the trial results of a tuning job",
		Long:  "Fetch every trial of a tuning job and rank them by objective value",
		Args:  cobra.ExactArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			o.Name = args[0]
			if o.TuningAPI == nil {
				return commander.SetTuningAPI(&o.TuningAPI, o.Config, cmd)
			}
			return nil
		},
		RunE: commander.WithContextE(o.trials),
	}

	cmd.Flags().StringVar(&o.SortBy, "sort-by", o.SortBy, "sort the table using this JSONPath `expression`")
	cmd.Flags().BoolVarP(&o.All, "all", "A", false, "include trials that never reported an objective")

	commander.SetPrinter(&trialsMeta{}, &o.Printer, cmd, nil)

	return cmd
}

func (o *Options) trials(ctx context.Context) error {
	job, err := o.TuningAPI.GetTuningJobByName(ctx, tuningv1alpha1.NewJobName(o.Name))
	if err != nil {
		return err
	}

	if job.Status != tuningv1alpha1.JobCompleted {
		_, _ = fmt.Fprintf(o.ErrOut, "warning: tuning job %q is %s, results may be partial\n", o.Name, job.Status)
	}

	l, err := o.TuningAPI.GetAllTrials(ctx, job.Trials, &tuningv1alpha1.TrialListQuery{})
	if err != nil {
		return err
	}

	for _, finding := range analysis.CheckAssignments(l.Trials, job.Ranges) {
		_, _ = fmt.Fprintf(o.ErrOut, "warning: %s\n", finding)
	}

	ranked := analysis.Rank(l.Trials, job.Objective.Direction)
	if len(ranked.Ranked) == 0 {
		_, _ = fmt.Fprintf(o.ErrOut, "warning: no trials reported a usable %s value\n", job.Objective.Name)
	} else if n := len(ranked.Incomplete); n > 0 {
		_, _ = fmt.Fprintf(o.ErrOut, "%d trial(s) excluded (no objective reported)\n", n)
	}

	table := tuningv1alpha1.TrialList{Job: &job, Trials: ranked.Ranked}
	if o.All {
		table.Trials = append(table.Trials, ranked.Incomplete...)
	}
	for i := range table.Trials {
		table.Trials[i].Job = &job
	}

	// The objective ordering can be overridden using maps with all the sortable keys
	if o.SortBy != "" {
		sort.SliceStable(table.Trials, sortByField(o.SortBy, func(i int) interface{} { return sortableTrialData(&table.Trials[i]) }))
	}

	return o.Printer.PrintObj(&table, o.Out)
}

// sortableTrialData slightly modifies the schema of the trial item to make it easier to specify sort orders
func sortableTrialData(item *tuningv1alpha1.TrialItem) map[string]interface{} {
	assignments := make(map[string]interface{}, len(item.Assignments))
	for i := range item.Assignments {
		v := item.Assignments[i].Value
		if f, ok := v.Float64Value(); ok {
			assignments[item.Assignments[i].ParameterName] = f
		} else {
			assignments[item.Assignments[i].ParameterName] = v.String()
		}
	}

	d := make(map[string]interface{}, 5)
	d["name"] = item.TrialName
	d["status"] = string(item.Status)
	d["assignments"] = assignments
	if item.HasObjective() {
		d["objective"] = *item.FinalObjective
	}
	if item.StartTime != nil {
		d["startTime"] = item.StartTime.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return d
}
