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

package plot_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	plotcmd "github.com/tunelab/tunectl/cli/internal/commands/plot"
	"github.com/tunelab/tunectl/internal/plot"
	"github.com/tunelab/tunectl/tuningapi/config"
	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
	"github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1/fake"
)

func newFakeAPI() *fake.FakeAPI {
	api := fake.NewFakeAPI()

	start := time.Date(2021, 4, 1, 12, 0, 0, 0, time.UTC)
	lo, hi := 0.5, 0.9
	api.AddTuningJob("cifar-search", tuningv1alpha1.TuningJob{
		Status:    tuningv1alpha1.JobCompleted,
		Objective: tuningv1alpha1.Objective{Name: "loss", Direction: tuningv1alpha1.DirectionMinimize},
		Ranges: []tuningv1alpha1.HyperparameterRange{
			{Name: "learning_rate", Type: tuningv1alpha1.RangeContinuous},
			{Name: "num_layers", Type: tuningv1alpha1.RangeCategorical, Values: []string{"1", "2"}},
		},
	}, []tuningv1alpha1.TrialItem{
		{
			TrialName:      "trial-0",
			Status:         tuningv1alpha1.TrialCompleted,
			FinalObjective: &hi,
			StartTime:      &start,
			Assignments: []tuningv1alpha1.Assignment{
				{ParameterName: "learning_rate", Value: tuningv1alpha1.FromFloat64(0.1)},
				{ParameterName: "num_layers", Value: tuningv1alpha1.FromString("2")},
			},
		},
		{
			TrialName:      "trial-1",
			Status:         tuningv1alpha1.TrialCompleted,
			FinalObjective: &lo,
			StartTime:      &start,
			Assignments: []tuningv1alpha1.Assignment{
				{ParameterName: "learning_rate", Value: tuningv1alpha1.FromFloat64(0.01)},
				{ParameterName: "num_layers", Value: tuningv1alpha1.FromString("1")},
			},
		},
	})

	return api
}

func runPlot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	opts := &plotcmd.Options{Config: &config.ClientConfig{}, TuningAPI: newFakeAPI()}
	cmd := plotcmd.NewCommand(opts)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPlot_JSON(t *testing.T) {
	out, errOut, err := runPlot(t, "cifar-search", "-o", "json")
	require.NoError(t, err)

	var list plot.ChartList
	require.NoError(t, json.Unmarshal([]byte(out), &list))

	// One chart per hyperparameter plus the start time chart
	require.Len(t, list.Charts, 3)
	assert.Equal(t, "loss vs. learning_rate", list.Charts[0].Title)
	assert.Equal(t, "loss vs. num_layers", list.Charts[1].Title)
	assert.Equal(t, "loss vs. start time", list.Charts[2].Title)

	// All declared values parse as numbers, the axis is promoted with a note
	assert.Equal(t, plot.AxisNumeric, list.Charts[1].X.Kind)
	assert.Contains(t, errOut, `note: hyperparameter "num_layers" is categorical`)

	// The point clouds follow the ranked order (ascending for minimize)
	require.Len(t, list.Charts[0].Points, 2)
	assert.Equal(t, "trial-1", list.Charts[0].Points[0].Trial)
	assert.Equal(t, 0.5, list.Charts[0].Points[0].Y)
}

func TestPlot_ANSI(t *testing.T) {
	out, _, err := runPlot(t, "cifar-search", "--width", "40", "--height", "8")
	require.NoError(t, err)

	assert.Contains(t, out, "loss vs. learning_rate")
	assert.Contains(t, out, "learning_rate: 0.01 .. 0.1")
}

func TestPlot_HTML(t *testing.T) {
	out, _, err := runPlot(t, "cifar-search", "-o", "html")
	require.NoError(t, err)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<circle")
}

func TestPlot_NotFound(t *testing.T) {
	_, _, err := runPlot(t, "missing")
	require.Error(t, err)
	assert.True(t, tuningv1alpha1.IsNotFound(err))
}
