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

package plot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

func TestBuildCharts(t *testing.T) {
	start := time.Date(2021, 4, 1, 12, 0, 0, 0, time.UTC)
	later := start.Add(5 * time.Minute)

	ranges := []tuningv1alpha1.HyperparameterRange{
		{Name: "learning_rate", Type: tuningv1alpha1.RangeContinuous},
		{Name: "optimizer", Type: tuningv1alpha1.RangeCategorical, Values: []string{"sgd", "adam"}},
	}

	ranked := []tuningv1alpha1.TrialItem{
		{
			TrialName: "trial-0",
			Assignments: []tuningv1alpha1.Assignment{
				{ParameterName: "learning_rate", Value: tuningv1alpha1.FromFloat64(0.01)},
				{ParameterName: "optimizer", Value: tuningv1alpha1.FromString("sgd")},
			},
			FinalObjective: objective(0.25),
			StartTime:      &start,
		},
		{
			TrialName: "trial-1",
			Assignments: []tuningv1alpha1.Assignment{
				{ParameterName: "learning_rate", Value: tuningv1alpha1.FromFloat64(0.1)},
				{ParameterName: "optimizer", Value: tuningv1alpha1.FromString("adam")},
			},
			FinalObjective: objective(0.5),
			StartTime:      &later,
		},
	}

	list, notes := BuildCharts("test-job", ranked, ranges, "loss")

	assert.Equal(t, "test-job", list.Job)
	assert.Equal(t, "loss", list.Objective)
	assert.Empty(t, notes)

	// One chart per hyperparameter plus the start time chart
	require.Len(t, list.Charts, 3)

	lr := list.Charts[0]
	assert.Equal(t, "loss vs. learning_rate", lr.Title)
	assert.Equal(t, AxisNumeric, lr.X.Kind)
	assert.Equal(t, AxisNumeric, lr.Y.Kind)
	assert.Equal(t, "loss", lr.Y.Label)
	if assert.Len(t, lr.Points, 2) {
		assert.Equal(t, tuningv1alpha1.FromFloat64(0.01), lr.Points[0].X)
		assert.Equal(t, 0.25, lr.Points[0].Y)
		assert.Equal(t, "trial-0", lr.Points[0].Trial)
	}

	opt := list.Charts[1]
	assert.Equal(t, "loss vs. optimizer", opt.Title)
	assert.Equal(t, AxisDiscrete, opt.X.Kind)
	assert.Equal(t, []string{"sgd", "adam"}, opt.X.Categories)

	tc := list.Charts[2]
	assert.Equal(t, "loss vs. start time", tc.Title)
	assert.Equal(t, AxisTime, tc.X.Kind)
	if assert.Len(t, tc.Points, 2) {
		assert.Equal(t, &start, tc.Points[0].Time)
		assert.Equal(t, &later, tc.Points[1].Time)
	}
}

func TestBuildCharts_SkippedData(t *testing.T) {
	ranges := []tuningv1alpha1.HyperparameterRange{
		{Name: "learning_rate", Type: tuningv1alpha1.RangeContinuous},
	}

	ranked := []tuningv1alpha1.TrialItem{
		{TrialName: "trial-0", FinalObjective: objective(1.0)},
	}

	list, notes := BuildCharts("test-job", ranked, ranges, "loss")

	require.Len(t, list.Charts, 2)
	assert.Empty(t, list.Charts[0].Points)
	assert.Empty(t, list.Charts[1].Points)

	// The missing assignment and missing start time are both reported
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0], `no value for "learning_rate"`)
	assert.Contains(t, notes[1], "no start time")
}

func objective(v float64) *float64 {
	return &v
}
