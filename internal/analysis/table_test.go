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

package analysis

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

func TestRank(t *testing.T) {
	cases := []struct {
		desc           string
		objectives     []*float64
		direction      tuningv1alpha1.ObjectiveDirection
		expectedOrder  []float64
		expectedExcl   int
		expectedBestIs *float64
	}{
		{
			desc:          "minimize with missing objectives",
			objectives:    []*float64{objective(0.9), nil, objective(0.5), objective(0.7), nil},
			direction:     tuningv1alpha1.DirectionMinimize,
			expectedOrder: []float64{0.5, 0.7, 0.9},
			expectedExcl:  2,
		},
		{
			desc:          "maximize reverses the order",
			objectives:    []*float64{objective(0.9), nil, objective(0.5), objective(0.7), nil},
			direction:     tuningv1alpha1.DirectionMaximize,
			expectedOrder: []float64{0.9, 0.7, 0.5},
			expectedExcl:  2,
		},
		{
			desc:          "NaN objectives are excluded",
			objectives:    []*float64{objective(math.NaN()), objective(1.0)},
			direction:     tuningv1alpha1.DirectionMinimize,
			expectedOrder: []float64{1.0},
			expectedExcl:  1,
		},
		{
			desc:          "no usable objectives",
			objectives:    []*float64{nil, nil},
			direction:     tuningv1alpha1.DirectionMinimize,
			expectedOrder: nil,
			expectedExcl:  2,
		},
		{
			desc:          "empty snapshot",
			objectives:    nil,
			direction:     tuningv1alpha1.DirectionMinimize,
			expectedOrder: nil,
			expectedExcl:  0,
		},
		{
			desc:          "single trial",
			objectives:    []*float64{objective(42.0)},
			direction:     tuningv1alpha1.DirectionMaximize,
			expectedOrder: []float64{42.0},
			expectedExcl:  0,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			r := Rank(trials(c.objectives), c.direction)

			assert.Equal(t, c.direction, r.Direction)
			assert.Len(t, r.Incomplete, c.expectedExcl)
			if assert.Len(t, r.Ranked, len(c.expectedOrder)) {
				for i := range r.Ranked {
					assert.Equal(t, c.expectedOrder[i], *r.Ranked[i].FinalObjective)
				}
			}

			if len(c.expectedOrder) > 0 {
				if best := r.Best(); assert.NotNil(t, best) {
					assert.Equal(t, c.expectedOrder[0], *best.FinalObjective)
				}
			} else {
				assert.Nil(t, r.Best())
			}
		})
	}
}

func TestRank_Stable(t *testing.T) {
	// Equal objective values must keep their service return order
	in := []tuningv1alpha1.TrialItem{
		{TrialName: "trial-a", FinalObjective: objective(1.0)},
		{TrialName: "trial-b", FinalObjective: objective(1.0)},
		{TrialName: "trial-c", FinalObjective: objective(0.5)},
	}

	first := Rank(in, tuningv1alpha1.DirectionMinimize)
	second := Rank(in, tuningv1alpha1.DirectionMinimize)

	assert.Equal(t, first.Ranked, second.Ranked)
	assert.Equal(t, "trial-c", first.Ranked[0].TrialName)
	assert.Equal(t, "trial-a", first.Ranked[1].TrialName)
	assert.Equal(t, "trial-b", first.Ranked[2].TrialName)
}

func TestCheckAssignments(t *testing.T) {
	ranges := []tuningv1alpha1.HyperparameterRange{
		{Name: "learning_rate"},
		{Name: "batch_size"},
	}

	cases := []struct {
		desc     string
		trials   []tuningv1alpha1.TrialItem
		expected []string
	}{
		{
			desc: "well formed",
			trials: []tuningv1alpha1.TrialItem{
				{TrialName: "trial-1", Assignments: []tuningv1alpha1.Assignment{
					{ParameterName: "learning_rate", Value: tuningv1alpha1.FromFloat64(0.01)},
					{ParameterName: "batch_size", Value: tuningv1alpha1.FromInt64(32)},
				}},
			},
			expected: nil,
		},
		{
			desc: "undeclared and missing",
			trials: []tuningv1alpha1.TrialItem{
				{TrialName: "trial-1", Assignments: []tuningv1alpha1.Assignment{
					{ParameterName: "learning_rate", Value: tuningv1alpha1.FromFloat64(0.01)},
					{ParameterName: "momentum", Value: tuningv1alpha1.FromFloat64(0.9)},
				}},
			},
			expected: []string{
				`trial "trial-1" has undeclared hyperparameter "momentum"`,
				`trial "trial-1" is missing hyperparameter "batch_size"`,
			},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expected, CheckAssignments(c.trials, ranges))
		})
	}
}

func trials(objectives []*float64) []tuningv1alpha1.TrialItem {
	result := make([]tuningv1alpha1.TrialItem, len(objectives))
	for i := range objectives {
		result[i] = tuningv1alpha1.TrialItem{
			TrialName:      fmt.Sprintf("trial-%d", i),
			FinalObjective: objectives[i],
		}
	}
	return result
}

func objective(v float64) *float64 {
	return &v
}
