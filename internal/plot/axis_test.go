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

	"github.com/stretchr/testify/assert"

	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

func TestClassifyAxis(t *testing.T) {
	cases := []struct {
		desc         string
		rng          tuningv1alpha1.HyperparameterRange
		expectedKind AxisKind
		expectedCats []string
		expectedNote bool
	}{
		{
			desc:         "continuous",
			rng:          tuningv1alpha1.HyperparameterRange{Name: "learning_rate", Type: tuningv1alpha1.RangeContinuous},
			expectedKind: AxisNumeric,
		},
		{
			desc:         "integer",
			rng:          tuningv1alpha1.HyperparameterRange{Name: "batch_size", Type: tuningv1alpha1.RangeInteger},
			expectedKind: AxisNumeric,
		},
		{
			desc:         "categorical",
			rng:          tuningv1alpha1.HyperparameterRange{Name: "optimizer", Type: tuningv1alpha1.RangeCategorical, Values: []string{"sgd", "adam", "rmsprop"}},
			expectedKind: AxisDiscrete,
			expectedCats: []string{"sgd", "adam", "rmsprop"},
		},
		{
			desc:         "categorical with numeric values",
			rng:          tuningv1alpha1.HyperparameterRange{Name: "num_layers", Type: tuningv1alpha1.RangeCategorical, Values: []string{"1", "2", "3"}},
			expectedKind: AxisNumeric,
			expectedNote: true,
		},
		{
			desc:         "categorical with mixed values",
			rng:          tuningv1alpha1.HyperparameterRange{Name: "hidden", Type: tuningv1alpha1.RangeCategorical, Values: []string{"64", "128", "auto"}},
			expectedKind: AxisDiscrete,
			expectedCats: []string{"64", "128", "auto"},
		},
		{
			desc:         "categorical without declared values",
			rng:          tuningv1alpha1.HyperparameterRange{Name: "activation", Type: tuningv1alpha1.RangeCategorical},
			expectedKind: AxisDiscrete,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			axis, note := ClassifyAxis(c.rng)

			assert.Equal(t, c.rng.Name, axis.Label)
			assert.Equal(t, c.expectedKind, axis.Kind)
			assert.Equal(t, c.expectedCats, axis.Categories)
			if c.expectedNote {
				assert.Contains(t, note, c.rng.Name)
			} else {
				assert.Empty(t, note)
			}
		})
	}
}
