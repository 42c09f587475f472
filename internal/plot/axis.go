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
	"fmt"
	"strconv"

	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// AxisKind determines how an axis scales its values
type AxisKind string

const (
	// AxisNumeric positions points on a continuous numeric scale
	AxisNumeric AxisKind = "numeric"
	// AxisDiscrete positions points at fixed category offsets
	AxisDiscrete AxisKind = "discrete"
	// AxisTime positions points on a time scale
	AxisTime AxisKind = "time"
)

// Axis describes one chart axis
type Axis struct {
	// Label is the axis title.
	Label string `json:"label"`
	// Kind selects the axis scale.
	Kind AxisKind `json:"kind"`
	// Categories fixes the category order of a discrete axis.
	Categories []string `json:"categories,omitempty"`
}

// ClassifyAxis decides how a declared hyperparameter range should be rendered. A
// categorical range whose declared values all parse as numbers is promoted to a numeric
// axis, with an informational note; any other categorical range becomes a discrete axis
// whose category order is the declaration order. Continuous and integer ranges are
// always numeric.
func ClassifyAxis(r tuningv1alpha1.HyperparameterRange) (Axis, string) {
	axis := Axis{Label: r.Name, Kind: AxisNumeric}

	if r.Type != tuningv1alpha1.RangeCategorical {
		return axis, ""
	}

	allNumeric := len(r.Values) > 0
	for _, v := range r.Values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allNumeric = false
			break
		}
	}

	if allNumeric {
		note := fmt.Sprintf("hyperparameter %q is categorical but all declared values are numeric, using a numeric axis", r.Name)
		return axis, note
	}

	axis.Kind = AxisDiscrete
	axis.Categories = append(axis.Categories, r.Values...)
	return axis, ""
}
