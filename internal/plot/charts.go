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

// Package plot turns ranked trial data into renderer independent chart descriptions:
// raw point clouds only, no aggregation, binning or fitting.
package plot

import (
	"fmt"
	"time"

	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// Point is a single scatter point; exactly one of X or Time carries the x-coordinate
// depending on the axis kind.
type Point struct {
	// X is the hyperparameter value for numeric and discrete axes.
	X tuningv1alpha1.NumberOrString `json:"x,omitempty"`
	// Time is the x-coordinate for time axes.
	Time *time.Time `json:"time,omitempty"`
	// Y is the objective metric value.
	Y float64 `json:"y"`
	// Trial names the trial this point came from, for tooltips.
	Trial string `json:"trial"`
}

// Chart describes a single scatter chart
type Chart struct {
	// Title of the chart.
	Title string `json:"title"`
	// X is the horizontal axis description.
	X Axis `json:"x"`
	// Y is the vertical (objective) axis description.
	Y Axis `json:"y"`
	// Points is the raw point cloud.
	Points []Point `json:"points"`
}

// ChartList is the complete plotter output for one tuning job
type ChartList struct {
	// Job is the display name of the tuning job.
	Job string `json:"job"`
	// Objective is the objective metric name shared by every Y axis.
	Objective string `json:"objective"`
	// Charts holds one chart per hyperparameter plus the start time chart.
	Charts []Chart `json:"charts"`
}

// BuildCharts produces one scatter chart per declared hyperparameter (x = sampled value,
// y = objective value) plus one chart of objective value versus trial start time. Only
// trials present in the ranked sequence contribute points; the returned notes report
// axis classification decisions and skipped data.
func BuildCharts(job string, ranked []tuningv1alpha1.TrialItem, ranges []tuningv1alpha1.HyperparameterRange, objective string) (ChartList, []string) {
	list := ChartList{Job: job, Objective: objective}
	var notes []string

	yAxis := Axis{Label: objective, Kind: AxisNumeric}

	for i := range ranges {
		axis, note := ClassifyAxis(ranges[i])
		if note != "" {
			notes = append(notes, note)
		}

		chart := Chart{
			Title: fmt.Sprintf("%s vs. %s", objective, ranges[i].Name),
			X:     axis,
			Y:     yAxis,
		}

		for j := range ranked {
			v, ok := ranked[j].Assignment(ranges[i].Name)
			if !ok {
				notes = append(notes, fmt.Sprintf("trial %q has no value for %q, point skipped", ranked[j].TrialName, ranges[i].Name))
				continue
			}
			chart.Points = append(chart.Points, Point{
				X:     v,
				Y:     *ranked[j].FinalObjective,
				Trial: ranked[j].TrialName,
			})
		}

		list.Charts = append(list.Charts, chart)
	}

	// Objective over time shows whether the search is still improving
	timeChart := Chart{
		Title: fmt.Sprintf("%s vs. start time", objective),
		X:     Axis{Label: "start time", Kind: AxisTime},
		Y:     yAxis,
	}
	for j := range ranked {
		if ranked[j].StartTime == nil {
			notes = append(notes, fmt.Sprintf("trial %q has no start time, point skipped", ranked[j].TrialName))
			continue
		}
		timeChart.Points = append(timeChart.Points, Point{
			Time:  ranked[j].StartTime,
			Y:     *ranked[j].FinalObjective,
			Trial: ranked[j].TrialName,
		})
	}
	list.Charts = append(list.Charts, timeChart)

	return list, notes
}
