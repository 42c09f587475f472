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

// Package analysis ranks tuning job trials by their reported objective values. All
// functions are pure transformations over immutable API snapshots.
package analysis

import (
	"fmt"
	"sort"

	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// RankedTrials partitions a trial snapshot into an ordered result set and the
// remainder that never reported a usable objective value.
type RankedTrials struct {
	// Ranked holds the trials with a valid objective, best first is NOT implied:
	// ordering is ascending for minimize and descending for maximize.
	Ranked []tuningv1alpha1.TrialItem
	// Incomplete holds the trials excluded from Ranked, in service return order.
	Incomplete []tuningv1alpha1.TrialItem
	// Direction is the objective direction the ranking was computed under.
	Direction tuningv1alpha1.ObjectiveDirection
}

// Rank orders trials by their final objective value, ascending when the direction is
// minimize and descending when it is maximize. Trials without a valid objective (absent
// or NaN) are excluded from the ordered sequence but retained for count reporting. The
// sort is stable so re-ranking an unchanged snapshot yields an identical sequence.
func Rank(trials []tuningv1alpha1.TrialItem, direction tuningv1alpha1.ObjectiveDirection) RankedTrials {
	r := RankedTrials{Direction: direction}

	for i := range trials {
		if trials[i].HasObjective() {
			r.Ranked = append(r.Ranked, trials[i])
		} else {
			r.Incomplete = append(r.Incomplete, trials[i])
		}
	}

	sort.SliceStable(r.Ranked, func(i, j int) bool {
		vi, vj := *r.Ranked[i].FinalObjective, *r.Ranked[j].FinalObjective
		if direction == tuningv1alpha1.DirectionMaximize {
			return vi > vj
		}
		return vi < vj
	})

	return r
}

// Best returns the trial at the top of the ranking, nil when no trial reported an objective
func (r *RankedTrials) Best() *tuningv1alpha1.TrialItem {
	if len(r.Ranked) == 0 {
		return nil
	}
	return &r.Ranked[0]
}

// CheckAssignments reports trials whose hyperparameter key set does not match the
// declared ranges. Well-formed snapshots produce no findings; mismatches are a
// data-quality condition, not an error.
func CheckAssignments(trials []tuningv1alpha1.TrialItem, ranges []tuningv1alpha1.HyperparameterRange) []string {
	var findings []string

	declared := make(map[string]struct{}, len(ranges))
	for i := range ranges {
		declared[ranges[i].Name] = struct{}{}
	}

	for i := range trials {
		seen := make(map[string]struct{}, len(trials[i].Assignments))
		for j := range trials[i].Assignments {
			name := trials[i].Assignments[j].ParameterName
			seen[name] = struct{}{}
			if _, ok := declared[name]; !ok {
				findings = append(findings, fmt.Sprintf("trial %q has undeclared hyperparameter %q", trials[i].TrialName, name))
			}
		}
		for name := range declared {
			if _, ok := seen[name]; !ok {
				findings = append(findings, fmt.Sprintf("trial %q is missing hyperparameter %q", trials[i].TrialName, name))
			}
		}
	}

	sort.Strings(findings)
	return findings
}
