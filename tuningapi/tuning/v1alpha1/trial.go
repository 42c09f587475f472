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

package v1alpha1

import (
	"math"
	"net/url"
	"strings"
	"time"
)

// TrialStatus is the observed state of a single trial
type TrialStatus string

const (
	TrialInProgress TrialStatus = "inProgress"
	TrialCompleted  TrialStatus = "completed"
	TrialStopped    TrialStatus = "stopped"
	TrialFailed     TrialStatus = "failed"
)

// Assignment is a single sampled hyperparameter value
type Assignment struct {
	// The name of the hyperparameter the assignment corresponds to.
	ParameterName string `json:"parameterName"`
	// The sampled value of the hyperparameter.
	Value NumberOrString `json:"value"`
}

// TrialItem is an immutable snapshot of one training run launched by a tuning job
type TrialItem struct {
	// The name of the trial.
	TrialName string `json:"trialName"`
	// The sampled hyperparameter values for this trial.
	Assignments []Assignment `json:"assignments"`
	// The final objective metric value; absent if the trial failed or never reported.
	FinalObjective *float64 `json:"finalObjective,omitempty"`
	// The time the trial started.
	StartTime *time.Time `json:"startTime,omitempty"`
	// The current trial status.
	Status TrialStatus `json:"status"`

	// The metadata for an individual trial.
	Metadata Metadata `json:"_metadata,omitempty"`

	// Job is a reference back to the tuning job this trial is associated with. This field is
	// never populated by the API, but may be useful for consumers to maintain a connection
	// between resources.
	Job *TuningJob `json:"-"`
}

// HasObjective returns true when the trial reported a usable objective value
func (t *TrialItem) HasObjective() bool {
	return t.FinalObjective != nil && !math.IsNaN(*t.FinalObjective)
}

// Assignment returns the sampled value for the named hyperparameter
func (t *TrialItem) Assignment(name string) (NumberOrString, bool) {
	for i := range t.Assignments {
		if t.Assignments[i].ParameterName == name {
			return t.Assignments[i].Value, true
		}
	}
	return NumberOrString{}, false
}

type TrialListMeta struct {
	Next string `json:"-"`
	Prev string `json:"-"`
}

func (m *TrialListMeta) SetLocation(string)        {}
func (m *TrialListMeta) SetLastModified(time.Time) {}
func (m *TrialListMeta) SetLink(rel, link string) {
	switch rel {
	case relationNext:
		m.Next = link
	case relationPrev, relationPrevious:
		m.Prev = link
	}
}

type TrialListQuery struct {
	// Statuses to fetch, all statuses when empty.
	Status []TrialStatus
}

func (p *TrialListQuery) Encode() string {
	q := url.Values{}
	if p != nil && len(p.Status) > 0 {
		strs := make([]string, len(p.Status))
		for i := range p.Status {
			strs[i] = string(p.Status[i])
		}
		q.Add("status", strings.Join(strs, ","))
	}
	return q.Encode()
}

type TrialList struct {
	TrialListMeta

	// The list of trials.
	Trials []TrialItem `json:"trials"`

	// Job is a reference back to the tuning job this list is associated with. This field is
	// never populated by the API, but may be useful for consumers to maintain a connection
	// between resources.
	Job *TuningJob `json:"-"`
}
