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

package fake

import (
	"context"

	"github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

var _ v1alpha1.API = &FakeAPI{}

// FakeAPI is an in-memory tuning API used by command tests
type FakeAPI struct {
	jobs   map[string]v1alpha1.TuningJob
	trials map[string][]v1alpha1.TrialItem
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		jobs:   make(map[string]v1alpha1.TuningJob),
		trials: make(map[string][]v1alpha1.TrialItem),
	}
}

// AddTuningJob registers a job snapshot and its trials under the supplied name
func (f *FakeAPI) AddTuningJob(name string, job v1alpha1.TuningJob, trials []v1alpha1.TrialItem) {
	job.Self = f.key(v1alpha1.NewJobName(name))
	job.Trials = job.Self + "/trials"
	f.jobs[job.Self] = job
	f.trials[job.Trials] = trials
}

func (f *FakeAPI) key(n v1alpha1.JobName) string {
	return "http://example.com/api/tuning/" + n.Name()
}

func (f *FakeAPI) Options(context.Context) (v1alpha1.ServerMeta, error) {
	return v1alpha1.ServerMeta{Server: "fake"}, nil
}

func (f *FakeAPI) GetTuningJobByName(ctx context.Context, n v1alpha1.JobName) (v1alpha1.TuningJob, error) {
	return f.GetTuningJob(ctx, f.key(n))
}

func (f *FakeAPI) GetTuningJob(ctx context.Context, uri string) (v1alpha1.TuningJob, error) {
	if j, ok := f.jobs[uri]; ok {
		return j, nil
	}
	return v1alpha1.TuningJob{}, &v1alpha1.Error{Type: v1alpha1.ErrTuningJobNotFound}
}

func (f *FakeAPI) GetAllTrials(ctx context.Context, uri string, q *v1alpha1.TrialListQuery) (v1alpha1.TrialList, error) {
	trials, ok := f.trials[uri]
	if !ok {
		return v1alpha1.TrialList{}, &v1alpha1.Error{Type: v1alpha1.ErrTuningJobNotFound}
	}

	l := v1alpha1.TrialList{}
	for i := range trials {
		if matchStatus(q, trials[i].Status) {
			l.Trials = append(l.Trials, trials[i])
		}
	}
	return l, nil
}

func (f *FakeAPI) GetTrialsPage(ctx context.Context, uri string) (v1alpha1.TrialList, error) {
	return f.GetAllTrials(ctx, uri, nil)
}

func matchStatus(q *v1alpha1.TrialListQuery, s v1alpha1.TrialStatus) bool {
	if q == nil || len(q.Status) == 0 {
		return true
	}
	for _, qs := range q.Status {
		if qs == s {
			return true
		}
	}
	return false
}
