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

package status_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunelab/tunectl/cli/internal/commands/status"
	"github.com/tunelab/tunectl/tuningapi/config"
	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
	"github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1/fake"
)

func newFakeAPI() *fake.FakeAPI {
	best := 0.42
	api := fake.NewFakeAPI()
	api.AddTuningJob("cifar-search", tuningv1alpha1.TuningJob{
		DisplayName:     "CIFAR Search",
		Status:          tuningv1alpha1.JobCompleted,
		Objective:       tuningv1alpha1.Objective{Name: "loss", Direction: tuningv1alpha1.DirectionMinimize},
		CompletedTrials: 10,
		BestTrial:       &tuningv1alpha1.TrialItem{TrialName: "trial-7", FinalObjective: &best},
	}, nil)
	api.AddTuningJob("running", tuningv1alpha1.TuningJob{
		Status:    tuningv1alpha1.JobInProgress,
		Objective: tuningv1alpha1.Objective{Name: "accuracy", Direction: tuningv1alpha1.DirectionMaximize},
	}, nil)
	return api
}

func TestStatus(t *testing.T) {
	cases := []struct {
		desc           string
		args           []string
		expectedOut    []string
		expectedErrOut []string
		expectedErr    string
	}{
		{
			desc:        "completed job",
			args:        []string{"cifar-search"},
			expectedOut: []string{"cifar-search", "Completed", "loss", "minimize", "10"},
		},
		{
			desc:        "wide includes the best trial",
			args:        []string{"cifar-search", "-o", "wide"},
			expectedOut: []string{"trial-7", "0.42"},
		},
		{
			desc:           "incomplete job warns",
			args:           []string{"running"},
			expectedOut:    []string{"InProgress", "accuracy", "maximize"},
			expectedErrOut: []string{`warning: tuning job "running" is inProgress, results may be partial`},
		},
		{
			desc:        "missing job",
			args:        []string{"nothing-here"},
			expectedErr: "tuning-job-not-found",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			opts := &status.Options{Config: &config.ClientConfig{}, TuningAPI: newFakeAPI()}
			cmd := status.NewCommand(opts)

			var out, errOut bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs(c.args)

			err := cmd.Execute()
			if c.expectedErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, c.expectedErr)
				return
			}
			require.NoError(t, err)

			for _, s := range c.expectedOut {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range c.expectedErrOut {
				assert.Contains(t, errOut.String(), s)
			}
			if len(c.expectedErrOut) == 0 {
				assert.Empty(t, errOut.String())
			}
		})
	}
}
