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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	endpointTuning = "/tuning/"

	relationSelf     = "self"
	relationNext     = "next"
	relationPrev     = "prev"
	relationPrevious = "previous"
	relationTrials   = "https://tunelab.io/rel/trials"
)

// Meta is used to collect resource metadata from the response
type Meta interface {
	SetLocation(string)
	SetLastModified(time.Time)
	SetLink(rel, link string)
}

// Metadata is used to hold single or multi-value metadata from list responses
type Metadata map[string][]string

func (m *Metadata) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if *m == nil {
		*m = make(map[string][]string, len(raw))
	}
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			(*m)[k] = append((*m)[k], t)
		case []interface{}:
			for i := range t {
				(*m)[k] = append((*m)[k], fmt.Sprintf("%s", t[i]))
			}
		}
	}
	return nil
}

type ErrorType string

const (
	ErrTuningJobNameInvalid ErrorType = "tuning-job-name-invalid"
	ErrTuningJobNotFound    ErrorType = "tuning-job-not-found"
	ErrTrialsUnavailable    ErrorType = "trials-unavailable"
	ErrUnauthorized         ErrorType = "unauthorized"
	ErrUnexpected           ErrorType = "unexpected"
)

// Error represents the API specific error messages and may be used in response to HTTP status codes
type Error struct {
	Type       ErrorType     `json:"-"`
	Message    string        `json:"error"`
	RetryAfter time.Duration `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Type)
}

// IsNotFound checks to see if the error indicates a missing tuning job
func IsNotFound(err error) bool {
	if terr, ok := err.(*Error); ok {
		return terr.Type == ErrTuningJobNotFound
	}
	return false
}

// IsUnauthorized check to see if the error is an "unauthorized" error
func IsUnauthorized(err error) bool {
	// OAuth errors (e.g. fetching tokens) will come out of `Do` and will be wrapped in url.Error
	if uerr, ok := err.(*url.Error); ok {
		err = uerr.Unwrap()
	}
	if rerr, ok := err.(*oauth2.RetrieveError); ok {
		if rerr.Response.StatusCode == http.StatusUnauthorized {
			return true
		}
	}
	if terr, ok := err.(*Error); ok {
		if terr.Type == ErrUnauthorized {
			return true
		}
	}
	return false
}

type ServerMeta struct {
	Server string `json:"-"`
}

func (m *ServerMeta) Unmarshal(header http.Header) {
	m.Server = header.Get("Server")
}

// JobName exists to clearly separate cases where an actual name can be used
type JobName interface {
	Name() string
}

// NewJobName returns a tuning job name for a given string
func NewJobName(n string) JobName {
	return jobName{name: n}
}

type jobName struct {
	name string
}

func (n jobName) Name() string {
	return n.name
}

func (n jobName) String() string {
	return n.name
}

// JobStatus is the observed state of a tuning job
type JobStatus string

const (
	JobInProgress JobStatus = "inProgress"
	JobCompleted  JobStatus = "completed"
	JobStopped    JobStatus = "stopped"
	JobFailed     JobStatus = "failed"
)

// ObjectiveDirection indicates whether the objective metric is minimized or maximized
type ObjectiveDirection string

const (
	DirectionMinimize ObjectiveDirection = "minimize"
	DirectionMaximize ObjectiveDirection = "maximize"
)

// Objective identifies the metric the tuning job optimizes and the direction of improvement
type Objective struct {
	// The name of the objective metric.
	Name string `json:"name"`
	// The direction the service drives the metric.
	Direction ObjectiveDirection `json:"direction"`
}

type RangeType string

const (
	RangeContinuous  RangeType = "continuous"
	RangeInteger     RangeType = "int"
	RangeCategorical RangeType = "categorical"
)

type Bounds struct {
	// The minimum value for a numeric range.
	Min json.Number `json:"min"`
	// The maximum value for a numeric range.
	Max json.Number `json:"max"`
}

// HyperparameterRange is the declared search space for a single hyperparameter
type HyperparameterRange struct {
	// The name of the hyperparameter.
	Name string `json:"name"`
	// The declared tuning type of the hyperparameter.
	Type RangeType `json:"type"`
	// The domain of a numeric hyperparameter.
	Bounds *Bounds `json:"bounds,omitempty"`
	// The enumerated values of a categorical hyperparameter, in declaration order.
	Values []string `json:"values,omitempty"`
}

type TuningJobMeta struct {
	LastModified time.Time `json:"-"`
	Self         string    `json:"-"`
	Trials       string    `json:"-"`
}

func (m *TuningJobMeta) SetLocation(string) {}
func (m *TuningJobMeta) SetLastModified(lastModified time.Time) {
	m.LastModified = lastModified
}
func (m *TuningJobMeta) SetLink(rel, link string) {
	switch rel {
	case relationSelf:
		m.Self = link
	case relationTrials:
		m.Trials = link
	}
}

// TuningJob is a read-only snapshot of a managed hyperparameter search
type TuningJob struct {
	TuningJobMeta

	// The display name of the tuning job. Do not use for generating URLs!
	DisplayName string `json:"displayName,omitempty"`
	// The current status of the tuning job.
	Status JobStatus `json:"status"`
	// The metric being optimized and its direction.
	Objective Objective `json:"objective"`
	// The number of trials that ran to completion.
	CompletedTrials int64 `json:"completedTrials,omitempty"`
	// The best observed trial, if the service has selected one.
	BestTrial *TrialItem `json:"bestTrial,omitempty"`
	// The declared search space of the tuning job.
	Ranges []HyperparameterRange `json:"ranges"`
}

// Name allows a tuning job to be used as a JobName
func (j *TuningJob) Name() string {
	u, err := url.Parse(j.Self)
	if err != nil {
		return ""
	}
	i := strings.Index(u.Path, endpointTuning)
	if i < 0 {
		return ""
	}
	return u.Path[len(endpointTuning)+i:]
}

// Range returns the declared range for the named hyperparameter
func (j *TuningJob) Range(name string) *HyperparameterRange {
	for i := range j.Ranges {
		if j.Ranges[i].Name == name {
			return &j.Ranges[i]
		}
	}
	return nil
}

// API provides bindings for the supported endpoints
type API interface {
	Options(context.Context) (ServerMeta, error)
	GetTuningJobByName(context.Context, JobName) (TuningJob, error)
	GetTuningJob(context.Context, string) (TuningJob, error)
	GetAllTrials(context.Context, string, *TrialListQuery) (TrialList, error)
	GetTrialsPage(context.Context, string) (TrialList, error)
}
