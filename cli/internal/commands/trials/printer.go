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

package trials

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"k8s.io/client-go/util/jsonpath"

	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// trialsMeta is the metadata extraction necessary for printing trial tables
type trialsMeta struct{}

// ExtractList returns the items from an API list object
func (m *trialsMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	if o, ok := obj.(*tuningv1alpha1.TrialList); ok {
		list := make([]interface{}, len(o.Trials))
		for i := range o.Trials {
			list[i] = &o.Trials[i]
		}
		return list, nil
	}

	if obj != nil {
		return []interface{}{obj}, nil
	}

	return nil, nil
}

// Columns returns the column names to use
func (m *trialsMeta) Columns(obj interface{}, outputFormat string) []string {
	// Special case for trial list CSV to include everything as columns
	if tl, ok := obj.(*tuningv1alpha1.TrialList); ok && outputFormat == "csv" {
		columns := []string{"name", "status", "objective"}

		// CSV column names should correspond to the hyperparameter names
		if tl.Job != nil {
			for i := range tl.Job.Ranges {
				columns = append(columns, "parameter_"+tl.Job.Ranges[i].Name)
			}
		}

		return append(columns, "startTime")
	}

	columns := []string{"name", "objective", "startTime"}
	if outputFormat == "wide" {
		columns = append(columns, "status", "assignments")
	}
	return columns
}

// ExtractValue returns a cell value
func (m *trialsMeta) ExtractValue(obj interface{}, column string) (string, error) {
	t, ok := obj.(*tuningv1alpha1.TrialItem)
	if !ok {
		return "", fmt.Errorf("expected trial item, got %T", obj)
	}

	switch column {
	case "name":
		return t.TrialName, nil
	case "status":
		return string(t.Status), nil
	case "objective":
		if t.HasObjective() {
			return strconv.FormatFloat(*t.FinalObjective, 'f', -1, 64), nil
		}
		return "", nil
	case "startTime":
		if t.StartTime != nil {
			return t.StartTime.UTC().Format(time.RFC3339), nil
		}
		return "", nil
	case "assignments":
		parts := make([]string, 0, len(t.Assignments))
		for i := range t.Assignments {
			parts = append(parts, fmt.Sprintf("%s=%s", t.Assignments[i].ParameterName, t.Assignments[i].Value.String()))
		}
		return strings.Join(parts, ","), nil
	default:
		// This could be a name pattern for a hyperparameter assignment
		if pn := strings.TrimPrefix(column, "parameter_"); pn != column {
			if v, ok := t.Assignment(pn); ok {
				return v.String(), nil
			}
			return "", nil // Do not fail for missing assignments, just leave it blank
		}
	}
	return "", fmt.Errorf("unable to get value for column %s", column)
}

// Header returns the header name to use for a column
func (m *trialsMeta) Header(outputFormat string, column string) string {
	if strings.ToLower(outputFormat) == "csv" {
		return column
	}
	column = regexp.MustCompile("(.)([A-Z])").ReplaceAllString(column, "$1 $2")
	return strings.ToUpper(column)
}

// sortByField sorts using a JSONPath expression
func sortByField(sortBy string, item func(int) interface{}) func(int, int) bool {
	parser := jsonpath.New("sorting").AllowMissingKeys(true)
	if err := parser.Parse(relaxedJSONPathExpression(sortBy)); err != nil {
		return func(i int, j int) bool { return i < j }
	}

	return func(i, j int) bool {
		ir, ierr := parser.FindResults(item(i))
		iok := ierr == nil && len(ir) > 0 && len(ir[0]) > 0 && ir[0][0].CanInterface()

		jr, jerr := parser.FindResults(item(j))
		jok := jerr == nil && len(jr) > 0 && len(jr[0]) > 0 && jr[0][0].CanInterface()

		if iok && jok && ir[0][0].Kind() == jr[0][0].Kind() {
			jv := jr[0][0].Interface()
			switch iv := ir[0][0].Interface().(type) {
			case int64:
				return iv < jv.(int64)
			case float64:
				return iv < jv.(float64)
			case string:
				return iv < jv.(string)
			}
		}

		return i < j
	}
}

func relaxedJSONPathExpression(expr string) string {
	// Roughly the same as RelaxedJSONPathExpression in kubectl
	if strings.HasPrefix(expr, "{") && strings.HasSuffix(expr, "}") {
		expr = strings.TrimPrefix(strings.TrimSuffix(expr, "}"), "{")
	}
	expr = strings.TrimPrefix(expr, ".")
	if expr == "" {
		return "{$}"
	}
	return fmt.Sprintf("{.%s}", expr)
}
