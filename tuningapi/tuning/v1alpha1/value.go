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
	"encoding/json"
	"strconv"
)

// NumberOrString is a hyperparameter value that can be a JSON number or string. Numeric and
// categorical hyperparameters share a single assignment representation on the wire.
type NumberOrString struct {
	IsString bool
	NumVal   json.Number
	StrVal   string
}

// FromInt64 returns the supplied value as a NumberOrString
func FromInt64(val int64) NumberOrString {
	return NumberOrString{NumVal: json.Number(strconv.FormatInt(val, 10))}
}

// FromFloat64 returns the supplied value as a NumberOrString
func FromFloat64(val float64) NumberOrString {
	return NumberOrString{NumVal: json.Number(strconv.FormatFloat(val, 'f', -1, 64))}
}

// FromString returns the supplied value as a NumberOrString
func FromString(val string) NumberOrString {
	return NumberOrString{StrVal: val, IsString: true}
}

// String coerces the value to a string.
func (s *NumberOrString) String() string {
	if s.IsString {
		return s.StrVal
	}
	return s.NumVal.String()
}

// Float64Value coerces the value to a float64, returning false when the value does not
// parse as a number. Categorical assignments frequently hold numeric strings, so string
// values are given a chance to parse rather than failing outright.
func (s *NumberOrString) Float64Value() (float64, bool) {
	if s.IsString {
		v, err := strconv.ParseFloat(s.StrVal, 64)
		return v, err == nil
	}
	v, err := s.NumVal.Float64()
	return v, err == nil
}

// IsNumeric returns true when the value coerces cleanly to a float64
func (s *NumberOrString) IsNumeric() bool {
	_, ok := s.Float64Value()
	return ok
}

// MarshalJSON writes the value with the appropriate type.
func (s NumberOrString) MarshalJSON() ([]byte, error) {
	if s.IsString {
		return json.Marshal(s.StrVal)
	}
	if s.NumVal == "" {
		// The zero value is not a valid number literal
		return []byte("null"), nil
	}
	return json.Marshal(s.NumVal)
}

// UnmarshalJSON reads the value from either a string or number.
func (s *NumberOrString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s.IsString = true
		return json.Unmarshal(b, &s.StrVal)
	}
	return json.Unmarshal(b, &s.NumVal)
}
