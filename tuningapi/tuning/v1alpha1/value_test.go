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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberOrString(t *testing.T) {
	cases := []struct {
		desc            string
		value           NumberOrString
		expectedString  string
		expectedFloat   float64
		expectedNumeric bool
		expectedJSON    string
	}{
		{
			desc:            "integer",
			value:           FromInt64(128),
			expectedString:  "128",
			expectedFloat:   128,
			expectedNumeric: true,
			expectedJSON:    `128`,
		},
		{
			desc:            "float",
			value:           FromFloat64(0.01),
			expectedString:  "0.01",
			expectedFloat:   0.01,
			expectedNumeric: true,
			expectedJSON:    `0.01`,
		},
		{
			desc:            "numeric string",
			value:           FromString("0.5"),
			expectedString:  "0.5",
			expectedFloat:   0.5,
			expectedNumeric: true,
			expectedJSON:    `"0.5"`,
		},
		{
			desc:            "categorical string",
			value:           FromString("adam"),
			expectedString:  "adam",
			expectedNumeric: false,
			expectedJSON:    `"adam"`,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expectedString, c.value.String())
			assert.Equal(t, c.expectedNumeric, c.value.IsNumeric())
			if c.expectedNumeric {
				f, ok := c.value.Float64Value()
				assert.True(t, ok)
				assert.Equal(t, c.expectedFloat, f)
			}

			b, err := json.Marshal(c.value)
			require.NoError(t, err)
			assert.Equal(t, c.expectedJSON, string(b))

			actual := NumberOrString{}
			require.NoError(t, json.Unmarshal(b, &actual))
			assert.Equal(t, c.value.IsString, actual.IsString)
			assert.Equal(t, c.expectedString, actual.String())
		})
	}
}
