// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMissingRequired(t *testing.T) {
	s := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"age": map[string]interface{}{"type": "integer"}},
		"required":   []interface{}{"age"},
	}

	result := Validate(s, map[string]interface{}{})
	require.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, `Required property "age" is missing at path #root`, result.Errors[0].Message)
}

func TestValidateWrongType(t *testing.T) {
	s := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"count": map[string]interface{}{"type": "integer"},
		},
	}

	result := Validate(s, map[string]interface{}{"count": "abc"})
	require.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Value `\"abc\"` is not of type `Integer` at path #root[\"count\"]", result.Errors[0].Message)
}

func TestValidateNestedObject(t *testing.T) {
	s := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"config": map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"enabled": map[string]interface{}{"type": "boolean"}},
				"required":   []interface{}{"enabled"},
			},
		},
		"required": []interface{}{"config"},
	}

	result := Validate(s, map[string]interface{}{"config": map[string]interface{}{}})
	require.False(t, result.Valid())
	assert.Equal(t, `Required property "enabled" is missing at path #root["config"]`, result.Errors[0].Message)
}

func TestValidateArrayItems(t *testing.T) {
	s := map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "string",
		},
	}

	result := Validate(s, []interface{}{"a", 1.0, "c"})
	require.False(t, result.Valid())
	assert.Equal(t, "Value `1` is not of type `String` at path #root[1]", result.Errors[0].Message)
}

func TestValidateEnum(t *testing.T) {
	s := map[string]interface{}{
		"type": "string",
		"enum": []interface{}{"utf-8", "ascii"},
	}

	result := Validate(s, "latin1")
	require.False(t, result.Valid())
}

func TestValidateValid(t *testing.T) {
	s := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"path": map[string]interface{}{"type": "string"}},
		"required":   []interface{}{"path"},
	}

	result := Validate(s, map[string]interface{}{"path": "/tmp/f.txt"})
	assert.True(t, result.Valid())
}

func TestValidateAdditionalPropertiesFalseRejectsExtra(t *testing.T) {
	s := map[string]interface{}{
		"type":                 "object",
		"properties":           map[string]interface{}{"path": map[string]interface{}{"type": "string"}},
		"additionalProperties": false,
	}

	result := Validate(s, map[string]interface{}{"path": "/tmp/f.txt", "extra": "nope"})
	require.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, `Additional property "extra" is not allowed at path #root`, result.Errors[0].Message)
}

func TestValidateAdditionalPropertiesSchemaAppliesToExtras(t *testing.T) {
	s := map[string]interface{}{
		"type":                 "object",
		"properties":           map[string]interface{}{},
		"additionalProperties": map[string]interface{}{"type": "integer"},
	}

	result := Validate(s, map[string]interface{}{"count": "abc"})
	require.False(t, result.Valid())
	assert.Equal(t, "Value `\"abc\"` is not of type `Integer` at path #root[\"count\"]", result.Errors[0].Message)
}

func TestValidateAdditionalPropertiesTrueAllowsExtra(t *testing.T) {
	s := map[string]interface{}{
		"type":                 "object",
		"properties":           map[string]interface{}{"path": map[string]interface{}{"type": "string"}},
		"additionalProperties": true,
	}

	result := Validate(s, map[string]interface{}{"path": "/tmp/f.txt", "extra": "fine"})
	assert.True(t, result.Valid())
}

func TestValidateMinimumMaximum(t *testing.T) {
	s := map[string]interface{}{
		"type":    "integer",
		"minimum": 1.0,
		"maximum": 10.0,
	}

	tooLow := Validate(s, 0.0)
	require.False(t, tooLow.Valid())
	assert.Equal(t, "Value `0` is less than minimum 1 at path #root", tooLow.Errors[0].Message)

	tooHigh := Validate(s, 11.0)
	require.False(t, tooHigh.Valid())
	assert.Equal(t, "Value `11` is greater than maximum 10 at path #root", tooHigh.Errors[0].Message)

	assert.True(t, Validate(s, 5.0).Valid())
}

func TestValidateMinLengthMaxLength(t *testing.T) {
	s := map[string]interface{}{
		"type":      "string",
		"minLength": 2.0,
		"maxLength": 5.0,
	}

	tooShort := Validate(s, "a")
	require.False(t, tooShort.Valid())
	assert.Equal(t, "Value `\"a\"` is shorter than minLength 2 at path #root", tooShort.Errors[0].Message)

	tooLong := Validate(s, "abcdef")
	require.False(t, tooLong.Valid())
	assert.Equal(t, "Value `\"abcdef\"` is longer than maxLength 5 at path #root", tooLong.Errors[0].Message)

	assert.True(t, Validate(s, "abc").Valid())
}

func TestValidateSchemaDocumentRejectsInvalid(t *testing.T) {
	err := ValidateSchemaDocument(map[string]interface{}{
		"type": 5, // type must be a string or array of strings
	})
	require.Error(t, err)
}

func TestValidateSchemaDocumentAcceptsValid(t *testing.T) {
	err := ValidateSchemaDocument(map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"path": map[string]interface{}{"type": "string"}},
	})
	require.NoError(t, err)
}
