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

// Package schema validates tool call arguments against a JSON Schema subset
// (object, string, number, integer, boolean, array, enum, required,
// properties, items, oneOf, additionalProperties, minimum, maximum,
// minLength, maxLength). Unlike a general-purpose validator, it produces
// a fixed, user-facing error message per violation so callers (and tests)
// can depend on exact wording instead of parsing a library's internal
// error-formatting choices.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ValidationError is a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Result collects every violation found for one argument set.
type Result struct {
	Errors []*ValidationError
}

func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(path, message string) {
	r.Errors = append(r.Errors, &ValidationError{Path: path, Message: message})
}

// rootPath is the path reported for the top-level value being validated.
const rootPath = "#root"

// Validate checks value against schema, rooted at path "#root". schema and
// value are both the generic map/slice/primitive shapes encoding/json
// produces from an untyped Unmarshal, which is how tool input schemas and
// call arguments arrive off the wire.
func Validate(schema map[string]interface{}, value interface{}) *Result {
	result := &Result{}
	validateNode(schema, value, rootPath, result)
	return result
}

func validateNode(schemaNode map[string]interface{}, value interface{}, path string, result *Result) {
	if len(schemaNode) == 0 {
		return
	}

	if oneOf, ok := schemaNode["oneOf"].([]interface{}); ok {
		validateOneOf(oneOf, value, path, result)
		return
	}

	if enum, ok := schemaNode["enum"].([]interface{}); ok {
		if !enumContains(enum, value) {
			result.add(path, fmt.Sprintf("Value `%s` is not one of the allowed enum values at path %s", encodeJSON(value), path))
			return
		}
	}

	schemaType, _ := schemaNode["type"].(string)
	if schemaType == "" {
		return
	}

	if !typeMatches(schemaType, value) {
		result.add(path, fmt.Sprintf("Value `%s` is not of type `%s` at path %s", encodeJSON(value), typeName(schemaType), path))
		return
	}

	switch schemaType {
	case "object":
		validateObject(schemaNode, value, path, result)
	case "array":
		validateArray(schemaNode, value, path, result)
	case "string":
		validateStringBounds(schemaNode, value.(string), path, result)
	case "number", "integer":
		validateNumberBounds(schemaNode, value.(float64), path, result)
	}
}

func validateStringBounds(schemaNode map[string]interface{}, s string, path string, result *Result) {
	length := len([]rune(s))
	if min, ok := numberField(schemaNode, "minLength"); ok && float64(length) < min {
		result.add(path, fmt.Sprintf("Value `%s` is shorter than minLength %v at path %s", encodeJSON(s), min, path))
	}
	if max, ok := numberField(schemaNode, "maxLength"); ok && float64(length) > max {
		result.add(path, fmt.Sprintf("Value `%s` is longer than maxLength %v at path %s", encodeJSON(s), max, path))
	}
}

func validateNumberBounds(schemaNode map[string]interface{}, n float64, path string, result *Result) {
	if min, ok := numberField(schemaNode, "minimum"); ok && n < min {
		result.add(path, fmt.Sprintf("Value `%s` is less than minimum %v at path %s", encodeJSON(n), min, path))
	}
	if max, ok := numberField(schemaNode, "maximum"); ok && n > max {
		result.add(path, fmt.Sprintf("Value `%s` is greater than maximum %v at path %s", encodeJSON(n), max, path))
	}
}

func numberField(schemaNode map[string]interface{}, key string) (float64, bool) {
	n, ok := schemaNode[key].(float64)
	return n, ok
}

func validateOneOf(alternatives []interface{}, value interface{}, path string, result *Result) {
	for _, alt := range alternatives {
		altSchema, ok := alt.(map[string]interface{})
		if !ok {
			continue
		}
		probe := &Result{}
		validateNode(altSchema, value, path, probe)
		if probe.Valid() {
			return
		}
	}
	result.add(path, fmt.Sprintf("Value `%s` does not match any schema in oneOf at path %s", encodeJSON(value), path))
}

func validateObject(schemaNode map[string]interface{}, value interface{}, path string, result *Result) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return // already reported by the type check in validateNode
	}

	required, _ := schemaNode["required"].([]interface{})
	for _, r := range required {
		name, ok := r.(string)
		if !ok {
			continue
		}
		if _, present := obj[name]; !present {
			result.add(path, fmt.Sprintf("Required property %q is missing at path %s", name, path))
		}
	}

	properties, _ := schemaNode["properties"].(map[string]interface{})

	// Deterministic order so repeated validation of the same invalid input
	// always reports errors in the same sequence.
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		propSchema, ok := properties[name].(map[string]interface{})
		if !ok {
			continue
		}
		propValue, present := obj[name]
		if !present {
			continue // required-ness already checked above
		}
		validateNode(propSchema, propValue, fmt.Sprintf("%s[%q]", path, name), result)
	}

	validateAdditionalProperties(schemaNode, properties, obj, path, result)
}

// validateAdditionalProperties enforces the additionalProperties keyword,
// which may be either a bool (false forbids any property not named in
// properties) or a schema fragment (every extra property's value must
// satisfy it). Absent additionalProperties imposes no constraint.
func validateAdditionalProperties(schemaNode map[string]interface{}, properties map[string]interface{}, obj map[string]interface{}, path string, result *Result) {
	additional, present := schemaNode["additionalProperties"]
	if !present {
		return
	}

	extraNames := make([]string, 0)
	for name := range obj {
		if _, declared := properties[name]; declared {
			continue
		}
		extraNames = append(extraNames, name)
	}
	sort.Strings(extraNames)

	switch v := additional.(type) {
	case bool:
		if v {
			return
		}
		for _, name := range extraNames {
			result.add(path, fmt.Sprintf("Additional property %q is not allowed at path %s", name, path))
		}
	case map[string]interface{}:
		for _, name := range extraNames {
			validateNode(v, obj[name], fmt.Sprintf("%s[%q]", path, name), result)
		}
	}
}

func validateArray(schemaNode map[string]interface{}, value interface{}, path string, result *Result) {
	arr, ok := value.([]interface{})
	if !ok {
		return
	}

	itemSchema, ok := schemaNode["items"].(map[string]interface{})
	if !ok {
		return
	}

	for i, item := range arr {
		validateNode(itemSchema, item, fmt.Sprintf("%s[%d]", path, i), result)
	}
}

func typeMatches(schemaType string, value interface{}) bool {
	switch schemaType {
	case "object":
		_, ok := value.(map[string]interface{})
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "number":
		_, ok := value.(float64)
		return ok
	case "integer":
		n, ok := value.(float64)
		return ok && n == float64(int64(n))
	default:
		return true
	}
}

// typeName maps a JSON Schema type keyword to the capitalized noun used in
// validation messages ("string" -> "String"), matching the wording clients
// are expected to match on.
func typeName(schemaType string) string {
	switch schemaType {
	case "string":
		return "String"
	case "number":
		return "Number"
	case "integer":
		return "Integer"
	case "boolean":
		return "Boolean"
	case "object":
		return "Object"
	case "array":
		return "Array"
	default:
		return schemaType
	}
}

func enumContains(enum []interface{}, value interface{}) bool {
	want := encodeJSON(value)
	for _, e := range enum {
		if encodeJSON(e) == want {
			return true
		}
	}
	return false
}

func encodeJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
