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
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateSchemaDocument checks that candidate is itself a well-formed JSON
// Schema document, by validating it against the JSON Schema Draft-07
// meta-schema. It is a standalone check: tools.Registry.Register does not
// call it, and it never runs on a tool call — so gojsonschema's
// library-formatted error strings are fine here;
// nothing downstream depends on their exact wording the way tool-argument
// validation does.
func ValidateSchemaDocument(candidate map[string]interface{}) error {
	if candidate == nil {
		return nil
	}

	metaLoader := gojsonschema.NewStringLoader(draft7MetaSchema)
	docLoader := gojsonschema.NewGoLoader(candidate)

	result, err := gojsonschema.Validate(metaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("meta-schema validation failed: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("tool input schema is not valid JSON Schema: %v", msgs)
	}

	return nil
}
