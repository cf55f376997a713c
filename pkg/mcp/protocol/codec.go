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
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message is either a single Request or a JSON-RPC 2.0 batch (an array of
// Requests). DecodeRequestMessage inspects the first non-whitespace byte to
// tell the two shapes apart before unmarshalling.
type Message struct {
	Single *Request
	Batch  []Request
}

// DecodeRequestMessage parses a line of wire data into a single request or a
// batch of requests, per the JSON-RPC 2.0 batch extension.
func DecodeRequestMessage(data []byte) (*Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	if trimmed[0] == '[' {
		var batch []Request
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("decode batch request: %w", err)
		}
		if len(batch) == 0 {
			return nil, fmt.Errorf("empty batch")
		}
		return &Message{Batch: batch}, nil
	}

	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &Message{Single: &req}, nil
}

// EncodeResponses marshals one or more responses as a single wire message,
// using a bare object for exactly one response and a JSON array otherwise,
// matching the shape DecodeRequestMessage expects on the other side.
func EncodeResponses(responses []Response) ([]byte, error) {
	switch len(responses) {
	case 0:
		return nil, nil
	case 1:
		return json.Marshal(responses[0])
	default:
		return json.Marshal(responses)
	}
}
