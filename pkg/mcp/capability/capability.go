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

// Package capability gates MCP operations on what the connected peer
// declared during initialize. Each side's client.go in the teacher checked
// this inline at every call site (e.g. "does the server support resource
// subscriptions?"); this package promotes that repeated nil-guard into a
// single Require call made once per operation, so a missing capability
// fails before anything is sent over the wire.
package capability

import (
	"fmt"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// Set is a snapshot of one peer's declared capabilities, captured after
// initialize completes. Only one of Client/Server is populated, depending
// on which role this Set describes.
type Set struct {
	Client *protocol.ClientCapabilities
	Server *protocol.ServerCapabilities
}

// Method identifies a capability-gated operation.
type Method string

const (
	MethodToolsList            Method = "tools/list"
	MethodToolsCall            Method = "tools/call"
	MethodResourcesList        Method = "resources/list"
	MethodResourcesRead        Method = "resources/read"
	MethodResourcesSubscribe   Method = "resources/subscribe"
	MethodResourcesUnsubscribe Method = "resources/unsubscribe"
	MethodPromptsList          Method = "prompts/list"
	MethodPromptsGet           Method = "prompts/get"
	MethodRootsList            Method = "roots/list"
	MethodSamplingCreateMsg    Method = "sampling/createMessage"
)

// Unsupported is returned by Require when the peer never advertised the
// capability a method needs.
type Unsupported struct {
	Method Method
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("capability not supported: %s", e.Method)
}

// Require checks that the server side of s advertises what method needs.
// Called by a client before it sends a request, so an unsupported call
// never reaches the wire.
func (s Set) Require(method Method) error {
	switch method {
	case MethodToolsList, MethodToolsCall:
		if s.Server == nil || s.Server.Tools == nil {
			return &Unsupported{Method: method}
		}
	case MethodResourcesList, MethodResourcesRead:
		if s.Server == nil || s.Server.Resources == nil {
			return &Unsupported{Method: method}
		}
	case MethodResourcesSubscribe, MethodResourcesUnsubscribe:
		if s.Server == nil || s.Server.Resources == nil || !s.Server.Resources.Subscribe {
			return &Unsupported{Method: method}
		}
	case MethodPromptsList, MethodPromptsGet:
		if s.Server == nil || s.Server.Prompts == nil {
			return &Unsupported{Method: method}
		}
	case MethodRootsList:
		if s.Client == nil || s.Client.Roots == nil {
			return &Unsupported{Method: method}
		}
	case MethodSamplingCreateMsg:
		if s.Client == nil || s.Client.Sampling == nil {
			return &Unsupported{Method: method}
		}
	default:
		return fmt.Errorf("unknown capability-gated method: %s", method)
	}
	return nil
}
