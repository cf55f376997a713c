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

package server

import (
	"context"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// ToolProvider supplies a fixed set of tools to register at construction
// time. Implementations map domain-specific capabilities to MCP tool
// definitions; the server bulk-registers them into its tools.Registry so
// call arguments still go through the normal validation pipeline.
type ToolProvider interface {
	ListTools(ctx context.Context) ([]protocol.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*protocol.CallToolResult, error)
}

// ResourceProvider supplies a fixed set of resources to register at
// construction time.
type ResourceProvider interface {
	ListResources(ctx context.Context) ([]protocol.Resource, error)
	ReadResource(ctx context.Context, uri string) (*protocol.ReadResourceResult, error)
}
