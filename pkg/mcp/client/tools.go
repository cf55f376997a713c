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
// Package client implements MCP client tools support.
package client

import (
	"context"
	"fmt"

	"github.com/teradata-labs/mcpcore/pkg/mcp/capability"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// ListTools returns one page of tools the server advertises, refreshing the
// client's name->Tool cache as it goes.
func (c *Client) ListTools(ctx context.Context, cursor string) (*protocol.ToolListResult, error) {
	if err := c.CapabilitySet().Require(capability.MethodToolsList); err != nil {
		return nil, err
	}

	resp, err := c.peer.Call(ctx, "tools/list", protocol.PaginatedParams{Cursor: cursor})
	if err != nil {
		return nil, err
	}

	var result protocol.ToolListResult
	if err := protocol.DecodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse tools/list result: %w", err)
	}

	c.toolsMu.Lock()
	for _, tool := range result.Tools {
		c.tools[tool.Name] = tool
	}
	c.toolsMu.Unlock()

	return &result, nil
}

// CallTool invokes a tool with the given arguments. A schema violation or
// invocation failure the tool itself reports comes back as a
// CallToolResult with IsError set, not a Go error — only a protocol-level
// failure (unknown method, capability missing, malformed response) returns
// one.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*protocol.CallToolResult, error) {
	if err := c.CapabilitySet().Require(capability.MethodToolsCall); err != nil {
		return nil, err
	}

	resp, err := c.peer.Call(ctx, "tools/call", protocol.CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}

	var result protocol.CallToolResult
	if err := protocol.DecodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse tools/call result: %w", err)
	}

	return &result, nil
}

// CachedTool returns a tool definition from the local cache, fetching the
// first page of tools/list first if the cache is still empty.
func (c *Client) CachedTool(ctx context.Context, name string) (protocol.Tool, bool, error) {
	c.toolsMu.RLock()
	tool, ok := c.tools[name]
	empty := len(c.tools) == 0
	c.toolsMu.RUnlock()

	if ok || !empty {
		return tool, ok, nil
	}

	if _, err := c.ListTools(ctx, ""); err != nil {
		return protocol.Tool{}, false, err
	}

	c.toolsMu.RLock()
	tool, ok = c.tools[name]
	c.toolsMu.RUnlock()
	return tool, ok, nil
}
