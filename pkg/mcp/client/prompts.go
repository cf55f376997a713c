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
// Package client implements MCP client prompts support.
package client

import (
	"context"
	"fmt"

	"github.com/teradata-labs/mcpcore/pkg/mcp/capability"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// ListPrompts returns one page of prompts the server advertises.
func (c *Client) ListPrompts(ctx context.Context, cursor string) (*protocol.PromptListResult, error) {
	if err := c.CapabilitySet().Require(capability.MethodPromptsList); err != nil {
		return nil, err
	}

	resp, err := c.peer.Call(ctx, "prompts/list", protocol.PaginatedParams{Cursor: cursor})
	if err != nil {
		return nil, err
	}

	var result protocol.PromptListResult
	if err := protocol.DecodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse prompts/list result: %w", err)
	}
	return &result, nil
}

// GetPrompt retrieves a rendered prompt with the given arguments.
func (c *Client) GetPrompt(ctx context.Context, name string, arguments map[string]interface{}) (*protocol.GetPromptResult, error) {
	if err := c.CapabilitySet().Require(capability.MethodPromptsGet); err != nil {
		return nil, err
	}

	resp, err := c.peer.Call(ctx, "prompts/get", protocol.GetPromptParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}

	var result protocol.GetPromptResult
	if err := protocol.DecodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse prompts/get result: %w", err)
	}
	return &result, nil
}
