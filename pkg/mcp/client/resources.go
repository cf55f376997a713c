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
// Package client implements MCP client resources support.
package client

import (
	"context"
	"fmt"

	"github.com/teradata-labs/mcpcore/pkg/mcp/capability"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// ListResources returns one page of resources the server advertises.
func (c *Client) ListResources(ctx context.Context, cursor string) (*protocol.ResourceListResult, error) {
	if err := c.CapabilitySet().Require(capability.MethodResourcesList); err != nil {
		return nil, err
	}

	resp, err := c.peer.Call(ctx, "resources/list", protocol.PaginatedParams{Cursor: cursor})
	if err != nil {
		return nil, err
	}

	var result protocol.ResourceListResult
	if err := protocol.DecodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse resources/list result: %w", err)
	}
	return &result, nil
}

// ReadResource reads a resource by URI.
func (c *Client) ReadResource(ctx context.Context, uri string) (*protocol.ReadResourceResult, error) {
	if err := c.CapabilitySet().Require(capability.MethodResourcesRead); err != nil {
		return nil, err
	}

	resp, err := c.peer.Call(ctx, "resources/read", protocol.ReadResourceParams{URI: uri})
	if err != nil {
		return nil, err
	}

	var result protocol.ReadResourceResult
	if err := protocol.DecodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse resources/read result: %w", err)
	}
	return &result, nil
}

// SubscribeResource subscribes to updates for a resource. Fails fast via
// capability.Require if the server never advertised subscribe support.
func (c *Client) SubscribeResource(ctx context.Context, uri string) error {
	if err := c.CapabilitySet().Require(capability.MethodResourcesSubscribe); err != nil {
		return err
	}
	_, err := c.peer.Call(ctx, "resources/subscribe", protocol.ReadResourceParams{URI: uri})
	return err
}

// UnsubscribeResource cancels a subscription made with SubscribeResource.
func (c *Client) UnsubscribeResource(ctx context.Context, uri string) error {
	if err := c.CapabilitySet().Require(capability.MethodResourcesUnsubscribe); err != nil {
		return err
	}
	_, err := c.peer.Call(ctx, "resources/unsubscribe", protocol.ReadResourceParams{URI: uri})
	return err
}
