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
package tools

import (
	"context"
	"encoding/json"

	"github.com/teradata-labs/mcpcore/pkg/mcp/peer"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// Install registers tools/list and tools/call on p.
func (r *Registry) Install(p *peer.Peer) {
	p.Handle("tools/list", r.handleList)
	p.Handle("tools/call", r.handleCall)
}

func (r *Registry) handleList(_ context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var p protocol.ListToolsParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, "invalid tools/list params: "+err.Error(), nil)
		}
	}
	return r.List(p.Cursor)
}

func (r *Registry) handleCall(ctx context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var p protocol.CallToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, protocol.NewError(protocol.InvalidParams, "invalid tools/call params: "+err.Error(), nil)
	}
	if p.Name == "" {
		return nil, protocol.NewError(protocol.InvalidParams, "tool name is required", nil)
	}
	return r.Call(ctx, p.Name, p.Arguments), nil
}
