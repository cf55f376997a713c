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
package resources

import (
	"context"
	"encoding/json"

	"github.com/teradata-labs/mcpcore/pkg/mcp/peer"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// Install registers the resources/* handlers on p and wires this Tracker to
// serve them. The caller is still responsible for advertising the
// resources capability on the owning server.
func (t *Tracker) Install(p *peer.Peer) {
	p.Handle("resources/list", t.handleList)
	p.Handle("resources/templates/list", t.handleListTemplates)
	p.Handle("resources/read", t.handleRead)
	p.Handle("resources/subscribe", t.handleSubscribe)
	p.Handle("resources/unsubscribe", t.handleUnsubscribe)
}

func (t *Tracker) handleList(_ context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var p protocol.ListResourcesParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, "invalid resources/list params: "+err.Error(), nil)
		}
	}
	return t.List(p.Cursor)
}

func (t *Tracker) handleListTemplates(_ context.Context, _ *protocol.RequestID, _ json.RawMessage) (interface{}, error) {
	return struct {
		ResourceTemplates []protocol.ResourceTemplate `json:"resourceTemplates"`
	}{ResourceTemplates: t.ListTemplates()}, nil
}

func (t *Tracker) handleRead(ctx context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var p protocol.ReadResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, protocol.NewError(protocol.InvalidParams, "invalid resources/read params: "+err.Error(), nil)
	}
	result, rpcErr := t.Read(ctx, p.URI)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return result, nil
}

func (t *Tracker) handleSubscribe(_ context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var p protocol.ReadResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, protocol.NewError(protocol.InvalidParams, "invalid resources/subscribe params: "+err.Error(), nil)
	}
	t.Subscribe(p.URI)
	return struct{}{}, nil
}

func (t *Tracker) handleUnsubscribe(_ context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var p protocol.ReadResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, protocol.NewError(protocol.InvalidParams, "invalid resources/unsubscribe params: "+err.Error(), nil)
	}
	t.Unsubscribe(p.URI)
	return struct{}{}, nil
}
