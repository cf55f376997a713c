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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/mcpcore/pkg/mcp/lifecycle"
	"github.com/teradata-labs/mcpcore/pkg/mcp/peer"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
	"github.com/teradata-labs/mcpcore/pkg/mcp/transport"
)

func newTestClientPeer(t *testing.T, ctx context.Context, tr transport.Transport) *peer.Peer {
	t.Helper()
	p := peer.New(tr, nil)
	go p.Serve(ctx)
	return p
}

type echoToolProvider struct{}

func (echoToolProvider) ListTools(_ context.Context) ([]protocol.Tool, error) {
	return []protocol.Tool{{
		Name: "echo",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"message": map[string]interface{}{"type": "string"}},
			"required":   []interface{}{"message"},
		},
	}}, nil
}

func (echoToolProvider) CallTool(_ context.Context, _ string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	return &protocol.CallToolResult{Content: []protocol.Content{{Type: "text", Text: args["message"].(string)}}}, nil
}

func TestServerHandshakeAndToolCall(t *testing.T) {
	clientSide, serverSide := transport.NewInMemoryPair(8)
	srv := New(protocol.Implementation{Name: "s", Version: "1"}, nil, serverSide, WithToolProvider(echoToolProvider{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)

	clientPeer := newTestClientPeer(t, ctx, clientSide)

	result, err := clientPeer.Call(ctx, "initialize", protocol.InitializeParams{
		ProtocolVersion: "2025-03-26",
		ClientInfo:      protocol.Implementation{Name: "t", Version: "1"},
	})
	require.NoError(t, err)
	var initResult protocol.InitializeResult
	require.NoError(t, protocol.DecodeResult(result, &initResult))
	require.Equal(t, "2025-03-26", initResult.ProtocolVersion)
	require.NotNil(t, initResult.Capabilities.Tools)

	require.NoError(t, clientPeer.Notify(ctx, "notifications/initialized", nil))

	listResp, err := clientPeer.Call(ctx, "tools/list", nil)
	require.NoError(t, err)
	var listResult protocol.ToolListResult
	require.NoError(t, protocol.DecodeResult(listResp, &listResult))
	require.Len(t, listResult.Tools, 1)
	require.Equal(t, "echo", listResult.Tools[0].Name)

	callResp, err := clientPeer.Call(ctx, "tools/call", protocol.CallToolParams{
		Name:      "echo",
		Arguments: map[string]interface{}{"message": "hi"},
	})
	require.NoError(t, err)
	var callResult protocol.CallToolResult
	require.NoError(t, protocol.DecodeResult(callResp, &callResult))
	require.False(t, callResult.IsError)
	require.Equal(t, "hi", callResult.Content[0].Text)
}

func TestServerToolCallSchemaViolationIsNotAnRPCError(t *testing.T) {
	clientSide, serverSide := transport.NewInMemoryPair(8)
	srv := New(protocol.Implementation{Name: "s", Version: "1"}, nil, serverSide, WithToolProvider(echoToolProvider{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)

	clientPeer := newTestClientPeer(t, ctx, clientSide)
	_, err := clientPeer.Call(ctx, "initialize", protocol.InitializeParams{ProtocolVersion: protocol.LatestVersion})
	require.NoError(t, err)
	require.NoError(t, clientPeer.Notify(ctx, "notifications/initialized", nil))

	callResp, err := clientPeer.Call(ctx, "tools/call", protocol.CallToolParams{Name: "echo", Arguments: map[string]interface{}{}})
	require.NoError(t, err)

	var callResult protocol.CallToolResult
	require.NoError(t, protocol.DecodeResult(callResp, &callResult))
	require.True(t, callResult.IsError)
	require.Equal(t, `Required property "message" is missing at path #root`, callResult.Content[0].Text)
}

func TestServerPingRespondsPromptly(t *testing.T) {
	clientSide, serverSide := transport.NewInMemoryPair(8)
	srv := New(protocol.Implementation{Name: "s", Version: "1"}, nil, serverSide)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)

	clientPeer := newTestClientPeer(t, ctx, clientSide)
	_, err := clientPeer.Call(ctx, "ping", nil)
	require.NoError(t, err)
}

func TestServerLifecycleReachesReady(t *testing.T) {
	clientSide, serverSide := transport.NewInMemoryPair(8)
	srv := New(protocol.Implementation{Name: "s", Version: "1"}, nil, serverSide)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)

	clientPeer := newTestClientPeer(t, ctx, clientSide)
	_, err := clientPeer.Call(ctx, "initialize", protocol.InitializeParams{ProtocolVersion: protocol.LatestVersion})
	require.NoError(t, err)
	require.NoError(t, clientPeer.Notify(ctx, "notifications/initialized", nil))

	require.Eventually(t, func() bool { return srv.State() == lifecycle.Ready }, time.Second, time.Millisecond)
}
