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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (r *recordingNotifier) EnqueueNotify(_ string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
}

func echoSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"message": map[string]interface{}{"type": "string"}},
		"required":   []interface{}{"message"},
	}
}

func TestCallToolEchoRoundTrip(t *testing.T) {
	reg := NewRegistry(&recordingNotifier{})
	reg.Register(protocol.Tool{Name: "echo", InputSchema: echoSchema()}, func(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
		return &protocol.CallToolResult{Content: []protocol.Content{{Type: "text", Text: args["message"].(string)}}}, nil
	}, true)

	result := reg.Call(context.Background(), "echo", map[string]interface{}{"message": "hi"})
	require.False(t, result.IsError)
	assert.Equal(t, "hi", result.Content[0].Text)
}

func TestCallToolMissingRequiredArgument(t *testing.T) {
	reg := NewRegistry(&recordingNotifier{})
	reg.Register(protocol.Tool{Name: "echo", InputSchema: echoSchema()}, func(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
		return &protocol.CallToolResult{Content: []protocol.Content{{Type: "text", Text: args["message"].(string)}}}, nil
	}, true)

	result := reg.Call(context.Background(), "echo", map[string]interface{}{})
	require.True(t, result.IsError)
	assert.Equal(t, `Required property "message" is missing at path #root`, result.Content[0].Text)
}

func TestCallToolWrongArgumentType(t *testing.T) {
	reg := NewRegistry(&recordingNotifier{})
	reg.Register(protocol.Tool{Name: "echo", InputSchema: echoSchema()}, func(_ context.Context, _ map[string]interface{}) (*protocol.CallToolResult, error) {
		return &protocol.CallToolResult{}, nil
	}, true)

	result := reg.Call(context.Background(), "echo", map[string]interface{}{"message": 123.0})
	require.True(t, result.IsError)
	assert.Equal(t, "Value `123` is not of type `String` at path #root[\"message\"]", result.Content[0].Text)
}

func TestCallToolNotFound(t *testing.T) {
	reg := NewRegistry(&recordingNotifier{})
	result := reg.Call(context.Background(), "missing", nil)
	require.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "tool not found")
}

func TestCallToolInvokeErrorBecomesIsError(t *testing.T) {
	reg := NewRegistry(&recordingNotifier{})
	reg.Register(protocol.Tool{Name: "boom"}, func(_ context.Context, _ map[string]interface{}) (*protocol.CallToolResult, error) {
		return nil, assertError{}
	}, false)

	result := reg.Call(context.Background(), "boom", nil)
	require.True(t, result.IsError)
}

type assertError struct{}

func (assertError) Error() string { return "boom failed" }

func TestRegisterAndUnregisterNotifyListChanged(t *testing.T) {
	n := &recordingNotifier{}
	reg := NewRegistry(n)
	reg.Register(protocol.Tool{Name: "a"}, func(_ context.Context, _ map[string]interface{}) (*protocol.CallToolResult, error) {
		return &protocol.CallToolResult{}, nil
	}, false)
	reg.Unregister("a")

	n.mu.Lock()
	defer n.mu.Unlock()
	assert.Equal(t, 2, n.calls)
}

func TestListToolsPaginates(t *testing.T) {
	reg := NewRegistry(&recordingNotifier{})
	for i := 0; i < 3; i++ {
		name := string(rune('a' + i))
		reg.Register(protocol.Tool{Name: name}, func(_ context.Context, _ map[string]interface{}) (*protocol.CallToolResult, error) {
			return &protocol.CallToolResult{}, nil
		}, false)
	}

	result, err := reg.List("")
	require.NoError(t, err)
	assert.Len(t, result.Tools, 3)
}
