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

// Package tools implements the server-side tool registry: schema-validated
// argument pipeline, pagination, and list_changed notifications. Grounded
// on the teacher's ToolProvider interface and tools/list, tools/call
// handlers, generalized from a single fixed provider to a registry any
// number of callers can mutate at runtime.
package tools

import (
	"context"
	"strings"
	"sync"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
	"github.com/teradata-labs/mcpcore/pkg/mcp/schema"
	"github.com/teradata-labs/mcpcore/pkg/mcp/streams"
)

// Invoke runs a tool with decoded call arguments.
type Invoke func(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error)

type toolEntry struct {
	tool     protocol.Tool
	invoke   Invoke
	validate bool
}

// Registry holds the set of tools a server exposes.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]toolEntry

	notifier streams.Notifier
}

// NewRegistry builds an empty tool registry. n receives
// notifications/tools/list_changed on every mutation.
func NewRegistry(n streams.Notifier) *Registry {
	return &Registry{
		tools:    make(map[string]toolEntry),
		notifier: n,
	}
}

// Register inserts or replaces a tool. When validateArguments is true, Call
// runs the tool's inputSchema against incoming arguments before invoking.
func (r *Registry) Register(tool protocol.Tool, invoke Invoke, validateArguments bool) {
	r.mu.Lock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = toolEntry{tool: tool, invoke: invoke, validate: validateArguments}
	r.mu.Unlock()

	r.notifier.EnqueueNotify("notifications/tools/list_changed", protocol.ToolListChangedNotification{})
}

// Unregister removes a tool by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	if _, exists := r.tools[name]; exists {
		delete(r.tools, name)
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	r.notifier.EnqueueNotify("notifications/tools/list_changed", protocol.ToolListChangedNotification{})
}

// List returns one page of registered tools.
func (r *Registry) List(cursor string) (*protocol.ToolListResult, error) {
	r.mu.RLock()
	all := make([]protocol.Tool, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.tools[name].tool)
	}
	r.mu.RUnlock()

	page, next, err := streams.Page(all, cursor, streams.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return &protocol.ToolListResult{
		Tools:           page,
		PaginatedResult: protocol.PaginatedResult{NextCursor: next},
	}, nil
}

func textErrorResult(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{{Type: "text", Text: text}},
		IsError: true,
	}
}

// Call runs the named tool's pipeline: lookup, optional schema validation,
// invocation, and error normalization. Every failure short of a malformed
// request is reported as CallToolResult{isError:true}, never a JSON-RPC
// error — only the registry's caller (tools/call's handler) may escalate a
// structurally invalid request to a protocol-level error.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) *protocol.CallToolResult {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return textErrorResult("tool not found: " + name)
	}

	if entry.validate && entry.tool.InputSchema != nil {
		result := schema.Validate(entry.tool.InputSchema, argsAsValue(args))
		if !result.Valid() {
			messages := make([]string, len(result.Errors))
			for i, e := range result.Errors {
				messages[i] = e.Message
			}
			return textErrorResult(strings.Join(messages, "; "))
		}
	}

	out, err := entry.invoke(ctx, args)
	if err != nil {
		return textErrorResult(err.Error())
	}
	if out == nil {
		return &protocol.CallToolResult{}
	}
	return out
}

// argsAsValue presents a nil arguments map as an empty object rather than a
// Go nil, so schema.Validate's required-property check still fires for
// tools called with no arguments at all.
func argsAsValue(args map[string]interface{}) interface{} {
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}
