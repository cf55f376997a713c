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
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// exampleToolProvider exposes a single "current_time" tool so the binary is
// useful to connect to out of the box without any external configuration.
type exampleToolProvider struct {
	logger *zap.Logger
}

func newExampleToolProvider(logger *zap.Logger) *exampleToolProvider {
	return &exampleToolProvider{logger: logger}
}

func (p *exampleToolProvider) ListTools(_ context.Context) ([]protocol.Tool, error) {
	return []protocol.Tool{
		{
			Name:        "current_time",
			Description: "Returns the current server time in RFC3339 format.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
			Annotations: &protocol.ToolAnnotations{
				ReadOnlyHint: boolPtr(true),
			},
		},
	}, nil
}

func (p *exampleToolProvider) CallTool(_ context.Context, name string, _ map[string]interface{}) (*protocol.CallToolResult, error) {
	if name != "current_time" {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	now := time.Now().Format(time.RFC3339)
	p.logger.Debug("current_time invoked", zap.String("result", now))
	return &protocol.CallToolResult{
		Content: []protocol.Content{{Type: "text", Text: now}},
	}, nil
}

// exampleResourceProvider exposes a single static resource describing the
// running binary.
type exampleResourceProvider struct{}

func newExampleResourceProvider() *exampleResourceProvider {
	return &exampleResourceProvider{}
}

const aboutURI = "mcpeerd://about"

func boolPtr(b bool) *bool { return &b }

func (p *exampleResourceProvider) ListResources(_ context.Context) ([]protocol.Resource, error) {
	return []protocol.Resource{
		{
			URI:         aboutURI,
			Name:        "About mcpeerd",
			Description: "Information about this MCP server binary.",
			MimeType:    "text/plain",
		},
	}, nil
}

func (p *exampleResourceProvider) ReadResource(_ context.Context, uri string) (*protocol.ReadResourceResult, error) {
	if uri != aboutURI {
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}
	return &protocol.ReadResourceResult{
		Contents: []protocol.ResourceContents{
			{URI: uri, MimeType: "text/plain", Text: "mcpeerd: example Model Context Protocol server built on pkg/mcp"},
		},
	}, nil
}
