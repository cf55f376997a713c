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

// Package server implements a Model Context Protocol server: one peer
// connection, the initialize handshake, and whichever capability modules
// (tools, resources) the caller installs via Option. Generalizes the
// teacher's single fixed-shape MCPServer into a peer-backed assembly of
// independent capability modules, per spec 9's "capability modules"
// design note.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teradata-labs/mcpcore/pkg/mcp/lifecycle"
	"github.com/teradata-labs/mcpcore/pkg/mcp/peer"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
	"github.com/teradata-labs/mcpcore/pkg/mcp/resources"
	"github.com/teradata-labs/mcpcore/pkg/mcp/tools"
	"github.com/teradata-labs/mcpcore/pkg/mcp/transport"
)

// Server is one MCP server-side connection.
type Server struct {
	peer      *peer.Peer
	lifecycle *lifecycle.Server
	logger    *zap.Logger
	id        uuid.UUID

	// Tools is nil unless an option enabling the tools capability was
	// passed to New.
	Tools *tools.Registry
	// Resources is nil unless an option enabling the resources capability
	// was passed to New.
	Resources *resources.Tracker
}

type config struct {
	caps             protocol.ServerCapabilities
	throttleDelay    time.Duration
	toolProvider     ToolProvider
	resourceProvider ResourceProvider
	enableTools      bool
	enableResources  bool
	subscribe        bool
}

// Option configures a Server at construction time.
type Option func(*config)

// WithTools enables the tools capability with an initially empty registry;
// the caller registers tools after New returns via Server.Tools.Register.
func WithTools() Option {
	return func(c *config) { c.enableTools = true }
}

// WithToolProvider enables the tools capability and bulk-registers every
// tool p currently reports, wiring each call back through p.CallTool. This
// preserves the teacher's ToolProvider ergonomics on top of the new
// validating, paginating registry.
func WithToolProvider(p ToolProvider) Option {
	return func(c *config) {
		c.enableTools = true
		c.toolProvider = p
	}
}

// WithResources enables the resources capability. subscribe controls
// whether the server advertises subscribe support.
func WithResources(subscribe bool) Option {
	return func(c *config) {
		c.enableResources = true
		c.subscribe = subscribe
	}
}

// WithResourceProvider enables the resources capability (with subscribe
// support) and bulk-registers every resource p currently reports.
func WithResourceProvider(p ResourceProvider) Option {
	return func(c *config) {
		c.enableResources = true
		c.subscribe = true
		c.resourceProvider = p
	}
}

// WithThrottleDelay overrides the resource notification coalescing window
// (resources.DefaultThrottleDelay otherwise). Tests pass zero.
func WithThrottleDelay(d time.Duration) Option {
	return func(c *config) { c.throttleDelay = d }
}

// New builds a Server over t, advertising info and whatever capabilities
// the given options enable.
func New(info protocol.Implementation, logger *zap.Logger, t transport.Transport, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := &config{throttleDelay: resources.DefaultThrottleDelay}
	for _, opt := range opts {
		opt(cfg)
	}

	p := peer.New(t, logger)
	s := &Server{
		peer:      p,
		lifecycle: lifecycle.NewServer(info, cfg.caps),
		logger:    logger,
		id:        uuid.New(),
	}

	p.Handle("initialize", s.handleInitialize)
	p.Handle("notifications/initialized", s.handleInitialized)
	p.Handle("ping", s.handlePing)

	if cfg.enableTools {
		s.lifecycle.Capabilities.Tools = &protocol.ToolsCapability{ListChanged: true}
		s.Tools = tools.NewRegistry(p)
		s.Tools.Install(p)
		if cfg.toolProvider != nil {
			installToolProvider(s.Tools, cfg.toolProvider, logger)
		}
	}

	if cfg.enableResources {
		s.lifecycle.Capabilities.Resources = &protocol.ResourcesCapability{
			Subscribe:   cfg.subscribe,
			ListChanged: true,
		}
		s.Resources = resources.NewTracker(p, cfg.throttleDelay)
		s.Resources.Install(p)
		if cfg.resourceProvider != nil {
			installResourceProvider(s.Resources, cfg.resourceProvider, logger)
		}
	}

	return s
}

func installToolProvider(reg *tools.Registry, p ToolProvider, logger *zap.Logger) {
	list, err := p.ListTools(context.Background())
	if err != nil {
		logger.Error("failed to list tools from provider", zap.Error(err))
		return
	}
	for _, tool := range list {
		t := tool
		reg.Register(t, func(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
			return p.CallTool(ctx, t.Name, args)
		}, true)
	}
}

func installResourceProvider(tr *resources.Tracker, p ResourceProvider, logger *zap.Logger) {
	list, err := p.ListResources(context.Background())
	if err != nil {
		logger.Error("failed to list resources from provider", zap.Error(err))
		return
	}
	for _, res := range list {
		tr.AddResource(res, func(ctx context.Context, uri string) (*protocol.ReadResourceResult, error) {
			return p.ReadResource(ctx, uri)
		})
	}
}

// Serve runs the server's read/dispatch/notify loop until ctx is cancelled
// or the transport fails.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("MCP server starting")
	return s.peer.Serve(ctx)
}

// Close stops the server's peer and closes its transport.
func (s *Server) Close() error {
	return s.peer.Close()
}

// ClientInfo returns the connected client's implementation details, valid
// once the handshake has progressed past Uninitialized.
func (s *Server) ClientInfo() protocol.Implementation {
	return s.lifecycle.ClientInfo()
}

// ClientCapabilities returns the capability set the client declared.
func (s *Server) ClientCapabilities() protocol.ClientCapabilities {
	return s.lifecycle.ClientCapabilities()
}

// State returns the handshake's current lifecycle state.
func (s *Server) State() lifecycle.State {
	return s.lifecycle.State()
}

// ID returns the id minted for this connection when the server was
// constructed. It is logged as connection_id when the client connects;
// resources.Tracker mints its own, separate id for subscriptions.
func (s *Server) ID() uuid.UUID {
	return s.id
}

func (s *Server) handleInitialize(_ context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var initParams protocol.InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &initParams); err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, fmt.Sprintf("invalid initialize params: %v", err), nil)
		}
	}

	result, err := s.lifecycle.HandleInitialize(initParams)
	if err != nil {
		return nil, protocol.NewError(protocol.InvalidRequest, err.Error(), nil)
	}

	if initParams.ClientInfo.Name != "" {
		s.logger.Info("client connected",
			zap.String("client_name", initParams.ClientInfo.Name),
			zap.String("client_version", initParams.ClientInfo.Version),
			zap.String("negotiated_version", result.ProtocolVersion),
			zap.String("connection_id", s.id.String()),
		)
	}

	return result, nil
}

func (s *Server) handleInitialized(_ context.Context, _ *protocol.RequestID, _ json.RawMessage) (interface{}, error) {
	if err := s.lifecycle.HandleInitialized(); err != nil {
		s.logger.Warn("unexpected notifications/initialized", zap.Error(err))
	}
	return nil, nil
}

func (s *Server) handlePing(_ context.Context, _ *protocol.RequestID, _ json.RawMessage) (interface{}, error) {
	return struct{}{}, nil
}
