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

// Package client implements an MCP client: the initialize handshake, and
// helpers for the tools/resources/prompts/roots surfaces a server exposes.
// Rebuilt on top of peer.Peer, which now owns request/response correlation
// and inbound dispatch — the teacher's Client duplicated both.
package client

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/teradata-labs/mcpcore/pkg/mcp/capability"
	"github.com/teradata-labs/mcpcore/pkg/mcp/lifecycle"
	"github.com/teradata-labs/mcpcore/pkg/mcp/peer"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
	"github.com/teradata-labs/mcpcore/pkg/mcp/roots"
	"github.com/teradata-labs/mcpcore/pkg/mcp/streams"
	"github.com/teradata-labs/mcpcore/pkg/mcp/transport"
)

// SamplingHandler answers a server-issued sampling/createMessage request.
type SamplingHandler func(ctx context.Context, params protocol.SamplingParams) (*protocol.SamplingResult, error)

// ProgressHandler receives progress updates for a request this client issued.
type ProgressHandler = streams.ProgressHandler

// Config configures a new Client.
type Config struct {
	Name    string
	Version string

	SupportsSampling bool
	SupportsRoots    bool

	Logger *zap.Logger
}

// Client is one MCP client-side connection.
type Client struct {
	peer      *peer.Peer
	lifecycle *lifecycle.Client
	logger    *zap.Logger
	progress  *streams.ProgressTracker

	// Roots is non-nil when Config.SupportsRoots was set; the server this
	// Client is talking to is auto-attached to it as "server".
	Roots *roots.Registry

	toolsMu sync.RWMutex
	tools   map[string]protocol.Tool

	samplingMu      sync.RWMutex
	samplingHandler SamplingHandler

	notifyMu              sync.RWMutex
	onResourceUpdated     func(uri string)
	onResourceListChanged func()
	onToolListChanged     func()
	onPromptListChanged   func()
}

// New builds a Client over t but does not yet perform the handshake; call
// Serve then Initialize.
func New(cfg Config, t transport.Transport) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	caps := protocol.ClientCapabilities{}
	if cfg.SupportsSampling {
		caps.Sampling = &protocol.SamplingCapability{}
	}
	if cfg.SupportsRoots {
		caps.Roots = &protocol.RootsCapability{ListChanged: true}
	}

	p := peer.New(t, logger)
	c := &Client{
		peer:      p,
		lifecycle: lifecycle.NewClient(protocol.Implementation{Name: cfg.Name, Version: cfg.Version}, caps),
		logger:    logger,
		progress:  streams.NewProgressTracker(),
		tools:     make(map[string]protocol.Tool),
	}

	p.Handle("sampling/createMessage", c.handleSampling)
	p.Handle("notifications/progress", c.handleProgress)
	p.Handle("notifications/resources/updated", c.handleResourceUpdated)
	p.Handle("notifications/resources/list_changed", c.handleResourceListChanged)
	p.Handle("notifications/tools/list_changed", c.handleToolListChanged)
	p.Handle("notifications/prompts/list_changed", c.handlePromptListChanged)

	if cfg.SupportsRoots {
		c.Roots = roots.NewRegistry()
		c.Roots.AttachServer("server", p)
	}

	return c
}

// Serve runs the client's read/dispatch/notify loop until ctx is cancelled
// or the transport fails. Must be running before Initialize is called.
func (c *Client) Serve(ctx context.Context) error {
	return c.peer.Serve(ctx)
}

// Initialize performs the initialize handshake and, on success, sends
// notifications/initialized.
func (c *Client) Initialize(ctx context.Context) (*protocol.InitializeResult, error) {
	return c.lifecycle.Initialize(ctx, c.peer)
}

// Ping checks connection liveness.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.peer.Call(ctx, "ping", nil)
	return err
}

// ServerInfo returns the implementation details the server reported.
func (c *Client) ServerInfo() protocol.Implementation {
	return c.lifecycle.ServerInfo()
}

// ServerCapabilities returns the capability set the server declared.
func (c *Client) ServerCapabilities() protocol.ServerCapabilities {
	return c.lifecycle.ServerCapabilities()
}

// CapabilitySet returns the server's capabilities wrapped for
// capability.Require gating.
func (c *Client) CapabilitySet() capability.Set {
	return c.lifecycle.CapabilitySet()
}

// State returns the handshake's current lifecycle state.
func (c *Client) State() lifecycle.State {
	return c.lifecycle.State()
}

// Close stops the client's peer and closes its transport.
func (c *Client) Close() error {
	return c.peer.Close()
}

// SetSamplingHandler registers the handler used to answer server-issued
// sampling/createMessage requests. A nil handler (the default) causes such
// requests to fail with MethodNotFound.
func (c *Client) SetSamplingHandler(h SamplingHandler) {
	c.samplingMu.Lock()
	defer c.samplingMu.Unlock()
	c.samplingHandler = h
}

// TrackProgress registers h to receive notifications/progress for token
// until Untrack is called. Callers mint token (e.g. the outbound request's
// own id) and attach it via _meta.progressToken.
func (c *Client) TrackProgress(token string, h ProgressHandler) {
	c.progress.Register(token, h)
}

// UntrackProgress stops reporting progress for token.
func (c *Client) UntrackProgress(token string) {
	c.progress.Unregister(token)
}

// OnResourceUpdated registers a callback invoked whenever a subscribed
// resource's notifications/resources/updated arrives.
func (c *Client) OnResourceUpdated(h func(uri string)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onResourceUpdated = h
}

// OnResourceListChanged registers a callback invoked on
// notifications/resources/list_changed.
func (c *Client) OnResourceListChanged(h func()) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onResourceListChanged = h
}

// OnToolListChanged registers a callback invoked on
// notifications/tools/list_changed. The client's own tool cache is not
// invalidated automatically; callers that care should re-call ListTools.
func (c *Client) OnToolListChanged(h func()) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onToolListChanged = h
}

// OnPromptListChanged registers a callback invoked on
// notifications/prompts/list_changed.
func (c *Client) OnPromptListChanged(h func()) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onPromptListChanged = h
}

func (c *Client) handleSampling(ctx context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	c.samplingMu.RLock()
	handler := c.samplingHandler
	c.samplingMu.RUnlock()

	if handler == nil {
		return nil, protocol.NewError(protocol.MethodNotFound, "sampling not supported", nil)
	}

	var sp protocol.SamplingParams
	if err := json.Unmarshal(params, &sp); err != nil {
		return nil, protocol.NewError(protocol.InvalidParams, "invalid sampling params: "+err.Error(), nil)
	}

	return handler(ctx, sp)
}

func (c *Client) handleProgress(_ context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var n protocol.ProgressNotification
	if err := json.Unmarshal(params, &n); err != nil {
		c.logger.Warn("malformed progress notification", zap.Error(err))
		return nil, nil
	}
	c.progress.Dispatch(n)
	return nil, nil
}

func (c *Client) handleResourceUpdated(_ context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var n protocol.ResourceUpdatedNotification
	if err := json.Unmarshal(params, &n); err != nil {
		c.logger.Warn("malformed resource updated notification", zap.Error(err))
		return nil, nil
	}
	c.notifyMu.RLock()
	h := c.onResourceUpdated
	c.notifyMu.RUnlock()
	if h != nil {
		h(n.URI)
	}
	return nil, nil
}

func (c *Client) handleResourceListChanged(_ context.Context, _ *protocol.RequestID, _ json.RawMessage) (interface{}, error) {
	c.notifyMu.RLock()
	h := c.onResourceListChanged
	c.notifyMu.RUnlock()
	if h != nil {
		h()
	}
	return nil, nil
}

func (c *Client) handleToolListChanged(_ context.Context, _ *protocol.RequestID, _ json.RawMessage) (interface{}, error) {
	c.notifyMu.RLock()
	h := c.onToolListChanged
	c.notifyMu.RUnlock()
	if h != nil {
		h()
	}
	return nil, nil
}

func (c *Client) handlePromptListChanged(_ context.Context, _ *protocol.RequestID, _ json.RawMessage) (interface{}, error) {
	c.notifyMu.RLock()
	h := c.onPromptListChanged
	c.notifyMu.RUnlock()
	if h != nil {
		h()
	}
	return nil, nil
}
