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

// Package lifecycle drives the initialize handshake on both sides of a
// connection. The teacher tracked handshake progress with a pair of
// ad hoc bool fields (server.go's initialized, client.go's initialized)
// guarded by their own mutex; this package makes the three legal states
// explicit and centralizes the version-negotiation rule that previously
// lived as a single hardcoded equality check against protocol.ProtocolVersion.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/teradata-labs/mcpcore/pkg/mcp/capability"
	"github.com/teradata-labs/mcpcore/pkg/mcp/peer"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// State is a connection's position in the handshake state machine.
type State int

const (
	// Uninitialized: no initialize request has been sent or handled yet.
	Uninitialized State = iota
	// Initializing: initialize request/response exchanged, waiting for the
	// client's notifications/initialized.
	Initializing
	// Ready: handshake complete, normal operations are permitted.
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// ErrNotReady is returned when an operation requiring a completed handshake
// runs before notifications/initialized has been observed.
var ErrNotReady = fmt.Errorf("connection has not completed the initialize handshake")

// Machine guards the handshake state transitions for one connection.
// Both Server and Client embed one rather than tracking the state inline.
type Machine struct {
	mu    sync.RWMutex
	state State
}

// State returns the current handshake state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// RequireReady returns ErrNotReady unless the handshake has completed.
func (m *Machine) RequireReady() error {
	if m.State() != Ready {
		return ErrNotReady
	}
	return nil
}

func (m *Machine) set(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Server runs the server side of the handshake: it receives an initialize
// request, negotiates a protocol version, and waits for the client's
// notifications/initialized before allowing the connection into Ready.
type Server struct {
	Machine

	Info         protocol.Implementation
	Capabilities protocol.ServerCapabilities

	mu               sync.RWMutex
	clientInfo       protocol.Implementation
	clientCapability protocol.ClientCapabilities
}

// NewServer builds a Server-side handshake tracker advertising info and caps.
func NewServer(info protocol.Implementation, caps protocol.ServerCapabilities) *Server {
	return &Server{Info: info, Capabilities: caps}
}

// HandleInitialize processes an initialize request, negotiating the
// protocol version against what the client requested, per
// protocol.Negotiate's highest-mutually-supported rule. It may be called
// only once per connection; a second call is rejected.
func (s *Server) HandleInitialize(params protocol.InitializeParams) (*protocol.InitializeResult, error) {
	if s.State() != Uninitialized {
		return nil, fmt.Errorf("initialize already handled, current state is %s", s.State())
	}

	s.mu.Lock()
	s.clientInfo = params.ClientInfo
	s.clientCapability = params.Capabilities
	s.mu.Unlock()

	version := protocol.Negotiate(params.ProtocolVersion, protocol.SupportedVersions)
	s.set(Initializing)

	return &protocol.InitializeResult{
		ProtocolVersion: version,
		Capabilities:    s.Capabilities,
		ServerInfo:      s.Info,
	}, nil
}

// HandleInitialized marks the handshake complete on receipt of the
// client's notifications/initialized. Calling it before HandleInitialize
// or more than once is a no-op error, not a panic, since a misbehaving
// peer should not be able to crash the server.
func (s *Server) HandleInitialized() error {
	if s.State() != Initializing {
		return fmt.Errorf("unexpected notifications/initialized in state %s", s.State())
	}
	s.set(Ready)
	return nil
}

// ClientInfo returns the implementation details the client sent with
// initialize. Only meaningful once the state is past Uninitialized.
func (s *Server) ClientInfo() protocol.Implementation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientInfo
}

// ClientCapabilities returns the capability set the client declared.
func (s *Server) ClientCapabilities() protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapability
}

// CapabilitySet returns a capability.Set describing the client, suitable
// for gating server-initiated calls such as sampling/createMessage or
// roots/list.
func (s *Server) CapabilitySet() capability.Set {
	caps := s.ClientCapabilities()
	return capability.Set{Client: &caps}
}

// Client runs the client side of the handshake: it sends the initialize
// request over p, validates the version the server chose, and confirms
// with notifications/initialized.
type Client struct {
	Machine

	Info         protocol.Implementation
	Capabilities protocol.ClientCapabilities

	mu               sync.RWMutex
	serverInfo       protocol.Implementation
	serverCapability protocol.ServerCapabilities
	serverVersion    string
}

// NewClient builds a Client-side handshake tracker advertising info and caps.
func NewClient(info protocol.Implementation, caps protocol.ClientCapabilities) *Client {
	return &Client{Info: info, Capabilities: caps}
}

// Initialize performs the full handshake over p: sends initialize,
// validates the version the server returned is one this client supports,
// then sends notifications/initialized to unblock the server.
func (c *Client) Initialize(ctx context.Context, p *peer.Peer) (*protocol.InitializeResult, error) {
	if c.State() != Uninitialized {
		return nil, fmt.Errorf("initialize already performed, current state is %s", c.State())
	}

	params := protocol.InitializeParams{
		ProtocolVersion: protocol.LatestVersion,
		Capabilities:    c.Capabilities,
		ClientInfo:      c.Info,
	}

	resp, err := p.Call(ctx, "initialize", params)
	if err != nil {
		return nil, fmt.Errorf("initialize request failed: %w", err)
	}

	var result protocol.InitializeResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("decode initialize result: %w", err)
	}

	if !protocol.IsSupportedVersion(result.ProtocolVersion) {
		c.set(Uninitialized)
		return nil, fmt.Errorf("server negotiated unsupported protocol version %q", result.ProtocolVersion)
	}

	c.mu.Lock()
	c.serverInfo = result.ServerInfo
	c.serverCapability = result.Capabilities
	c.serverVersion = result.ProtocolVersion
	c.mu.Unlock()

	c.set(Initializing)

	if err := p.Notify(ctx, "notifications/initialized", nil); err != nil {
		return nil, fmt.Errorf("send notifications/initialized: %w", err)
	}
	c.set(Ready)

	return &result, nil
}

// ServerInfo returns the implementation details the server reported.
func (c *Client) ServerInfo() protocol.Implementation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// ServerCapabilities returns the capability set the server declared.
func (c *Client) ServerCapabilities() protocol.ServerCapabilities {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverCapability
}

// NegotiatedVersion returns the protocol version the server chose.
func (c *Client) NegotiatedVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverVersion
}

// CapabilitySet returns a capability.Set describing the server, suitable
// for gating client-initiated calls such as resources/subscribe.
func (c *Client) CapabilitySet() capability.Set {
	caps := c.ServerCapabilities()
	return capability.Set{Server: &caps}
}

func decodeResult(resp *protocol.Response, v interface{}) error {
	return protocol.DecodeResult(resp, v)
}
