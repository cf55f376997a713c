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
// Package manager provides multi-server orchestration for MCP clients.
package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/mcpcore/pkg/mcp/client"
	"github.com/teradata-labs/mcpcore/pkg/mcp/transport"
)

// managedClient pairs a client with the cancel func for the goroutine
// running its Serve loop, so stopping a server also stops reading from it.
type managedClient struct {
	client *client.Client
	cancel context.CancelFunc
}

// Manager orchestrates multiple MCP server connections, each reached over
// its own stdio subprocess transport.
type Manager struct {
	config  Config
	logger  *zap.Logger
	clients map[string]*managedClient
	mu      sync.RWMutex
	started bool
}

// NewManager creates a new MCP manager.
func NewManager(config Config, logger *zap.Logger) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		config:  config,
		logger:  logger,
		clients: make(map[string]*managedClient),
	}, nil
}

// Start initializes connections to all enabled servers.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("manager already started")
	}

	m.logger.Info("Starting MCP manager", zap.Int("server_count", len(m.config.Servers)))

	var startErrors []error
	for name, serverConfig := range m.config.Servers {
		if !serverConfig.Enabled {
			m.logger.Debug("Skipping disabled server", zap.String("server", name))
			continue
		}

		if err := m.startServer(ctx, name, serverConfig); err != nil {
			m.logger.Error("Failed to start server",
				zap.String("server", name),
				zap.Error(err))
			startErrors = append(startErrors, fmt.Errorf("server %s: %w", name, err))
		} else {
			m.logger.Info("Started server", zap.String("server", name))
		}
	}

	m.started = true

	if len(startErrors) > 0 && len(m.clients) == 0 {
		return fmt.Errorf("all servers failed to start: %v", startErrors)
	}

	if len(startErrors) > 0 {
		m.logger.Warn("Some servers failed to start",
			zap.Int("failed", len(startErrors)),
			zap.Int("successful", len(m.clients)))
	}

	return nil
}

// startServer launches a subprocess for a single MCP server over stdio,
// starts the client's read loop, and runs the initialize handshake.
func (m *Manager) startServer(ctx context.Context, name string, config ServerConfig) error {
	if config.Transport != "" && config.Transport != "stdio" {
		return fmt.Errorf("unsupported transport: %s (only stdio is supported)", config.Transport)
	}

	trans, err := transport.NewStdioTransport(transport.StdioConfig{
		Command: config.Command,
		Args:    config.Args,
		Env:     config.Env,
		Logger:  m.logger.With(zap.String("server", name)),
	})
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	serveCtx, cancel := context.WithCancel(context.Background())

	mcpClient := client.New(client.Config{
		Name:    m.config.ClientInfo.Name,
		Version: m.config.ClientInfo.Version,
		Logger:  m.logger.With(zap.String("server", name)),
	}, trans)

	go func() {
		if err := mcpClient.Serve(serveCtx); err != nil && serveCtx.Err() == nil {
			m.logger.Warn("server connection ended", zap.String("server", name), zap.Error(err))
		}
	}()

	initCtx := ctx
	if config.Timeout != "" {
		timeout, err := time.ParseDuration(config.Timeout)
		if err != nil {
			cancel()
			trans.Close()
			return fmt.Errorf("invalid timeout: %w", err)
		}
		var cancelInit context.CancelFunc
		initCtx, cancelInit = context.WithTimeout(ctx, timeout)
		defer cancelInit()
	}

	if _, err := mcpClient.Initialize(initCtx); err != nil {
		cancel()
		trans.Close()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	m.clients[name] = &managedClient{client: mcpClient, cancel: cancel}
	return nil
}

// Stop closes all server connections.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Info("Stopping MCP manager", zap.Int("server_count", len(m.clients)))

	var errs []error
	for name, mc := range m.clients {
		mc.cancel()
		if err := mc.client.Close(); err != nil {
			m.logger.Error("Failed to close client",
				zap.String("server", name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("server %s: %w", name, err))
		}
	}

	m.clients = make(map[string]*managedClient)
	m.started = false

	if len(errs) > 0 {
		return fmt.Errorf("errors closing clients: %v", errs)
	}

	return nil
}

// AddServer dynamically adds and starts a new MCP server.
func (m *Manager) AddServer(ctx context.Context, name string, config ServerConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[name]; exists {
		return fmt.Errorf("server %s already exists", name)
	}

	if m.config.Servers == nil {
		m.config.Servers = make(map[string]ServerConfig)
	}
	m.config.Servers[name] = config

	if config.Enabled {
		if err := m.startServer(ctx, name, config); err != nil {
			m.logger.Error("Failed to start new server",
				zap.String("server", name),
				zap.Error(err))
			return fmt.Errorf("failed to start server: %w", err)
		}
		m.logger.Info("Added and started server", zap.String("server", name))
	} else {
		m.logger.Info("Added server (disabled)", zap.String("server", name))
	}

	return nil
}

// StopServer stops a specific MCP server.
func (m *Manager) StopServer(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mc, exists := m.clients[name]
	if !exists {
		return fmt.Errorf("server not found: %s", name)
	}

	mc.cancel()
	if err := mc.client.Close(); err != nil {
		m.logger.Error("Failed to close server",
			zap.String("server", name),
			zap.Error(err))
		return fmt.Errorf("failed to close server: %w", err)
	}

	delete(m.clients, name)
	m.logger.Info("Stopped server", zap.String("server", name))

	return nil
}

// RemoveServer stops and completely removes a server from the manager.
// This removes the server from both the clients map and the config.
func (m *Manager) RemoveServer(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mc, exists := m.clients[name]; exists {
		mc.cancel()
		if err := mc.client.Close(); err != nil {
			m.logger.Error("Failed to close server during removal",
				zap.String("server", name),
				zap.Error(err))
		}
		delete(m.clients, name)
	}

	delete(m.config.Servers, name)
	m.logger.Info("Removed server completely", zap.String("server", name))

	return nil
}

// GetClient returns a client by server name.
func (m *Manager) GetClient(serverName string) (*client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mc, exists := m.clients[serverName]
	if !exists {
		return nil, fmt.Errorf("server not found: %s", serverName)
	}

	return mc.client, nil
}

// ServerNames returns a list of all active server names.
func (m *Manager) ServerNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	return names
}

// IsHealthy checks if a server is healthy by pinging it.
func (m *Manager) IsHealthy(ctx context.Context, serverName string) bool {
	c, err := m.GetClient(serverName)
	if err != nil {
		return false
	}

	if err := c.Ping(ctx); err != nil {
		m.logger.Warn("Server health check failed",
			zap.String("server", serverName),
			zap.Error(err))
		return false
	}

	return true
}

// HealthCheck checks the health of all servers.
func (m *Manager) HealthCheck(ctx context.Context) map[string]bool {
	m.mu.RLock()
	serverNames := make([]string, 0, len(m.clients))
	for name := range m.clients {
		serverNames = append(serverNames, name)
	}
	m.mu.RUnlock()

	results := make(map[string]bool)
	for _, name := range serverNames {
		results[name] = m.IsHealthy(ctx, name)
	}

	return results
}

// GetServerConfig returns the configuration for a server.
func (m *Manager) GetServerConfig(serverName string) (ServerConfig, error) {
	config, exists := m.config.Servers[serverName]
	if !exists {
		return ServerConfig{}, fmt.Errorf("server not found: %s", serverName)
	}
	return config, nil
}

// ListServers returns information about all servers.
func (m *Manager) ListServers() []ServerInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info := make([]ServerInfo, 0, len(m.config.Servers))
	for name, config := range m.config.Servers {
		_, connected := m.clients[name]
		info = append(info, ServerInfo{
			Name:      name,
			Enabled:   config.Enabled,
			Connected: connected,
			Transport: config.Transport,
		})
	}

	return info
}

// ServerInfo provides information about a server.
type ServerInfo struct {
	Name      string
	Enabled   bool
	Connected bool
	Transport string
}
