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
package manager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeTempConfig(t, `
servers:
  filesystem:
    enabled: true
    command: npx
    args: ["-y", "@modelcontextprotocol/server-filesystem"]
    transport: stdio
    tools:
      all: true
client_info:
  name: mcpcore-test
  version: "0.1.0"
`)

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Contains(t, config.Servers, "filesystem")
	assert.Equal(t, "npx", config.Servers["filesystem"].Command)
	assert.True(t, config.Servers["filesystem"].ToolFilter.All)
	assert.Equal(t, "mcpcore-test", config.ClientInfo.Name)
}

func TestAddServerToConfigFile(t *testing.T) {
	path := writeTempConfig(t, "servers: {}\n")

	err := AddServerToConfigFile(path, "fs", ServerConfig{
		Enabled:   true,
		Command:   "npx",
		Transport: "stdio",
		ToolFilter: ToolFilter{
			Include: []string{"read_file"},
		},
	})
	require.NoError(t, err)

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Contains(t, config.Servers, "fs")
	assert.Equal(t, "npx", config.Servers["fs"].Command)
	assert.Equal(t, []string{"read_file"}, config.Servers["fs"].ToolFilter.Include)
}

func TestUpdateServerInConfigFile(t *testing.T) {
	path := writeTempConfig(t, "servers: {}\n")
	require.NoError(t, AddServerToConfigFile(path, "fs", ServerConfig{Command: "npx", Enabled: true}))

	require.NoError(t, UpdateServerInConfigFile(path, "fs", ServerConfig{Command: "npx2", Enabled: false}))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "npx2", config.Servers["fs"].Command)
	assert.False(t, config.Servers["fs"].Enabled)
}

func TestRemoveServerFromConfigFile(t *testing.T) {
	path := writeTempConfig(t, "servers: {}\n")
	require.NoError(t, AddServerToConfigFile(path, "fs", ServerConfig{Command: "npx", Enabled: true}))
	require.NoError(t, AddServerToConfigFile(path, "pg", ServerConfig{Command: "postgres-mcp", Enabled: true}))

	require.NoError(t, RemoveServerFromConfigFile(path, "fs"))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.NotContains(t, config.Servers, "fs")
	assert.Contains(t, config.Servers, "pg")
}
