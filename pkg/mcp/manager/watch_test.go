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
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReloadAddsAndRemovesDisabledServers(t *testing.T) {
	path := writeTempConfig(t, `
servers:
  old:
    enabled: false
    command: echo
client_info:
  name: mcpcore-test
  version: "0.1.0"
`)

	mgr, err := NewManager(Config{
		Servers:    map[string]ServerConfig{"old": {Enabled: false, Command: "echo"}},
		ClientInfo: ClientInfo{Name: "mcpcore-test", Version: "0.1.0"},
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`
servers:
  new:
    enabled: false
    command: echo
client_info:
  name: mcpcore-test
  version: "0.1.0"
`), 0600))

	require.NoError(t, mgr.Reload(context.Background(), path))

	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	assert.NotContains(t, mgr.config.Servers, "old")
	assert.Contains(t, mgr.config.Servers, "new")
}

func TestReloadRejectsInvalidConfig(t *testing.T) {
	path := writeTempConfig(t, "servers: {}\n")

	mgr, err := NewManager(Config{
		Servers:    map[string]ServerConfig{"old": {Enabled: false, Command: "echo"}},
		ClientInfo: ClientInfo{Name: "mcpcore-test", Version: "0.1.0"},
	}, zap.NewNop())
	require.NoError(t, err)

	err = mgr.Reload(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no servers configured")
}

func TestWatchConfigFileTriggersReload(t *testing.T) {
	path := writeTempConfig(t, `
servers:
  old:
    enabled: false
    command: echo
client_info:
  name: mcpcore-test
  version: "0.1.0"
`)

	mgr, err := NewManager(Config{
		Servers:    map[string]ServerConfig{"old": {Enabled: false, Command: "echo"}},
		ClientInfo: ClientInfo{Name: "mcpcore-test", Version: "0.1.0"},
	}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fw, err := mgr.watchConfigFile(ctx, path, 20*time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`
servers:
  new:
    enabled: false
    command: echo
client_info:
  name: mcpcore-test
  version: "0.1.0"
`), 0600))

	require.Eventually(t, func() bool {
		mgr.mu.RLock()
		defer mgr.mu.RUnlock()
		_, has := mgr.config.Servers["new"]
		return has
	}, 2*time.Second, 10*time.Millisecond)
}
