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
package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

func TestRequireFailsWithoutCapability(t *testing.T) {
	s := Set{Server: &protocol.ServerCapabilities{}}
	err := s.Require(MethodResourcesSubscribe)
	require.Error(t, err)
	var unsupported *Unsupported
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, MethodResourcesSubscribe, unsupported.Method)
}

func TestRequireSucceedsWhenAdvertised(t *testing.T) {
	s := Set{Server: &protocol.ServerCapabilities{
		Resources: &protocol.ResourcesCapability{Subscribe: true},
	}}
	require.NoError(t, s.Require(MethodResourcesSubscribe))
	require.NoError(t, s.Require(MethodResourcesList))
}

func TestRequireToolsGate(t *testing.T) {
	s := Set{Server: &protocol.ServerCapabilities{}}
	require.Error(t, s.Require(MethodToolsCall))

	s.Server.Tools = &protocol.ToolsCapability{}
	require.NoError(t, s.Require(MethodToolsCall))
}

func TestRequireRootsGatesOnClientSide(t *testing.T) {
	s := Set{Client: &protocol.ClientCapabilities{}}
	require.Error(t, s.Require(MethodRootsList))

	s.Client.Roots = &protocol.RootsCapability{}
	require.NoError(t, s.Require(MethodRootsList))
}
