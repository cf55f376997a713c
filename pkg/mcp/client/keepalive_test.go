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
package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
	"github.com/teradata-labs/mcpcore/pkg/mcp/transport"
)

func TestStartKeepaliveSurvivesSuccessfulPings(t *testing.T) {
	clientSide, serverSide := transport.NewInMemoryPair(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newStubServerPeer(t, ctx, serverSide, protocol.ServerCapabilities{})
	c := New(Config{Name: "test-client", Version: "1"}, clientSide)
	go c.Serve(ctx)
	_, err := c.Initialize(ctx)
	require.NoError(t, err)

	stop := c.StartKeepalive(ctx, 10*time.Millisecond, 3)
	defer stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, c.Ping(ctx))
}

func TestStartKeepaliveClosesAfterMaxFailures(t *testing.T) {
	// No server peer reads the other end, so every ping times out.
	clientSide, _ := transport.NewInMemoryPair(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New(Config{Name: "test-client", Version: "1"}, clientSide)
	go c.Serve(ctx)

	stop := c.StartKeepalive(ctx, 10*time.Millisecond, 2)
	defer stop()

	require.Eventually(t, func() bool {
		return c.Ping(context.Background()) != nil
	}, time.Second, 5*time.Millisecond)
}
