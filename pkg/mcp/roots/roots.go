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

// Package roots implements the client-side root registry and its fan-out to
// every connected server. No teacher precedent exists for a roots concept
// (the teacher is a tools/resources consumer, not a provider of roots);
// this is built fresh in the idiom manager.go uses for iterating connected
// servers — a registry of named peers, each notified in turn through its
// non-blocking EnqueueNotify queue, so one slow server cannot stall delivery
// to the others.
package roots

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/teradata-labs/mcpcore/internal/csync"
	"github.com/teradata-labs/mcpcore/pkg/mcp/peer"
	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// Registry tracks the client's exposed roots and fans out list_changed
// notifications to every server connected through it.
type Registry struct {
	mu    sync.RWMutex
	roots map[string]protocol.Root

	servers *csync.Map[string, *peer.Peer]
}

// NewRegistry builds an empty root registry with no servers attached yet.
func NewRegistry() *Registry {
	return &Registry{
		roots:   make(map[string]protocol.Root),
		servers: csync.NewMap[string, *peer.Peer](),
	}
}

// AttachServer registers a connected server's peer under name so future
// root mutations fan out to it. Installing roots/list on p lets that
// server query the current set on demand.
func (r *Registry) AttachServer(name string, p *peer.Peer) {
	r.servers.Set(name, p)

	p.Handle("roots/list", func(_ context.Context, _ *protocol.RequestID, _ json.RawMessage) (interface{}, error) {
		return protocol.ListRootsResult{Roots: r.List()}, nil
	})
}

// DetachServer stops fanning out to name, typically once that server's
// connection closes.
func (r *Registry) DetachServer(name string) {
	r.servers.Delete(name)
}

// List returns the current root set.
func (r *Registry) List() []protocol.Root {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]protocol.Root, 0, len(r.roots))
	for _, root := range r.roots {
		out = append(out, root)
	}
	return out
}

// AddRoot inserts a root. Returns true if the set actually changed, in
// which case every attached server is notified.
func (r *Registry) AddRoot(root protocol.Root) bool {
	r.mu.Lock()
	_, exists := r.roots[root.URI]
	if !exists {
		r.roots[root.URI] = root
	}
	r.mu.Unlock()

	if exists {
		return false
	}
	r.broadcastChanged()
	return true
}

// RemoveRoot deletes a root by uri. Returns true if the set changed.
func (r *Registry) RemoveRoot(uri string) bool {
	r.mu.Lock()
	_, exists := r.roots[uri]
	if exists {
		delete(r.roots, uri)
	}
	r.mu.Unlock()

	if !exists {
		return false
	}
	r.broadcastChanged()
	return true
}

// broadcastChanged sends notifications/roots/list_changed to every attached
// server in turn; a blocked or slow server's queue does not delay the
// others since EnqueueNotify is itself non-blocking.
func (r *Registry) broadcastChanged() {
	r.servers.Seq(func(_ string, p *peer.Peer) bool {
		p.EnqueueNotify("notifications/roots/list_changed", protocol.RootsListChangedNotification{})
		return true
	})
}
