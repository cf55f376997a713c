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

// Package resources implements the server-side resource registry: exact and
// templated resources, subscriptions, and the throttled list_changed/updated
// notification pair. Restated per the spec's "capability modules" design
// note, a Tracker is installed onto a peer rather than subclassing it.
package resources

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
	"github.com/teradata-labs/mcpcore/pkg/mcp/streams"
)

// ErrNoMatch is returned by a TemplateHandler to indicate the uri it was
// given does not belong to that template; Read tries the next template.
var ErrNoMatch = errors.New("resource template does not match uri")

// ReadHandler serves the contents of one exactly-registered resource.
type ReadHandler func(ctx context.Context, uri string) (*protocol.ReadResourceResult, error)

// TemplateHandler attempts to serve a uri against a resource template. It
// returns ErrNoMatch if uri does not belong to this template at all, any
// other error if the uri matched but could not be satisfied (surfaced as
// InvalidParams), or a result on success.
type TemplateHandler func(ctx context.Context, uri string) (*protocol.ReadResourceResult, error)

type resourceEntry struct {
	resource protocol.Resource
	handler  ReadHandler
}

type templateEntry struct {
	template protocol.ResourceTemplate
	handler  TemplateHandler
}

// DefaultThrottleDelay is the leading/trailing-edge coalescing window used
// unless a Tracker is built with a different delay (tests use zero).
const DefaultThrottleDelay = time.Second

// Tracker owns the resource and template registries, subscription set, and
// throttled notification delivery for one server-side connection. connID
// identifies that connection, the same way a subscriber id is handed out
// elsewhere in the module with google/uuid.
type Tracker struct {
	mu             sync.RWMutex
	resourcesByURI map[string]resourceEntry
	resourceOrder  []string
	templates      []templateEntry
	subscribed     map[string]uuid.UUID
	connID         uuid.UUID

	notifier streams.Notifier

	listChanged     *throttle
	updatedMu       sync.Mutex
	updatedThrottle map[string]*throttle
	throttleDelay   time.Duration
}

// NewTracker builds a Tracker that emits notifications through n, coalescing
// bursts within delay. A fresh connection id is minted for subscription
// bookkeeping.
func NewTracker(n streams.Notifier, delay time.Duration) *Tracker {
	t := &Tracker{
		resourcesByURI:  make(map[string]resourceEntry),
		subscribed:      make(map[string]uuid.UUID),
		connID:          uuid.New(),
		updatedThrottle: make(map[string]*throttle),
		notifier:        n,
		throttleDelay:   delay,
	}
	t.listChanged = newThrottle(delay, func() {
		n.EnqueueNotify("notifications/resources/list_changed", protocol.ResourceListChangedNotification{})
	})
	return t
}

// AddResource inserts or replaces a resource and schedules a list_changed
// notification.
func (t *Tracker) AddResource(r protocol.Resource, h ReadHandler) {
	t.mu.Lock()
	if _, exists := t.resourcesByURI[r.URI]; !exists {
		t.resourceOrder = append(t.resourceOrder, r.URI)
	}
	t.resourcesByURI[r.URI] = resourceEntry{resource: r, handler: h}
	t.mu.Unlock()

	t.listChanged.trigger()
}

// RemoveResource deletes a resource. Any existing subscription to its uri is
// left untouched (updates simply stop happening since the entry is gone);
// a final list_changed notification is still emitted.
func (t *Tracker) RemoveResource(uri string) {
	t.mu.Lock()
	if _, exists := t.resourcesByURI[uri]; exists {
		delete(t.resourcesByURI, uri)
		for i, u := range t.resourceOrder {
			if u == uri {
				t.resourceOrder = append(t.resourceOrder[:i], t.resourceOrder[i+1:]...)
				break
			}
		}
	}
	t.mu.Unlock()

	t.listChanged.trigger()
}

// UpdateResource replaces a resource's metadata and, if its uri currently
// has a subscriber, schedules a throttled updated notification.
func (t *Tracker) UpdateResource(r protocol.Resource) {
	t.mu.Lock()
	entry, exists := t.resourcesByURI[r.URI]
	if exists {
		entry.resource = r
		t.resourcesByURI[r.URI] = entry
	}
	_, subscribed := t.subscribed[r.URI]
	t.mu.Unlock()

	if !subscribed {
		return
	}
	t.updateThrottleFor(r.URI).trigger()
}

func (t *Tracker) updateThrottleFor(uri string) *throttle {
	t.updatedMu.Lock()
	defer t.updatedMu.Unlock()
	th, ok := t.updatedThrottle[uri]
	if !ok {
		u := uri
		th = newThrottle(t.throttleDelay, func() {
			t.notifier.EnqueueNotify("notifications/resources/updated", protocol.ResourceUpdatedNotification{URI: u})
		})
		t.updatedThrottle[uri] = th
	}
	return th
}

// AddResourceTemplate appends a template and schedules list_changed.
func (t *Tracker) AddResourceTemplate(tmpl protocol.ResourceTemplate, h TemplateHandler) {
	t.mu.Lock()
	t.templates = append(t.templates, templateEntry{template: tmpl, handler: h})
	t.mu.Unlock()

	t.listChanged.trigger()
}

// Subscribe records interest in uri even if it is not currently registered,
// tagging the subscription with this tracker's connection id.
func (t *Tracker) Subscribe(uri string) {
	t.mu.Lock()
	t.subscribed[uri] = t.connID
	t.mu.Unlock()
}

// Unsubscribe drops interest in uri; subsequent updates are silent.
func (t *Tracker) Unsubscribe(uri string) {
	t.mu.Lock()
	delete(t.subscribed, uri)
	t.mu.Unlock()
}

// ConnectionID returns the id identifying the connection this Tracker was
// registered for.
func (t *Tracker) ConnectionID() uuid.UUID {
	return t.connID
}

// List returns one page of registered resources.
func (t *Tracker) List(cursor string) (*protocol.ResourceListResult, error) {
	t.mu.RLock()
	all := make([]protocol.Resource, 0, len(t.resourceOrder))
	for _, uri := range t.resourceOrder {
		all = append(all, t.resourcesByURI[uri].resource)
	}
	t.mu.RUnlock()

	page, next, err := streams.Page(all, cursor, streams.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return &protocol.ResourceListResult{
		Resources:       page,
		PaginatedResult: protocol.PaginatedResult{NextCursor: next},
	}, nil
}

// ListTemplates returns every registered resource template.
func (t *Tracker) ListTemplates() []protocol.ResourceTemplate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]protocol.ResourceTemplate, len(t.templates))
	for i, e := range t.templates {
		out[i] = e.template
	}
	return out
}

// Read serves uri: an exact match wins outright; otherwise templates are
// tried in registration order and the first one whose handler does not
// return ErrNoMatch decides the outcome.
func (t *Tracker) Read(ctx context.Context, uri string) (*protocol.ReadResourceResult, *protocol.Error) {
	t.mu.RLock()
	entry, exact := t.resourcesByURI[uri]
	templates := make([]templateEntry, len(t.templates))
	copy(templates, t.templates)
	t.mu.RUnlock()

	if exact {
		result, err := entry.handler(ctx, uri)
		if err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, err.Error(), nil)
		}
		return result, nil
	}

	for _, te := range templates {
		result, err := te.handler(ctx, uri)
		if errors.Is(err, ErrNoMatch) {
			continue
		}
		if err != nil {
			return nil, protocol.NewError(protocol.InvalidParams, err.Error(), nil)
		}
		return result, nil
	}

	return nil, protocol.NewError(protocol.ResourceNotFound, "resource not found: "+uri, nil)
}
