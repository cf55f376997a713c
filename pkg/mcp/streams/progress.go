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
package streams

import (
	"sync"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

// Notifier is the subset of peer.Peer used to emit notifications. Defined
// locally so this package does not depend on peer (peer itself imports
// streams, so the dependency direction stays one-way).
type Notifier interface {
	EnqueueNotify(method string, params interface{})
}

// ProgressHandler receives progress updates for a token this side issued.
type ProgressHandler func(progress, total float64)

// ProgressTracker correlates inbound notifications/progress against the
// tokens this side attached to its own outstanding requests. A notification
// for a token nobody registered is dropped, per spec.
type ProgressTracker struct {
	mu       sync.Mutex
	handlers map[string]ProgressHandler
}

// NewProgressTracker builds an empty tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{handlers: make(map[string]ProgressHandler)}
}

// Register associates token with h until Unregister is called. The caller
// is responsible for minting a unique token, typically the outbound
// request's own id formatted as a string.
func (t *ProgressTracker) Register(token string, h ProgressHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[token] = h
}

// Unregister drops a token once its request completes.
func (t *ProgressTracker) Unregister(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handlers, token)
}

// Dispatch delivers an inbound notifications/progress payload to the
// registered handler for its token, if any. Unknown tokens are dropped
// silently, matching spec 4.I.
func (t *ProgressTracker) Dispatch(n protocol.ProgressNotification) {
	t.mu.Lock()
	h, ok := t.handlers[n.ProgressToken]
	t.mu.Unlock()
	if !ok {
		return
	}
	h(n.Progress, n.Total)
}

// Reporter emits notifications/progress for one in-flight request. A
// handler that received a progressToken via _meta constructs one of these
// to report its own progress back to the issuer.
type Reporter struct {
	notifier Notifier
	token    string
}

// NewReporter builds a Reporter that emits progress for token over n. If
// token is empty, Report is a no-op — the caller attached no progress
// token, so nothing should be sent.
func NewReporter(n Notifier, token string) *Reporter {
	return &Reporter{notifier: n, token: token}
}

// Report emits one notifications/progress update.
func (r *Reporter) Report(progress, total float64) {
	if r.token == "" {
		return
	}
	r.notifier.EnqueueNotify("notifications/progress", protocol.ProgressNotification{
		ProgressToken: r.token,
		Progress:      progress,
		Total:         total,
	})
}
