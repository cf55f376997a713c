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
	"context"
	"sync"
)

// CancellationTracker maps in-flight request ids to the cancel function of
// the context their handler is running under, so a notifications/cancelled
// can best-effort interrupt it. Per spec this is optional behavior; a
// handler that ignores ctx simply runs to completion regardless.
type CancellationTracker struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewCancellationTracker builds an empty tracker.
func NewCancellationTracker() *CancellationTracker {
	return &CancellationTracker{cancels: make(map[string]context.CancelFunc)}
}

// Track derives a cancellable context from parent and records it under id.
// The returned release func must be deferred by the caller to drop the
// entry once the handler returns, win or lose.
func (t *CancellationTracker) Track(parent context.Context, id string) (ctx context.Context, release func()) {
	ctx, cancel := context.WithCancel(parent)
	t.mu.Lock()
	t.cancels[id] = cancel
	t.mu.Unlock()
	return ctx, func() {
		t.mu.Lock()
		delete(t.cancels, id)
		t.mu.Unlock()
		cancel()
	}
}

// Cancel best-effort cancels the handler running for id, if one is tracked.
// A cancellation notification for an unknown or already-finished id is a
// no-op, never an error.
func (t *CancellationTracker) Cancel(id string) {
	t.mu.Lock()
	cancel, ok := t.cancels[id]
	t.mu.Unlock()
	if ok {
		cancel()
	}
}
