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
package resources

import (
	"sync"
	"time"
)

// throttle coalesces a burst of same-kind events into a leading-edge +
// trailing-edge pair of emissions: the first event in an idle window fires
// immediately, every event arriving before the window closes is collapsed
// into a single trailing emission when the window's timer fires. A window
// with no further events after the leading edge produces no trailing
// emission at all.
type throttle struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func()
	active  bool
	pending bool
}

func newThrottle(delay time.Duration, emit func()) *throttle {
	return &throttle{delay: delay, emit: emit}
}

// trigger records one event of this throttle's kind.
func (t *throttle) trigger() {
	t.mu.Lock()
	if t.active {
		t.pending = true
		t.mu.Unlock()
		return
	}
	t.active = true
	t.pending = false
	t.mu.Unlock()

	t.emit()
	time.AfterFunc(t.delay, t.windowExpired)
}

func (t *throttle) windowExpired() {
	t.mu.Lock()
	pending := t.pending
	t.active = false
	t.pending = false
	t.mu.Unlock()

	if pending {
		t.emit()
	}
}
