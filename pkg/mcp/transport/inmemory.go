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
package transport

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryTransport is an in-process Transport backed by buffered channels,
// used to connect a client Peer directly to a server Peer without a real
// subprocess or socket — the shape tests need to exercise the full
// request/response/notification cycle.
type InMemoryTransport struct {
	out    chan []byte
	in     chan []byte
	mu     sync.Mutex
	closed bool
}

// NewInMemoryPair returns two linked transports: whatever is sent on one
// is received on the other.
func NewInMemoryPair(buffer int) (a, b *InMemoryTransport) {
	ab := make(chan []byte, buffer)
	ba := make(chan []byte, buffer)
	a = &InMemoryTransport{out: ab, in: ba}
	b = &InMemoryTransport{out: ba, in: ab}
	return a, b
}

func (t *InMemoryTransport) Send(ctx context.Context, message []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return fmt.Errorf("transport closed")
	}

	buf := make([]byte, len(message))
	copy(buf, message)

	select {
	case t.out <- buf:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *InMemoryTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case msg, ok := <-t.in:
		if !ok {
			return nil, fmt.Errorf("transport closed")
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *InMemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return nil
}
