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
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingNotifier) EnqueueNotify(method string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, method)
}

func (r *recordingNotifier) count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == method {
			n++
		}
	}
	return n
}

func staticHandler(text string) ReadHandler {
	return func(_ context.Context, uri string) (*protocol.ReadResourceResult, error) {
		return &protocol.ReadResourceResult{Contents: []protocol.ResourceContents{{URI: uri, Text: text}}}, nil
	}
}

func TestUpdateResourceThrottlesToTwoNotifications(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(n, 0)
	tr.AddResource(protocol.Resource{URI: "foo://x"}, staticHandler("v0"))
	tr.Subscribe("foo://x")

	for i := 0; i < 5; i++ {
		tr.UpdateResource(protocol.Resource{URI: "foo://x"})
	}

	deadline := time.Now().Add(time.Second)
	for n.count("notifications/resources/updated") < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 2, n.count("notifications/resources/updated"))
}

func TestUpdateResourceSilentWithoutSubscription(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(n, 0)
	tr.AddResource(protocol.Resource{URI: "foo://x"}, staticHandler("v0"))

	tr.UpdateResource(protocol.Resource{URI: "foo://x"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, n.count("notifications/resources/updated"))
}

func TestUnsubscribeStopsFurtherNotifications(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(n, 0)
	tr.AddResource(protocol.Resource{URI: "foo://x"}, staticHandler("v0"))
	tr.Subscribe("foo://x")

	tr.UpdateResource(protocol.Resource{URI: "foo://x"})
	time.Sleep(20 * time.Millisecond)
	tr.Unsubscribe("foo://x")

	before := n.count("notifications/resources/updated")
	tr.UpdateResource(protocol.Resource{URI: "foo://x"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, n.count("notifications/resources/updated"))
}

func TestReadExactResource(t *testing.T) {
	tr := NewTracker(&recordingNotifier{}, 0)
	tr.AddResource(protocol.Resource{URI: "foo://x"}, staticHandler("hello"))

	result, rpcErr := tr.Read(context.Background(), "foo://x")
	require.Nil(t, rpcErr)
	assert.Equal(t, "hello", result.Contents[0].Text)
}

func TestReadFallsThroughToTemplate(t *testing.T) {
	tr := NewTracker(&recordingNotifier{}, 0)
	tr.AddResourceTemplate(protocol.ResourceTemplate{URITemplate: "foo://{id}"}, func(_ context.Context, uri string) (*protocol.ReadResourceResult, error) {
		if uri != "foo://42" {
			return nil, ErrNoMatch
		}
		return &protocol.ReadResourceResult{Contents: []protocol.ResourceContents{{URI: uri, Text: "templated"}}}, nil
	})

	result, rpcErr := tr.Read(context.Background(), "foo://42")
	require.Nil(t, rpcErr)
	assert.Equal(t, "templated", result.Contents[0].Text)
}

func TestReadUnknownURIReturnsResourceNotFound(t *testing.T) {
	tr := NewTracker(&recordingNotifier{}, 0)
	_, rpcErr := tr.Read(context.Background(), "foo://missing")
	require.NotNil(t, rpcErr)
	assert.Equal(t, protocol.ResourceNotFound, rpcErr.Code)
}

func TestListResourcesPaginates(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(n, 0)
	for i := 0; i < 3; i++ {
		tr.AddResource(protocol.Resource{URI: string(rune('a' + i))}, staticHandler("x"))
	}

	result, err := tr.List("")
	require.NoError(t, err)
	assert.Len(t, result.Resources, 3)
	assert.Empty(t, result.NextCursor)
}

func TestAddRemoveResourceSchedulesListChanged(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(n, 0)
	tr.AddResource(protocol.Resource{URI: "foo://x"}, staticHandler("x"))
	tr.RemoveResource("foo://x")

	deadline := time.Now().Add(time.Second)
	for n.count("notifications/resources/list_changed") < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 2, n.count("notifications/resources/list_changed"))
}
