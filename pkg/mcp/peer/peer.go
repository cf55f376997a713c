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

// Package peer implements the symmetric JSON-RPC 2.0 correlation engine
// shared by both client and server roles. Either role can send requests
// awaiting a response, receive requests and dispatch them to a registered
// handler, and send fire-and-forget notifications. This merges what the
// teacher kept as two parallel implementations: the server's Serve
// select-loop (read/dispatch/notify) and the client's sendRequest/
// receiveLoop pending-map correlation.
package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/teradata-labs/mcpcore/pkg/mcp/protocol"
	"github.com/teradata-labs/mcpcore/pkg/mcp/streams"
	"github.com/teradata-labs/mcpcore/pkg/mcp/transport"
)

// Handler processes an incoming JSON-RPC method call. id is nil for
// notifications.
type Handler func(ctx context.Context, id *protocol.RequestID, params json.RawMessage) (interface{}, error)

// Peer wraps a transport with request/response correlation, inbound method
// dispatch, and outbound notification delivery. Both pkg/mcp/client.Client
// and pkg/mcp/server.Server embed one.
type Peer struct {
	transport transport.Transport
	logger    *zap.Logger

	handlersMu sync.RWMutex
	handlers   map[string]Handler

	nextID    int64
	pendingMu sync.RWMutex
	pending   map[string]chan *protocol.Response

	notifyCh chan []byte

	cancellation *streams.CancellationTracker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// New creates a Peer over t. The background receive loop is not started
// until Serve is called.
func New(t transport.Transport, logger *zap.Logger) *Peer {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Peer{
		transport:    t,
		logger:       logger,
		handlers:     make(map[string]Handler),
		pending:      make(map[string]chan *protocol.Response),
		notifyCh:     make(chan []byte, 32),
		cancellation: streams.NewCancellationTracker(),
		ctx:          ctx,
		cancel:       cancel,
	}
	p.Handle("notifications/cancelled", p.handleCancelled)
	return p
}

// handleCancelled is installed for every Peer so that either role, on
// receiving notifications/cancelled, best-effort interrupts the context of
// the matching in-flight handler invocation started by handleRequest.
func (p *Peer) handleCancelled(_ context.Context, _ *protocol.RequestID, params json.RawMessage) (interface{}, error) {
	var note protocol.CancelledNotification
	if err := json.Unmarshal(params, &note); err != nil {
		return nil, fmt.Errorf("decode cancelled notification: %w", err)
	}
	p.cancellation.Cancel(note.RequestID.String())
	return nil, nil
}

// Handle registers a handler for an inbound method name.
func (p *Peer) Handle(method string, h Handler) {
	p.handlersMu.Lock()
	defer p.handlersMu.Unlock()
	p.handlers[method] = h
}

// inboundShape is used to classify a wire message as a request/notification
// (has "method") or a response (no "method", identified by "id" alone).
// Response and Request both carry an "id" field, so disambiguating on id
// presence is not enough; "method" is the one field only requests have.
type inboundShape struct {
	Method string `json:"method"`
}

// Serve runs the peer's read loop until ctx is cancelled or the transport
// errors. It concurrently dispatches inbound requests/notifications,
// completes pending outbound calls as responses arrive, and flushes queued
// outbound notifications — mirroring the teacher server's three-way select
// but on a shape both client and server can use.
func (p *Peer) Serve(ctx context.Context) error {
	msgCh := make(chan []byte)
	errCh := make(chan error, 1)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			msg, err := p.transport.Receive(ctx)
			if err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
				}
				return
			}
			select {
			case msgCh <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errCh:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return fmt.Errorf("receive error: %w", err)

		case msg := <-msgCh:
			if len(msg) == 0 {
				continue
			}
			p.dispatch(ctx, msg)

		case notif := <-p.notifyCh:
			if err := p.transport.Send(ctx, notif); err != nil {
				p.logger.Error("notification send error", zap.Error(err))
				return fmt.Errorf("notification send error: %w", err)
			}
		}
	}
}

// dispatch classifies one inbound wire message and routes it. A bare object
// with no "method" is a response to one of our own outbound calls and is
// routed to completePending. Everything else goes through
// protocol.DecodeRequestMessage, which tells a single request/notification
// apart from a JSON-RPC batch array; a single request runs on its own
// goroutine so a slow handler never blocks Serve's select loop from draining
// the next inbound message, and a batch's elements all run concurrently with
// their responses collected into one array reply.
func (p *Peer) dispatch(ctx context.Context, msg []byte) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 {
		return
	}

	if trimmed[0] != '[' {
		var shape inboundShape
		if err := json.Unmarshal(trimmed, &shape); err != nil {
			p.logger.Warn("received malformed message", zap.Error(err), zap.ByteString("data", trimmed))
			return
		}
		if shape.Method == "" {
			var resp protocol.Response
			if err := json.Unmarshal(trimmed, &resp); err != nil || resp.ID == nil {
				p.logger.Warn("received unrecognized message", zap.ByteString("data", trimmed))
				return
			}
			if err := protocol.ValidateResponse(&resp); err != nil {
				p.logger.Warn("received invalid response envelope", zap.Error(err))
				return
			}
			p.completePending(&resp)
			return
		}
	}

	message, err := protocol.DecodeRequestMessage(trimmed)
	if err != nil {
		p.logger.Warn("received malformed message", zap.Error(err), zap.ByteString("data", trimmed))
		return
	}

	if message.Single != nil {
		req := message.Single
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			if resp := p.handleRequest(ctx, req); resp != nil {
				p.sendResponse(ctx, resp)
			}
		}()
		return
	}

	p.dispatchBatch(ctx, message.Batch)
}

// dispatchBatch runs every request in a decoded batch concurrently, each on
// its own goroutine, then sends the non-nil responses back as one JSON array
// once they have all finished.
func (p *Peer) dispatchBatch(ctx context.Context, batch []protocol.Request) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		var mu sync.Mutex
		var responses []protocol.Response
		var itemWG sync.WaitGroup

		for i := range batch {
			req := &batch[i]
			itemWG.Add(1)
			go func() {
				defer itemWG.Done()
				resp := p.handleRequest(ctx, req)
				if resp == nil {
					return
				}
				mu.Lock()
				responses = append(responses, *resp)
				mu.Unlock()
			}()
		}
		itemWG.Wait()

		if len(responses) == 0 {
			return
		}
		data, err := json.Marshal(responses)
		if err != nil {
			p.logger.Error("failed to encode batch responses", zap.Error(err))
			return
		}
		if err := p.transport.Send(ctx, data); err != nil {
			p.logger.Error("failed to send batch responses", zap.Error(err))
		}
	}()
}

// handleRequest invokes req's registered handler, tracking the invocation
// under req.ID so a later notifications/cancelled can best-effort interrupt
// it. It returns the response to send back — nil for notifications, which
// expect none — rather than sending it directly, so both the single-message
// and batch dispatch paths can share it.
func (p *Peer) handleRequest(ctx context.Context, req *protocol.Request) *protocol.Response {
	if err := protocol.ValidateRequest(req); err != nil {
		p.logger.Warn("received invalid request envelope", zap.Error(err))
		if req.ID == nil {
			return nil
		}
		return errorResponse(req.ID, protocol.NewError(protocol.InvalidRequest, err.Error(), nil))
	}

	p.handlersMu.RLock()
	handler, ok := p.handlers[req.Method]
	p.handlersMu.RUnlock()

	if !ok {
		if req.ID == nil {
			return nil // unknown notification: ignore
		}
		return errorResponse(req.ID, protocol.NewError(protocol.MethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil))
	}

	handlerCtx := ctx
	if req.ID != nil {
		var release func()
		handlerCtx, release = p.cancellation.Track(ctx, req.ID.String())
		defer release()
	}

	start := time.Now()
	result, err := handler(handlerCtx, req.ID, req.Params)
	duration := time.Since(start)

	if err != nil {
		p.logger.Warn("handler error", zap.String("method", req.Method), zap.Duration("duration", duration), zap.Error(err))
		if req.ID == nil {
			return nil
		}
		var rpcErr *protocol.Error
		if errors.As(err, &rpcErr) {
			return errorResponse(req.ID, rpcErr)
		}
		return errorResponse(req.ID, protocol.NewError(protocol.InternalError, err.Error(), nil))
	}

	if req.ID == nil {
		return nil
	}
	return resultResponse(req.ID, result)
}

func resultResponse(id *protocol.RequestID, result interface{}) *protocol.Response {
	resp := &protocol.Response{JSONRPC: protocol.JSONRPCVersion, ID: id}
	if result == nil {
		return resp
	}
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return errorResponse(id, protocol.NewError(protocol.InternalError, "failed to marshal result", nil))
	}
	resp.Result = resultBytes
	return resp
}

func errorResponse(id *protocol.RequestID, rpcErr *protocol.Error) *protocol.Response {
	return &protocol.Response{JSONRPC: protocol.JSONRPCVersion, ID: id, Error: rpcErr}
}

func (p *Peer) sendResponse(ctx context.Context, resp *protocol.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		p.logger.Error("failed to marshal response", zap.Error(err))
		return
	}
	if err := p.transport.Send(ctx, data); err != nil {
		p.logger.Error("failed to send response", zap.Error(err))
	}
}

func (p *Peer) completePending(resp *protocol.Response) {
	key := resp.ID.String()

	p.pendingMu.RLock()
	ch, ok := p.pending[key]
	p.pendingMu.RUnlock()

	if !ok {
		p.logger.Warn("received response for unknown request", zap.String("id", key))
		return
	}

	select {
	case ch <- resp:
	default:
		p.logger.Warn("response channel full, dropping", zap.String("id", key))
	}
}

// Call sends a request and blocks until a matching response arrives, ctx is
// done, or the peer is closed.
func (p *Peer) Call(ctx context.Context, method string, params interface{}) (*protocol.Response, error) {
	paramsJSON, err := marshalParams(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      p.nextRequestID(),
		Method:  method,
		Params:  paramsJSON,
	}

	respChan := make(chan *protocol.Response, 1)
	key := req.ID.String()

	p.pendingMu.Lock()
	p.pending[key] = respChan
	p.pendingMu.Unlock()

	defer func() {
		p.pendingMu.Lock()
		delete(p.pending, key)
		p.pendingMu.Unlock()
	}()

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if err := p.transport.Send(ctx, reqJSON); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, fmt.Errorf("transport closed")
	case resp := <-respChan:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp, nil
	}
}

// Notify sends a fire-and-forget notification synchronously, blocking until
// the transport accepts it. Used for notifications whose delivery the
// caller needs to confirm before proceeding, such as notifications/initialized.
func (p *Peer) Notify(ctx context.Context, method string, params interface{}) error {
	data, err := marshalNotification(method, params)
	if err != nil {
		return err
	}
	return p.transport.Send(ctx, data)
}

// EnqueueNotify queues a notification for asynchronous delivery from the
// Serve loop. If the queue is full the notification is dropped and a
// warning is logged, matching the teacher's non-blocking notifyCh send —
// a slow reader should not stall the peer's inbound processing.
func (p *Peer) EnqueueNotify(method string, params interface{}) {
	data, err := marshalNotification(method, params)
	if err != nil {
		p.logger.Error("failed to marshal notification", zap.String("method", method), zap.Error(err))
		return
	}
	select {
	case p.notifyCh <- data:
	default:
		p.logger.Warn("notification queue full, dropping", zap.String("method", method))
	}
}

func marshalNotification(method string, params interface{}) ([]byte, error) {
	paramsJSON, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	msg := struct {
		JSONRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}{
		JSONRPC: protocol.JSONRPCVersion,
		Method:  method,
		Params:  paramsJSON,
	}
	return json.Marshal(msg)
}

func marshalParams(params interface{}) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	if raw, ok := params.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(params)
}

func (p *Peer) nextRequestID() *protocol.RequestID {
	id := atomic.AddInt64(&p.nextID, 1)
	return protocol.NewNumericRequestID(id)
}

// Close stops the peer's background goroutines and closes the transport.
func (p *Peer) Close() error {
	var closeErr error
	p.closeOnce.Do(func() {
		p.cancel()
		closeErr = p.transport.Close()
		p.wg.Wait()
	})
	return closeErr
}
