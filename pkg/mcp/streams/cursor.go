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

// Package streams implements the protocol's cross-cutting utility surfaces:
// pagination cursors, progress reporting, and best-effort cancellation. None
// of these are tied to a specific subsystem (tools, resources, prompts all
// paginate; any request may carry a progress token).
package streams

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// EncodeCursor turns a zero-based offset into the opaque cursor string
// returned as nextCursor. Callers must treat the result as opaque; the
// offset encoding is an implementation detail of this in-process registry,
// stable only within one running process.
func EncodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodeCursor reverses EncodeCursor. An empty cursor decodes to offset 0,
// matching a first-page request.
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("malformed cursor: %w", err)
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("malformed cursor: %w", err)
	}
	if offset < 0 {
		return 0, fmt.Errorf("malformed cursor: negative offset")
	}
	return offset, nil
}

// DefaultPageSize bounds a single list response when the caller does not
// need every item back at once.
const DefaultPageSize = 50

// Page slices items starting at the offset cursor decodes to, returning at
// most pageSize entries and the cursor for the following page (empty once
// the end of items is reached).
func Page[T any](items []T, cursor string, pageSize int) ([]T, string, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	offset, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if offset >= len(items) {
		return []T{}, "", nil
	}

	end := offset + pageSize
	if end >= len(items) {
		return items[offset:], "", nil
	}
	return items[offset:end], EncodeCursor(end), nil
}
