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
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequestMessageSingle(t *testing.T) {
	msg, err := DecodeRequestMessage([]byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	require.NoError(t, err)
	require.NotNil(t, msg.Single)
	require.Nil(t, msg.Batch)
	assert.Equal(t, "ping", msg.Single.Method)
	assert.Equal(t, "1", msg.Single.ID.String())
}

func TestDecodeRequestMessageBatch(t *testing.T) {
	msg, err := DecodeRequestMessage([]byte(
		`[{"jsonrpc":"2.0","id":1,"method":"a"},{"jsonrpc":"2.0","id":2,"method":"b"}]`,
	))
	require.NoError(t, err)
	require.Nil(t, msg.Single)
	require.Len(t, msg.Batch, 2)
	assert.Equal(t, "a", msg.Batch[0].Method)
	assert.Equal(t, "b", msg.Batch[1].Method)
}

func TestDecodeRequestMessageRejectsEmptyBatch(t *testing.T) {
	_, err := DecodeRequestMessage([]byte(`[]`))
	require.Error(t, err)
}

func TestDecodeRequestMessageRejectsEmptyInput(t *testing.T) {
	_, err := DecodeRequestMessage([]byte("   "))
	require.Error(t, err)
}

func TestDecodeRequestMessageRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeRequestMessage([]byte(`{not json`))
	require.Error(t, err)
}

func TestEncodeResponsesEmpty(t *testing.T) {
	data, err := EncodeResponses(nil)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestEncodeResponsesSingleIsBareObject(t *testing.T) {
	data, err := EncodeResponses([]Response{
		{JSONRPC: JSONRPCVersion, ID: NewNumericRequestID(1), Result: []byte(`"ok"`)},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"result":"ok"}`, string(data))
}

func TestEncodeResponsesMultipleIsArray(t *testing.T) {
	data, err := EncodeResponses([]Response{
		{JSONRPC: JSONRPCVersion, ID: NewNumericRequestID(1), Result: []byte(`"ok"`)},
		{JSONRPC: JSONRPCVersion, ID: NewNumericRequestID(2), Result: []byte(`"ok2"`)},
	})
	require.NoError(t, err)
	assert.Equal(t, byte('['), data[0])

	var responses []Response
	require.NoError(t, json.Unmarshal(data, &responses))
	require.Len(t, responses, 2)
}
