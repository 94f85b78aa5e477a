package client

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keelnetwork/keel/model/messages"
	"github.com/keelnetwork/keel/utils/unittest"
)

// scriptedTransport decodes each request, hands it to the handler and encodes
// whatever the handler returns, standing in for a remote storage service.
type scriptedTransport struct {
	t        *testing.T
	handler  func(request interface{}) interface{}
	err      error
	requests []interface{}
}

func (tr *scriptedTransport) RoundTrip(_ context.Context, request []byte) ([]byte, error) {
	if tr.err != nil {
		return nil, tr.err
	}
	decoded, err := messages.Decode(request)
	require.NoError(tr.t, err)
	tr.requests = append(tr.requests, decoded)

	data, err := messages.Encode(tr.handler(decoded))
	require.NoError(tr.t, err)
	return data, nil
}

func TestFetchChunk(t *testing.T) {
	chunk := unittest.ChunkFixture(11, 5)
	transport := &scriptedTransport{
		t: t,
		handler: func(request interface{}) interface{} {
			return messages.ChunkToResponse(chunk)
		},
	}
	client := New(zerolog.Nop(), transport)

	fetched, err := client.FetchChunk(context.Background(), 11, 10, unittest.LedgerInfoFixture(100))
	require.NoError(t, err)
	assert.Equal(t, chunk, fetched)

	require.Len(t, transport.requests, 1)
	req, ok := transport.requests[0].(*messages.TransactionChunkRequest)
	require.True(t, ok)
	assert.Equal(t, uint64(11), req.FromVersion)
	assert.Equal(t, uint64(10), req.Limit)
	assert.Equal(t, uint64(100), req.LedgerVersion)
}

func TestFetchChunkRefusesInvalidRequest(t *testing.T) {
	transport := &scriptedTransport{t: t}
	client := New(zerolog.Nop(), transport)

	// requesting past the certified version never leaves the process
	_, err := client.FetchChunk(context.Background(), 101, 10, unittest.LedgerInfoFixture(100))
	require.Error(t, err)
	assert.Empty(t, transport.requests)
}

func TestFetchChunkTransportError(t *testing.T) {
	transportErr := errors.New("connection refused")
	transport := &scriptedTransport{t: t, err: transportErr}
	client := New(zerolog.Nop(), transport)

	_, err := client.FetchChunk(context.Background(), 1, 10, unittest.LedgerInfoFixture(100))
	require.ErrorIs(t, err, transportErr)
}

func TestFetchChunkRejectsBadResponses(t *testing.T) {
	target := unittest.LedgerInfoFixture(100)

	cases := []struct {
		name     string
		response interface{}
	}{
		{
			name:     "wrong message type",
			response: &messages.StartupInfoRequest{},
		},
		{
			name:     "wrong first version",
			response: messages.ChunkToResponse(unittest.ChunkFixture(2, 5)),
		},
		{
			name:     "over limit",
			response: messages.ChunkToResponse(unittest.ChunkFixture(1, 11)),
		},
		{
			name:     "empty chunk",
			response: &messages.TransactionChunkResponse{FirstVersion: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &scriptedTransport{
				t: t,
				handler: func(interface{}) interface{} {
					return tc.response
				},
			}
			client := New(zerolog.Nop(), transport)

			_, err := client.FetchChunk(context.Background(), 1, 10, target)
			require.Error(t, err)
		})
	}
}

func TestFetchStartupInfo(t *testing.T) {
	info := &messages.StartupInfo{
		LatestLedgerInfo: unittest.LedgerInfoFixture(55),
		CommittedTrees:   unittest.ExecutedTreesFixture(55),
	}
	transport := &scriptedTransport{
		t: t,
		handler: func(request interface{}) interface{} {
			_, ok := request.(*messages.StartupInfoRequest)
			require.True(t, ok)
			return messages.StartupInfoToResponse(info)
		},
	}
	client := New(zerolog.Nop(), transport)

	fetched, err := client.FetchStartupInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, info, fetched)
}

func TestFetchStartupInfoRejectsWrongType(t *testing.T) {
	transport := &scriptedTransport{
		t: t,
		handler: func(interface{}) interface{} {
			return &messages.TransactionChunkResponse{FirstVersion: 1}
		},
	}
	client := New(zerolog.Nop(), transport)

	_, err := client.FetchStartupInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response type")
}
