// Package client implements the storage-service client used by the
// synchronization engine to download committed state during catch-up. It
// speaks the envelope protocol defined in model/messages; the actual byte
// transport (peer RPC, local service, test double) is injected.
package client

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keelnetwork/keel/engine/synchronization"
	"github.com/keelnetwork/keel/model/ledger"
	"github.com/keelnetwork/keel/model/messages"
)

// Transport delivers an encoded request to a storage service and returns the
// encoded response. Implementations perform the actual I/O.
type Transport interface {
	RoundTrip(ctx context.Context, request []byte) ([]byte, error)
}

// StorageClient downloads transaction chunks and startup summaries from a
// storage service.
type StorageClient struct {
	log       zerolog.Logger
	transport Transport
}

var _ synchronization.ChunkFetcher = (*StorageClient)(nil)

func New(log zerolog.Logger, transport Transport) *StorageClient {
	return &StorageClient{
		log:       log.With().Str("component", "storage_client").Logger(),
		transport: transport,
	}
}

// FetchChunk requests the run of committed transactions starting at the given
// version. The response is validated structurally and checked against the
// request before it is handed back.
func (c *StorageClient) FetchChunk(
	ctx context.Context,
	from ledger.Version,
	limit uint64,
	target *ledger.LedgerInfoWithSignatures,
) (*ledger.TransactionChunk, error) {

	req := &messages.TransactionChunkRequest{
		FromVersion:   uint64(from),
		Limit:         limit,
		LedgerVersion: uint64(target.Version()),
	}
	err := req.Valid()
	if err != nil {
		return nil, fmt.Errorf("refusing to send invalid chunk request: %w", err)
	}

	decoded, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, ok := decoded.(*messages.TransactionChunkResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T to chunk request", decoded)
	}

	chunk, err := messages.ChunkFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("invalid chunk response: %w", err)
	}
	if chunk.FirstVersion != from {
		return nil, fmt.Errorf("chunk response starts at version %d, requested %d", chunk.FirstVersion, from)
	}
	if uint64(len(chunk.Transactions)) > limit {
		return nil, fmt.Errorf("chunk response carries %d transactions, limit was %d", len(chunk.Transactions), limit)
	}

	return chunk, nil
}

// FetchStartupInfo requests the storage service's durable state summary.
func (c *StorageClient) FetchStartupInfo(ctx context.Context) (*messages.StartupInfo, error) {
	decoded, err := c.roundTrip(ctx, &messages.StartupInfoRequest{})
	if err != nil {
		return nil, err
	}
	resp, ok := decoded.(*messages.StartupInfoResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T to startup info request", decoded)
	}

	info, err := messages.StartupInfoFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("invalid startup info response: %w", err)
	}
	return info, nil
}

func (c *StorageClient) roundTrip(ctx context.Context, req interface{}) (interface{}, error) {
	data, err := messages.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("could not encode %T: %w", req, err)
	}

	respData, err := c.transport.RoundTrip(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("storage request failed: %w", err)
	}

	decoded, err := messages.Decode(respData)
	if err != nil {
		return nil, fmt.Errorf("could not decode storage response: %w", err)
	}
	return decoded, nil
}
