// Package messages defines the wire forms of the storage-service requests and
// responses exchanged during catch-up, together with integrity-checked
// conversions to and from the in-memory model. Conversions are total for
// valid inputs, round-trip safe, and reject malformed inputs with a
// descriptive error instead of panicking.
package messages

import (
	"fmt"

	"github.com/keelnetwork/keel/model/ledger"
)

// SignedTransactionMessage is the wire form of a signed transaction.
type SignedTransactionMessage struct {
	Sender    []byte `cbor:"1,keyasint"`
	SeqNumber uint64 `cbor:"2,keyasint"`
	Script    []byte `cbor:"3,keyasint"`
	Signature []byte `cbor:"4,keyasint"`
}

func TransactionToMessage(tx *ledger.SignedTransaction) *SignedTransactionMessage {
	return &SignedTransactionMessage{
		Sender:    tx.Sender[:],
		SeqNumber: tx.SeqNumber,
		Script:    tx.Script,
		Signature: tx.Signature,
	}
}

func TransactionFromMessage(msg *SignedTransactionMessage) (*ledger.SignedTransaction, error) {
	sender, err := toIdentifier(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction sender: %w", err)
	}
	if len(msg.Signature) == 0 {
		return nil, fmt.Errorf("transaction carries no signature")
	}
	return &ledger.SignedTransaction{
		Sender:    sender,
		SeqNumber: msg.SeqNumber,
		Script:    msg.Script,
		Signature: msg.Signature,
	}, nil
}

// SignatureMessage is one validator's signature over a ledger info.
type SignatureMessage struct {
	Validator []byte `cbor:"1,keyasint"`
	Signature []byte `cbor:"2,keyasint"`
}

// LedgerInfoMessage is the wire form of a certified ledger state description.
type LedgerInfoMessage struct {
	Version         uint64 `cbor:"1,keyasint"`
	AccumulatorRoot []byte `cbor:"2,keyasint"`
	ConsensusBlock  []byte `cbor:"3,keyasint"`
	TimestampUsecs  uint64 `cbor:"4,keyasint"`
}

// LedgerInfoWithSignaturesMessage is the wire form of a finality proof.
type LedgerInfoWithSignaturesMessage struct {
	Info       LedgerInfoMessage  `cbor:"1,keyasint"`
	Signatures []SignatureMessage `cbor:"2,keyasint"`
}

func LedgerInfoToMessage(li *ledger.LedgerInfoWithSignatures) *LedgerInfoWithSignaturesMessage {
	sigs := make([]SignatureMessage, 0, len(li.Signatures))
	for validator, sig := range li.Signatures {
		sigs = append(sigs, SignatureMessage{
			Validator: validator[:],
			Signature: sig,
		})
	}
	return &LedgerInfoWithSignaturesMessage{
		Info: LedgerInfoMessage{
			Version:         uint64(li.LedgerInfo.Version),
			AccumulatorRoot: li.LedgerInfo.AccumulatorRoot[:],
			ConsensusBlock:  li.LedgerInfo.ConsensusBlock[:],
			TimestampUsecs:  li.LedgerInfo.TimestampUsecs,
		},
		Signatures: sigs,
	}
}

func LedgerInfoFromMessage(msg *LedgerInfoWithSignaturesMessage) (*ledger.LedgerInfoWithSignatures, error) {
	root, err := toIdentifier(msg.Info.AccumulatorRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid accumulator root: %w", err)
	}
	consensusBlock, err := toIdentifier(msg.Info.ConsensusBlock)
	if err != nil {
		return nil, fmt.Errorf("invalid consensus block id: %w", err)
	}

	sigs := make(map[ledger.Identifier][]byte, len(msg.Signatures))
	for i, sig := range msg.Signatures {
		validator, err := toIdentifier(sig.Validator)
		if err != nil {
			return nil, fmt.Errorf("invalid validator id in signature %d: %w", i, err)
		}
		if len(sig.Signature) == 0 {
			return nil, fmt.Errorf("empty signature from validator %v", validator)
		}
		if _, exists := sigs[validator]; exists {
			return nil, fmt.Errorf("duplicate signature from validator %v", validator)
		}
		sigs[validator] = sig.Signature
	}

	return &ledger.LedgerInfoWithSignatures{
		LedgerInfo: ledger.LedgerInfo{
			Version:         ledger.Version(msg.Info.Version),
			AccumulatorRoot: root,
			ConsensusBlock:  consensusBlock,
			TimestampUsecs:  msg.Info.TimestampUsecs,
		},
		Signatures: sigs,
	}, nil
}

// TransactionChunkRequest asks a storage service for a run of committed
// transactions starting at FromVersion, bounded by Limit and by the certified
// LedgerVersion the requester is syncing towards.
type TransactionChunkRequest struct {
	FromVersion   uint64 `cbor:"1,keyasint"`
	Limit         uint64 `cbor:"2,keyasint"`
	LedgerVersion uint64 `cbor:"3,keyasint"`
}

// Valid checks the internal consistency of the request.
func (req *TransactionChunkRequest) Valid() error {
	if req.Limit == 0 {
		return fmt.Errorf("chunk request with zero limit")
	}
	if req.FromVersion > req.LedgerVersion {
		return fmt.Errorf("chunk request starts at version %d beyond ledger version %d",
			req.FromVersion, req.LedgerVersion)
	}
	return nil
}

// TransactionChunkResponse carries the requested run of transactions plus the
// proof tying it to the certified accumulator root.
type TransactionChunkResponse struct {
	FirstVersion uint64                      `cbor:"1,keyasint"`
	Transactions []*SignedTransactionMessage `cbor:"2,keyasint"`
	Proof        []byte                      `cbor:"3,keyasint"`
}

func ChunkToResponse(chunk *ledger.TransactionChunk) *TransactionChunkResponse {
	txs := make([]*SignedTransactionMessage, 0, len(chunk.Transactions))
	for _, tx := range chunk.Transactions {
		txs = append(txs, TransactionToMessage(tx))
	}
	return &TransactionChunkResponse{
		FirstVersion: uint64(chunk.FirstVersion),
		Transactions: txs,
		Proof:        chunk.Proof,
	}
}

func ChunkFromResponse(msg *TransactionChunkResponse) (*ledger.TransactionChunk, error) {
	if len(msg.Transactions) == 0 {
		return nil, fmt.Errorf("chunk response carries no transactions")
	}
	txs := make([]*ledger.SignedTransaction, 0, len(msg.Transactions))
	for i, txMsg := range msg.Transactions {
		if txMsg == nil {
			return nil, fmt.Errorf("chunk response has nil transaction at offset %d", i)
		}
		tx, err := TransactionFromMessage(txMsg)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction at offset %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	return &ledger.TransactionChunk{
		FirstVersion: ledger.Version(msg.FirstVersion),
		Transactions: txs,
		Proof:        msg.Proof,
	}, nil
}

// StartupInfoRequest asks a storage service for its durable state summary.
type StartupInfoRequest struct{}

// StartupInfoResponse reports a replica's durable state at boot: the latest
// finality proof it holds and the executed trees of its committed state.
type StartupInfoResponse struct {
	LatestLedgerInfo *LedgerInfoWithSignaturesMessage `cbor:"1,keyasint"`
	StateRoot        []byte                           `cbor:"2,keyasint"`
	TxCount          uint64                           `cbor:"3,keyasint"`
}

// StartupInfo is the in-memory form of StartupInfoResponse.
type StartupInfo struct {
	LatestLedgerInfo *ledger.LedgerInfoWithSignatures
	CommittedTrees   ledger.ExecutedTrees
}

func StartupInfoToResponse(info *StartupInfo) *StartupInfoResponse {
	return &StartupInfoResponse{
		LatestLedgerInfo: LedgerInfoToMessage(info.LatestLedgerInfo),
		StateRoot:        info.CommittedTrees.StateRoot[:],
		TxCount:          info.CommittedTrees.TxCount,
	}
}

func StartupInfoFromResponse(msg *StartupInfoResponse) (*StartupInfo, error) {
	if msg.LatestLedgerInfo == nil {
		return nil, fmt.Errorf("startup info without ledger info")
	}
	li, err := LedgerInfoFromMessage(msg.LatestLedgerInfo)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger info: %w", err)
	}
	root, err := toIdentifier(msg.StateRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid state root: %w", err)
	}
	return &StartupInfo{
		LatestLedgerInfo: li,
		CommittedTrees: ledger.ExecutedTrees{
			StateRoot: root,
			TxCount:   msg.TxCount,
		},
	}, nil
}

func toIdentifier(data []byte) (ledger.Identifier, error) {
	var id ledger.Identifier
	if len(data) != ledger.IdentifierLen {
		return id, fmt.Errorf("expected %d bytes, got %d", ledger.IdentifierLen, len(data))
	}
	copy(id[:], data)
	return id, nil
}
