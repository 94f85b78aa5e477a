package messages

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Envelope codes identifying the message type on the wire. The code is the
// first byte of every encoded message; the CBOR payload follows.
const (
	CodeTransactionChunkRequest uint8 = iota + 1
	CodeTransactionChunkResponse
	CodeStartupInfoRequest
	CodeStartupInfoResponse
)

// Encode serializes a storage-service message into its envelope form.
// Only the message types defined in this package are encodable.
func Encode(message interface{}) ([]byte, error) {
	var code uint8
	switch message.(type) {
	case *TransactionChunkRequest:
		code = CodeTransactionChunkRequest
	case *TransactionChunkResponse:
		code = CodeTransactionChunkResponse
	case *StartupInfoRequest:
		code = CodeStartupInfoRequest
	case *StartupInfoResponse:
		code = CodeStartupInfoResponse
	default:
		return nil, fmt.Errorf("cannot encode unsupported message type %T", message)
	}

	payload, err := cbor.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("could not encode %T payload: %w", message, err)
	}

	data := make([]byte, 0, len(payload)+1)
	data = append(data, code)
	data = append(data, payload...)
	return data, nil
}

// Decode parses an envelope back into the message struct the code names.
// Malformed envelopes are rejected with a descriptive error; Decode never
// panics on attacker-controlled input.
func Decode(data []byte) (interface{}, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("envelope too short: %d bytes", len(data))
	}

	var message interface{}
	code := data[0]
	switch code {
	case CodeTransactionChunkRequest:
		message = &TransactionChunkRequest{}
	case CodeTransactionChunkResponse:
		message = &TransactionChunkResponse{}
	case CodeStartupInfoRequest:
		message = &StartupInfoRequest{}
	case CodeStartupInfoResponse:
		message = &StartupInfoResponse{}
	default:
		return nil, fmt.Errorf("unknown envelope code %d", code)
	}

	err := cbor.Unmarshal(data[1:], message)
	if err != nil {
		return nil, fmt.Errorf("could not decode payload with envelope code %d: %w", code, err)
	}
	return message, nil
}
