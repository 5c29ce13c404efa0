// Package rpc implements Solana JSON-RPC request encoding and
// method-aware response decoding. It has no transport of its own —
// internal/rpcclient drives the actual HTTP round trip.
package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/solforge/svmsdk/internal/config"
)

// Request is a single JSON-RPC 2.0 call.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

// NewRequest builds a Request with id 0, cleaning trailing empty option
// maps from params the way the spec's batch encoder does for a single
// call.
func NewRequest(method string, params ...any) Request {
	return Request{JSONRPC: "2.0", ID: 0, Method: method, Params: cleanParams(params)}
}

// NewBatch assigns ascending ids (0, 1, 2, ...) to each request in
// declaration order.
func NewBatch(calls ...Request) []Request {
	batch := make([]Request, len(calls))
	for i, c := range calls {
		c.ID = i
		c.Params = cleanParams(c.Params)
		batch[i] = c
	}
	return batch
}

// cleanParams strips empty trailing option maps (map[string]any{} or
// nil maps) so callers can always pass an options argument without
// polluting the wire payload when it is empty.
func cleanParams(params []any) []any {
	cleaned := make([]any, len(params))
	copy(cleaned, params)
	for len(cleaned) > 0 {
		last := cleaned[len(cleaned)-1]
		m, ok := last.(map[string]any)
		if !ok || len(m) != 0 {
			break
		}
		cleaned = cleaned[:len(cleaned)-1]
	}
	return cleaned
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: rpc code %d: %s", config.ErrRPC, e.Code, e.Message)
}

// Response is a raw JSON-RPC 2.0 response; Result is left undecoded
// until Decode applies method-aware base58 handling.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Error   *Error          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// ParseResponse unmarshals a single JSON-RPC response, surfacing an
// embedded error field as a structured *Error.
func ParseResponse(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrRPC, err)
	}
	if resp.Error != nil {
		return &resp, resp.Error
	}
	return &resp, nil
}

// ParseBatchResponse unmarshals a JSON-RPC batch response array.
func ParseBatchResponse(body []byte) ([]Response, error) {
	var resps []Response
	if err := json.Unmarshal(body, &resps); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrRPC, err)
	}
	return resps, nil
}

// Decode applies the method-specific base58 decoding rules of §4.7 to a
// successful result, returning the result with base58 string fields
// converted to raw byte arrays represented as []byte within the decoded
// map/slice structure. Methods with no special decoding rule are
// returned as a generically-unmarshaled value.
func Decode(method string, result json.RawMessage) (any, error) {
	switch method {
	case "requestAirdrop", "sendTransaction":
		var sig string
		if err := json.Unmarshal(result, &sig); err != nil {
			return nil, fmt.Errorf("%w: decode %s result: %v", config.ErrRPC, method, err)
		}
		return decodeSignature(sig)

	case "getSignaturesForAddress":
		var entries []map[string]any
		if err := json.Unmarshal(result, &entries); err != nil {
			return nil, fmt.Errorf("%w: decode %s result: %v", config.ErrRPC, method, err)
		}
		for _, entry := range entries {
			if err := decodeFieldInPlace(entry, "signature"); err != nil {
				return nil, err
			}
		}
		return entries, nil

	case "getRecentBlockhash", "getLatestBlockhash":
		var wrapper map[string]any
		if err := json.Unmarshal(result, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: decode %s result: %v", config.ErrRPC, method, err)
		}
		if value, ok := wrapper["value"].(map[string]any); ok {
			if err := decodeFieldInPlace(value, "blockhash"); err != nil {
				return nil, err
			}
		}
		return wrapper, nil

	case "getAccountInfo":
		var wrapper map[string]any
		if err := json.Unmarshal(result, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: decode %s result: %v", config.ErrRPC, method, err)
		}
		if value, ok := wrapper["value"].(map[string]any); ok {
			if err := decodeAccountInfo(value); err != nil {
				return nil, err
			}
		}
		return wrapper, nil

	case "getMultipleAccounts":
		var wrapper map[string]any
		if err := json.Unmarshal(result, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: decode %s result: %v", config.ErrRPC, method, err)
		}
		values, _ := wrapper["value"].([]any)
		for _, v := range values {
			if account, ok := v.(map[string]any); ok {
				if err := decodeAccountInfo(account); err != nil {
					return nil, err
				}
			}
		}
		return wrapper, nil

	case "getTransaction":
		var tx map[string]any
		if err := json.Unmarshal(result, &tx); err != nil {
			return nil, fmt.Errorf("%w: decode %s result: %v", config.ErrRPC, method, err)
		}
		if err := decodeTransaction(tx); err != nil {
			return nil, err
		}
		return tx, nil

	default:
		var generic any
		if err := json.Unmarshal(result, &generic); err != nil {
			return nil, fmt.Errorf("%w: decode %s result: %v", config.ErrRPC, method, err)
		}
		return generic, nil
	}
}

func decodeAccountInfo(account map[string]any) error {
	return decodeFieldInPlace(account, "owner")
}

func decodeTransaction(tx map[string]any) error {
	message, ok := tx["message"].(map[string]any)
	if ok {
		if keys, ok := message["accountKeys"].([]any); ok {
			for i, k := range keys {
				s, ok := k.(string)
				if !ok {
					continue
				}
				decoded, err := decodeSignature(s)
				if err != nil {
					return err
				}
				keys[i] = decoded
			}
		}
		if err := decodeFieldInPlace(message, "recentBlockhash"); err != nil {
			return err
		}
	}

	if sigs, ok := tx["signatures"].([]any); ok {
		for i, s := range sigs {
			str, ok := s.(string)
			if !ok {
				continue
			}
			decoded, err := decodeSignature(str)
			if err != nil {
				return err
			}
			sigs[i] = decoded
		}
	}
	return nil
}

func decodeFieldInPlace(m map[string]any, field string) error {
	s, ok := m[field].(string)
	if !ok {
		return nil
	}
	decoded, err := decodeSignature(s)
	if err != nil {
		return err
	}
	m[field] = decoded
	return nil
}

func decodeSignature(s string) ([]byte, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base58 value %q: %v", config.ErrRPC, s, err)
	}
	return decoded, nil
}
