package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeList accepts either a bare JSON array or an object whose "data"
// field is an array. null and an empty body decode to an empty list.
func decodeList[T any](path string, raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
		}
		if len(env.Data) == 0 {
			return nil, fmt.Errorf("%w: %s: object without data array", ErrMalformedResponse, path)
		}
		return decodeList[T](path, env.Data)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeRecord accepts a bare object or one wrapped in a "data" or
// "transaction" field.
func decodeRecord[T any](path string, raw []byte, out *T) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fmt.Errorf("%w: %s: empty body", ErrMalformedResponse, path)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	for _, key := range []string{"data", "transaction"} {
		if inner, ok := env[key]; ok && len(inner) > 0 && inner[0] == '{' {
			raw = inner
			break
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}
