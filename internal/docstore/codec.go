package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serialises a field map for storage. ServerTimestamp placeholders must
// already be resolved (see ResolveServerTimestamps).
func Encode(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("docstore: encoding fields: %w", err)
	}
	return data, nil
}

// Decode parses stored JSON back into a field map, turning encoded timestamps
// into Timestamp values wherever they appear, arrays included. Numbers are
// kept as json.Number so integer fields survive without float rounding.
func Decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("docstore: decoding fields: %w", err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}

	out, err := decodeMap(raw)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for k, v := range in {
		dv, err := decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = dv
	}
	return out, nil
}

func decodeValue(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		ts, ok, err := parseTimestamp(val)
		if err != nil {
			return nil, err
		}
		if ok {
			return ts, nil
		}
		return decodeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			dv, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	default:
		return v, nil
	}
}
