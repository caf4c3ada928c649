// Package docstore holds the store-agnostic document model used by the content
// layer: documents as field maps, collection queries, the store-native
// Timestamp value, and the JSON codec the SQLite repository persists with.
//
// Field maps only ever contain JSON-shaped values (string, bool, json.Number,
// float64, nil, []any, map[string]any) plus two store-native values:
//
//   - Timestamp: a point in time written by the store.
//   - ServerTimestamp(): a write-side placeholder the store replaces with the
//     current time when the document is written. Content seeding uses it so
//     createdAt is never supplied by the caller.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// timestampKey marks an encoded Timestamp inside stored JSON.
const timestampKey = "$timestamp"

// Timestamp is the store-native time value. It is deliberately distinct from
// time.Time so readers can tell "raw store value" from "normalized date".
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// TimestampOf converts a time.Time into a store Timestamp (UTC).
func TimestampOf(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Time returns the portable time.Time for ts.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// MarshalJSON encodes the timestamp as {"$timestamp": "<RFC3339Nano>"}.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{timestampKey: ts.Time().Format(time.RFC3339Nano)})
}

// ErrUnresolvedServerTimestamp is returned when a ServerTimestamp placeholder
// reaches the encoder without being replaced by the store.
var ErrUnresolvedServerTimestamp = errors.New("docstore: unresolved server timestamp")

type serverTimestamp struct{}

func (serverTimestamp) MarshalJSON() ([]byte, error) {
	return nil, ErrUnresolvedServerTimestamp
}

// ServerTimestamp returns the placeholder a store replaces with "now" at write time.
func ServerTimestamp() any {
	return serverTimestamp{}
}

// ResolveServerTimestamps returns a copy of fields where every ServerTimestamp
// placeholder, at any depth including inside arrays, becomes now.
func ResolveServerTimestamps(fields map[string]any, now time.Time) map[string]any {
	ts := TimestampOf(now)
	return resolveMap(fields, ts)
}

func resolveMap(in map[string]any, ts Timestamp) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = resolveValue(v, ts)
	}
	return out
}

func resolveValue(v any, ts Timestamp) any {
	switch val := v.(type) {
	case serverTimestamp:
		return ts
	case map[string]any:
		return resolveMap(val, ts)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = resolveValue(item, ts)
		}
		return out
	default:
		return v
	}
}

// parseTimestamp recognises the single-key {"$timestamp": "..."} encoding.
func parseTimestamp(m map[string]any) (Timestamp, bool, error) {
	if len(m) != 1 {
		return Timestamp{}, false, nil
	}
	raw, ok := m[timestampKey]
	if !ok {
		return Timestamp{}, false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return Timestamp{}, false, fmt.Errorf("docstore: %s must be a string, got %T", timestampKey, raw)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, false, fmt.Errorf("docstore: parsing %s: %w", timestampKey, err)
	}
	return TimestampOf(t), true, nil
}
