package docstore

// Normalize returns a copy of fields where every Timestamp value becomes a
// time.Time. Nested field maps are normalized recursively; array values are
// copied through untouched, including any Timestamps inside them.
//
// Normalize is pure and idempotent: time.Time values are left alone, so
// Normalize(Normalize(x)) equals Normalize(x). Input without timestamps yields
// a shallow copy.
func Normalize(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case Timestamp:
			out[k] = val.Time()
		case map[string]any:
			out[k] = Normalize(val)
		default:
			out[k] = v
		}
	}
	return out
}
