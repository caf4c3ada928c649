package docstore

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document is one stored record: its store-assigned id plus raw fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter is an equality condition on a top-level field.
type Filter struct {
	Field string
	Value any
}

// Query selects documents from a single collection.
//
// OrderBy names a numeric top-level field sorted ascending; an empty OrderBy
// falls back to the store's default order.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Limit      int
}

// Where returns a copy of q with an extra equality filter.
func (q Query) Where(field string, value any) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Value: value})
	return q
}

// In returns a copy of q pointed at another collection, keeping filters and
// ordering. Readers use it to re-issue the same query against a fallback scope.
func (q Query) In(collection string) Query {
	q.Collection = collection
	return q
}

// DocPath joins a collection path and a document id: "profile" + "main" -> "profile/main".
func DocPath(collection, id string) string {
	return collection + "/" + id
}

// SplitPath splits a document path into its parent collection and id.
// "users/u1/content/profile" -> ("users/u1/content", "profile").
func SplitPath(path string) (collection, id string, err error) {
	path = strings.Trim(path, "/")
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", fmt.Errorf("docstore: %q is not a document path", path)
	}
	return path[:i], path[i+1:], nil
}

// DecodeInto normalizes a document, attaches its id as the "id" field and
// decodes the result into out (a pointer to a JSON-tagged struct). Field values
// of the wrong shape make the whole record fail to decode.
func DecodeInto(doc Document, out any) error {
	fields := Normalize(doc.Fields)
	fields["id"] = doc.ID

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: re-encoding document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("docstore: decoding document %s: %w", doc.ID, err)
	}
	return nil
}
