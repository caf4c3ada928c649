package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/docstore"
	"github.com/sakif/portfolio/internal/repository"
)

// compile-time check that *DB implements repository.DocumentRepository
var _ repository.DocumentRepository = (*DB)(nil)

// fieldName limits filter/sort fields to plain top-level keys so they can be
// turned into a JSON path ("$.order") without escaping.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Get reads a single document by its full path ("profile/main").
// Returns apperror.ErrNotFound if the document does not exist.
func (db *DB) Get(ctx context.Context, path string) (*docstore.Document, error) {
	collection, id, err := docstore.SplitPath(path)
	if err != nil {
		return nil, err
	}

	var raw string
	err = db.conn.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("document", path)
		}
		return nil, fmt.Errorf("sqlite: getting document %s: %w", path, err)
	}

	fields, err := docstore.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("sqlite: document %s: %w", path, err)
	}

	return &docstore.Document{ID: id, Fields: fields}, nil
}

// Set writes a document at path, replacing all of its fields if it already
// exists (upsert). ServerTimestamp placeholders become the write time.
func (db *DB) Set(ctx context.Context, path string, fields map[string]any) error {
	collection, id, err := docstore.SplitPath(path)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	data, err := docstore.Encode(docstore.ResolveServerTimestamps(fields, now))
	if err != nil {
		return fmt.Errorf("sqlite: setting document %s: %w", path, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO documents (collection, id, fields, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE
		 SET fields = excluded.fields, updated_at = excluded.updated_at`,
		collection, id, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting document %s: %w", path, err)
	}

	return nil
}

// Add appends a new document to collection under a generated xid and returns
// that id. Calling Add twice with the same fields creates two documents.
func (db *DB) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	collection = strings.Trim(collection, "/")
	if collection == "" {
		return "", fmt.Errorf("sqlite: adding document: empty collection path")
	}

	id := xid.New().String()
	now := time.Now().UTC()

	data, err := docstore.Encode(docstore.ResolveServerTimestamps(fields, now))
	if err != nil {
		return "", fmt.Errorf("sqlite: adding document to %s: %w", collection, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO documents (collection, id, fields, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		collection, id, string(data), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: adding document to %s: %w", collection, err)
	}

	return id, nil
}

// Query runs a collection query.
//
// SQL SHAPE:
//
//	SELECT id, fields FROM documents
//	WHERE collection = ?
//	  AND json_extract(fields, '$.featured') = 1      -- one per filter
//	  AND json_extract(fields, '$.order') IS NOT NULL  -- when ordering
//	ORDER BY json_extract(fields, '$.order') ASC, rowid ASC
//
// JSON paths are bound as parameters, never concatenated into the SQL.
// Documents missing the sort field are left out of ordered results, the same
// way an indexed document store drops them from an orderBy query.
func (db *DB) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	var sb strings.Builder
	args := []any{strings.Trim(q.Collection, "/")}

	sb.WriteString(`SELECT id, fields FROM documents WHERE collection = ?`)

	for _, f := range q.Filters {
		if !fieldName.MatchString(f.Field) {
			return nil, fmt.Errorf("sqlite: invalid filter field %q", f.Field)
		}
		value, err := sqlValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("sqlite: filter %s: %w", f.Field, err)
		}
		sb.WriteString(` AND json_extract(fields, ?) = ?`)
		args = append(args, "$."+f.Field, value)
	}

	if q.OrderBy != "" {
		if !fieldName.MatchString(q.OrderBy) {
			return nil, fmt.Errorf("sqlite: invalid order field %q", q.OrderBy)
		}
		path := "$." + q.OrderBy
		sb.WriteString(` AND json_extract(fields, ?) IS NOT NULL`)
		sb.WriteString(` ORDER BY json_extract(fields, ?) ASC, rowid ASC`)
		args = append(args, path, path)
	} else {
		sb.WriteString(` ORDER BY rowid ASC`)
	}

	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying %s: %w", q.Collection, err)
	}
	defer rows.Close()

	docs := make([]docstore.Document, 0)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("sqlite: scanning document row: %w", err)
		}
		fields, err := docstore.Decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("sqlite: document %s/%s: %w", q.Collection, id, err)
		}
		docs = append(docs, docstore.Document{ID: id, Fields: fields})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating %s: %w", q.Collection, err)
	}

	return docs, nil
}

// Count returns how many documents a collection holds. Used as the
// "does this collection already have content" existence check.
func (db *DB) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`,
		strings.Trim(collection, "/"),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting %s: %w", collection, err)
	}
	return n, nil
}

// sqlValue converts a filter value into what json_extract returns for it:
// JSON booleans come back as integers 1/0.
func sqlValue(v any) (any, error) {
	switch val := v.(type) {
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		return val.Float64()
	case string, int, int32, int64, float32, float64:
		return val, nil
	default:
		return nil, fmt.Errorf("unsupported filter value type %T", v)
	}
}
