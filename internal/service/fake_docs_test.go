package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/docstore"
)

// fakeDocs is an in-memory repository.DocumentRepository.
//
// Fields go through docstore.Encode/Decode on the way in, exactly like the
// SQLite store, so tests see json.Number values and resolved timestamps.
// Every collection or path touched is recorded in calls; failOn injects an
// error for a given collection or document path.
type fakeDocs struct {
	mu     sync.Mutex
	colls  map[string][]docstore.Document // insertion order
	nextID int
	calls  []string
	failOn map[string]error
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{
		colls:  make(map[string][]docstore.Document),
		failOn: make(map[string]error),
	}
}

func (f *fakeDocs) store(fields map[string]any) (map[string]any, error) {
	data, err := docstore.Encode(docstore.ResolveServerTimestamps(fields, time.Now()))
	if err != nil {
		return nil, err
	}
	return docstore.Decode(data)
}

func (f *fakeDocs) touch(key string) error {
	f.calls = append(f.calls, key)
	return f.failOn[key]
}

func (f *fakeDocs) Get(ctx context.Context, path string) (*docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(path); err != nil {
		return nil, err
	}

	coll, id, err := docstore.SplitPath(path)
	if err != nil {
		return nil, err
	}
	for _, d := range f.colls[coll] {
		if d.ID == id {
			return &docstore.Document{ID: d.ID, Fields: d.Fields}, nil
		}
	}
	return nil, apperror.NotFound("document", path)
}

func (f *fakeDocs) Set(ctx context.Context, path string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(path); err != nil {
		return err
	}

	coll, id, err := docstore.SplitPath(path)
	if err != nil {
		return err
	}
	stored, err := f.store(fields)
	if err != nil {
		return err
	}
	docs := f.colls[coll]
	for i := range docs {
		if docs[i].ID == id {
			docs[i].Fields = stored
			return nil
		}
	}
	f.colls[coll] = append(docs, docstore.Document{ID: id, Fields: stored})
	return nil
}

func (f *fakeDocs) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(collection); err != nil {
		return "", err
	}

	stored, err := f.store(fields)
	if err != nil {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.colls[collection] = append(f.colls[collection], docstore.Document{ID: id, Fields: stored})
	return id, nil
}

func (f *fakeDocs) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(q.Collection); err != nil {
		return nil, err
	}

	out := []docstore.Document{}
	for _, d := range f.colls[q.Collection] {
		if matches(d, q) {
			out = append(out, d)
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return number(out[i].Fields[q.OrderBy]) < number(out[j].Fields[q.OrderBy])
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeDocs) Count(ctx context.Context, collection string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(collection); err != nil {
		return 0, err
	}
	return len(f.colls[collection]), nil
}

// touched reports whether key was read or written.
func (f *fakeDocs) touched(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.calls, key)
}

func (f *fakeDocs) items(collection string) []docstore.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.colls[collection])
}

func matches(d docstore.Document, q docstore.Query) bool {
	if q.OrderBy != "" {
		if _, ok := d.Fields[q.OrderBy]; !ok {
			return false
		}
	}
	for _, flt := range q.Filters {
		if fmt.Sprint(d.Fields[flt.Field]) != fmt.Sprint(flt.Value) {
			return false
		}
	}
	return true
}

func number(v any) float64 {
	var f float64
	fmt.Sscan(fmt.Sprint(v), &f)
	return f
}
