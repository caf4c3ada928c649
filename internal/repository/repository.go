// Package repository declares the storage interfaces the service layer depends on.
// Implementations live in sub-packages (see repository/sqlite).
package repository

import (
	"context"

	"github.com/sakif/portfolio/internal/docstore"
	"github.com/sakif/portfolio/internal/model"
)

// DocumentRepository is a minimal document store: hierarchical collection
// paths, documents as field maps, equality filters and ascending numeric sort.
//
// Get returns an apperror.ErrNotFound error when the document is absent.
// Set upserts (overwrite-if-exists) and Add appends with a store-assigned id.
// Both resolve docstore.ServerTimestamp placeholders to the write time.
type DocumentRepository interface {
	Get(ctx context.Context, path string) (*docstore.Document, error)
	Set(ctx context.Context, path string, fields map[string]any) error
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error)
	Count(ctx context.Context, collection string) (int, error)
}

// UserRepository persists accounts created by sign-in.
type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}
