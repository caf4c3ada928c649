// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → scope resolution, fallback, seeding, validation
//	Repository (Data layer)  → reads/writes documents in SQLite
//
// Services take repository interfaces (not *sqlite.DB), so tests inject
// in-memory fakes and the handlers never see storage details.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sourcegraph/conc"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/docstore"
	"github.com/sakif/portfolio/internal/model"
	"github.com/sakif/portfolio/internal/repository"
)

// orderField is the numeric field every list entity is sorted by.
const orderField = "order"

// ContentService implements the entity readers.
//
// READ POLICY:
// Every reader resolves the caller's scope first. A signed-in user reads
// "users/{id}/content/..."; if that comes back empty (or the profile is
// absent) the same query is re-issued against the legacy global collections.
// Results from the two scopes are never merged.
//
// Readers do not return errors. A storage failure is logged and the reader
// returns an empty list (or nil profile) so the page still renders.
type ContentService struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

// NewContentService creates a ContentService.
func NewContentService(docs repository.DocumentRepository, logger *slog.Logger) *ContentService {
	return &ContentService{
		docs:   docs,
		logger: logger,
	}
}

// validator is implemented by every content model.
type validator interface {
	Validate() error
}

// GetProfile returns the profile for userID ("" = legacy only), or nil.
func (s *ContentService) GetProfile(ctx context.Context, userID string) *model.Profile {
	primary := UserScope(userID)

	doc, err := s.docs.Get(ctx, primary.ProfilePath())
	if errors.Is(err, apperror.ErrNotFound) && !primary.IsLegacy() {
		doc, err = s.docs.Get(ctx, LegacyScope.ProfilePath())
	}
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.storageFailure(model.KindProfile, primary, err)
		}
		return nil
	}

	var p model.Profile
	if !s.decode(model.KindProfile, *doc, &p) {
		return nil
	}
	return &p
}

// GetProjects returns projects ordered by `order`; featuredOnly keeps only
// featured ones (the homepage subset).
func (s *ContentService) GetProjects(ctx context.Context, userID string, featuredOnly bool) []model.Project {
	q := docstore.Query{OrderBy: orderField}
	if featuredOnly {
		q = q.Where("featured", true)
	}
	return readList[model.Project](ctx, s, model.KindProjects, userID, q)
}

// GetAchievements returns achievements ordered by `order`.
func (s *ContentService) GetAchievements(ctx context.Context, userID string) []model.Achievement {
	return readList[model.Achievement](ctx, s, model.KindAchievements, userID, docstore.Query{OrderBy: orderField})
}

// GetEducation returns education entries ordered by `order`.
func (s *ContentService) GetEducation(ctx context.Context, userID string) []model.Education {
	return readList[model.Education](ctx, s, model.KindEducation, userID, docstore.Query{OrderBy: orderField})
}

// GetExtracurriculars returns extracurricular activities ordered by `order`.
func (s *ContentService) GetExtracurriculars(ctx context.Context, userID string) []model.Extracurricular {
	return readList[model.Extracurricular](ctx, s, model.KindExtracurriculars, userID, docstore.Query{OrderBy: orderField})
}

// LoadPage reads all five content types concurrently for viewer and, for a
// signed-in viewer, whether to offer seeding default content.
//
// conc.WaitGroup re-panics a child's panic in Wait instead of crashing the
// process from a bare goroutine; the readers themselves never fail.
func (s *ContentService) LoadPage(ctx context.Context, viewer model.Viewer, featuredOnly bool) *model.Page {
	userID := viewer.UserID
	if !viewer.Authenticated {
		userID = ""
	}

	page := &model.Page{}

	var wg conc.WaitGroup
	wg.Go(func() { page.Profile = s.GetProfile(ctx, userID) })
	wg.Go(func() { page.Projects = s.GetProjects(ctx, userID, featuredOnly) })
	wg.Go(func() { page.Achievements = s.GetAchievements(ctx, userID) })
	wg.Go(func() { page.Education = s.GetEducation(ctx, userID) })
	wg.Go(func() { page.Extracurriculars = s.GetExtracurriculars(ctx, userID) })
	wg.Go(func() {
		offered, err := s.NeedsMigration(ctx, viewer)
		if err != nil {
			s.logger.Warn("could not determine migration offer",
				slog.String("userID", userID),
				slog.String("error", err.Error()),
			)
			return
		}
		page.MigrationOffered = offered
	})
	wg.Wait()

	return page
}

// NeedsMigration reports whether a signed-in user's own scope is completely
// empty: no projects, no achievements, no education and no profile. It looks
// only at the per-user scope, never the legacy fallback.
//
// Extracurriculars are not part of the check; a user with only
// extracurriculars is still offered the defaults.
func (s *ContentService) NeedsMigration(ctx context.Context, viewer model.Viewer) (bool, error) {
	if !viewer.Authenticated || viewer.UserID == "" {
		return false, nil
	}
	scope := UserScope(viewer.UserID)

	for _, kind := range []model.Kind{model.KindProjects, model.KindAchievements, model.KindEducation} {
		n, err := s.docs.Count(ctx, scope.Collection(kind))
		if err != nil {
			return false, apperror.StorageUnavailable("checking "+string(kind), err)
		}
		if n > 0 {
			return false, nil
		}
	}

	_, err := s.docs.Get(ctx, scope.ProfilePath())
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, apperror.ErrNotFound):
		return true, nil
	default:
		return false, apperror.StorageUnavailable("checking profile", err)
	}
}

// readList runs q against kind's collection in the caller's scope, falling back
// to the legacy collection when a user's own collection has no matches.
//
// PT is the pointer type of T; the constraint lets us call Validate on &item
// without reflection.
func readList[T any, PT interface {
	*T
	validator
}](ctx context.Context, s *ContentService, kind model.Kind, userID string, q docstore.Query) []T {
	primary := UserScope(userID)

	docs, err := s.docs.Query(ctx, q.In(primary.Collection(kind)))
	if err != nil {
		s.storageFailure(kind, primary, err)
		return []T{}
	}

	if len(docs) == 0 && !primary.IsLegacy() {
		docs, err = s.docs.Query(ctx, q.In(LegacyScope.Collection(kind)))
		if err != nil {
			s.storageFailure(kind, LegacyScope, err)
			return []T{}
		}
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if s.decode(kind, doc, PT(&item)) {
			items = append(items, item)
		}
	}
	return items
}

// decode turns a stored document into its model and validates it. Records
// that fail either step are logged and left out.
func (s *ContentService) decode(kind model.Kind, doc docstore.Document, out validator) bool {
	if err := docstore.DecodeInto(doc, out); err != nil {
		s.logger.Warn("skipping malformed content record",
			slog.String("kind", string(kind)),
			slog.String("id", doc.ID),
			slog.String("error", err.Error()),
		)
		return false
	}
	if err := out.Validate(); err != nil {
		s.logger.Warn("skipping invalid content record",
			slog.String("kind", string(kind)),
			slog.String("id", doc.ID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func (s *ContentService) storageFailure(kind model.Kind, scope Scope, err error) {
	wrapped := apperror.StorageUnavailable("reading "+string(kind), err)
	s.logger.Error(wrapped.Message,
		slog.String("kind", string(kind)),
		slog.String("scope", scope.String()),
		slog.String("error", err.Error()),
	)
}
