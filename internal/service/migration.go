package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/model"
	"github.com/sakif/portfolio/internal/repository"
)

// MigrationOptions controls a seeding run.
type MigrationOptions struct {
	// Force seeds even when the user already has content. The profile is
	// overwritten; list items are appended next to the existing ones.
	Force bool
}

// MigrationReport says which content kinds a run wrote and which it left
// alone because the user already had them.
type MigrationReport struct {
	UserID  string       `json:"userId"`
	Seeded  []model.Kind `json:"seeded"`
	Skipped []model.Kind `json:"skipped"`
}

// MigrationService seeds the default portfolio content into a user's scope.
type MigrationService struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

// NewMigrationService creates a MigrationService.
func NewMigrationService(docs repository.DocumentRepository, logger *slog.Logger) *MigrationService {
	return &MigrationService{
		docs:   docs,
		logger: logger,
	}
}

// allKinds is the report order.
var allKinds = []model.Kind{
	model.KindProfile,
	model.KindProjects,
	model.KindAchievements,
	model.KindEducation,
	model.KindExtracurriculars,
}

// Run seeds all five content kinds for userID.
//
// The five sub-migrations run concurrently and independently: one failing
// does not stop or undo the others, so a failed run can leave a partial
// seed behind. Any failure is returned as a PartialMigration error alongside
// the report of what did get written.
//
// Without opts.Force a kind that already has content is skipped, which makes
// repeated runs safe. Items within one list are written sequentially in
// their `order`.
func (s *MigrationService) Run(ctx context.Context, userID string, opts MigrationOptions) (*MigrationReport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.InvalidArgument("userId", "User ID is required for data migration")
	}
	scope := UserScope(userID)

	var (
		mu     sync.Mutex
		report = &MigrationReport{UserID: userID, Seeded: []model.Kind{}, Skipped: []model.Kind{}}
		errs   []error
	)
	record := func(kind model.Kind, seeded bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		case seeded:
			report.Seeded = append(report.Seeded, kind)
		default:
			report.Skipped = append(report.Skipped, kind)
		}
	}

	// Plain Group, no WithContext: a failing sub-migration must not cancel
	// the ones still running.
	var g errgroup.Group
	g.Go(func() error {
		seeded, err := s.seedProfile(ctx, scope, opts)
		record(model.KindProfile, seeded, err)
		return err
	})
	for _, kind := range model.ListKinds {
		kind := kind // per-iteration copy; go.mod targets go 1.21
		g.Go(func() error {
			seeded, err := s.seedList(ctx, scope, kind, opts)
			record(kind, seeded, err)
			return err
		})
	}
	// Wait reports only the first failure; errs holds all of them.
	waitErr := g.Wait()

	sortKinds(report.Seeded)
	sortKinds(report.Skipped)

	if waitErr != nil {
		err := apperror.PartialMigration(errors.Join(errs...))
		s.logger.Error("content migration failed",
			slog.String("userID", userID),
			slog.Any("seeded", report.Seeded),
			slog.String("error", err.Error()),
		)
		return report, err
	}

	s.logger.Info("content migration finished",
		slog.String("userID", userID),
		slog.Any("seeded", report.Seeded),
		slog.Any("skipped", report.Skipped),
		slog.Bool("force", opts.Force),
	)
	return report, nil
}

func (s *MigrationService) seedProfile(ctx context.Context, scope Scope, opts MigrationOptions) (bool, error) {
	path := scope.ProfilePath()

	if !opts.Force {
		_, err := s.docs.Get(ctx, path)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return false, err
		}
	}

	if err := s.docs.Set(ctx, path, defaultProfile()); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MigrationService) seedList(ctx context.Context, scope Scope, kind model.Kind, opts MigrationOptions) (bool, error) {
	collection := scope.Collection(kind)

	if !opts.Force {
		n, err := s.docs.Count(ctx, collection)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return false, nil
		}
	}

	for i, item := range defaultItems[kind]() {
		if _, err := s.docs.Add(ctx, collection, item); err != nil {
			return false, fmt.Errorf("adding item %d: %w", i, err)
		}
	}
	return true, nil
}

func sortKinds(kinds []model.Kind) {
	slices.SortFunc(kinds, func(a, b model.Kind) int {
		return slices.Index(allKinds, a) - slices.Index(allKinds, b)
	})
}
