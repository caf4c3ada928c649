package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/portfolio/internal/model"
)

const testUser = "c9k2f1"

func newTestContentService(docs *fakeDocs) *ContentService {
	return NewContentService(docs, discardLogger())
}

// addItems appends records to collection through the fake store.
func addItems(t *testing.T, docs *fakeDocs, collection string, items ...map[string]any) {
	t.Helper()
	for _, it := range items {
		if _, err := docs.Add(context.Background(), collection, it); err != nil {
			t.Fatalf("Add(%s): %v", collection, err)
		}
	}
	docs.calls = nil
}

func projectNames(ps []model.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	userProjects   = UserScope(testUser).Collection(model.KindProjects)
	legacyProjects = LegacyScope.Collection(model.KindProjects)
)

// =========================================================================
// SCOPE RESOLUTION AND FALLBACK
// =========================================================================

func TestGetProjects_AnonymousReadsLegacyOnly(t *testing.T) {
	docs := newFakeDocs()
	addItems(t, docs, legacyProjects,
		map[string]any{"name": "third", "order": 7},
		map[string]any{"name": "first", "order": 0},
		map[string]any{"name": "second", "order": 3},
	)
	svc := newTestContentService(docs)

	got := projectNames(svc.GetProjects(context.Background(), "", false))

	if want := []string{"first", "second", "third"}; !equalStrings(got, want) {
		t.Errorf("GetProjects() = %v, want %v", got, want)
	}
	if docs.touched(userProjects) {
		t.Error("anonymous read touched a per-user collection")
	}
}

func TestGetProjects_UserScopeWinsWithoutMerging(t *testing.T) {
	docs := newFakeDocs()
	addItems(t, docs, legacyProjects, map[string]any{"name": "legacy", "order": 0})
	addItems(t, docs, userProjects, map[string]any{"name": "mine", "order": 0})
	svc := newTestContentService(docs)

	got := projectNames(svc.GetProjects(context.Background(), testUser, false))

	if !equalStrings(got, []string{"mine"}) {
		t.Errorf("GetProjects() = %v, want [mine]", got)
	}
	if docs.touched(legacyProjects) {
		t.Error("legacy collection queried although the user has projects")
	}
}

func TestGetProjects_FallsBackWhenUserScopeEmpty(t *testing.T) {
	docs := newFakeDocs()
	addItems(t, docs, legacyProjects, map[string]any{"name": "legacy", "order": 0})
	svc := newTestContentService(docs)

	got := projectNames(svc.GetProjects(context.Background(), testUser, false))

	if !equalStrings(got, []string{"legacy"}) {
		t.Errorf("GetProjects() = %v, want [legacy]", got)
	}
	if !docs.touched(userProjects) {
		t.Error("per-user collection was never queried")
	}
}

func TestGetProjects_FeaturedFilterAppliesToBothScopes(t *testing.T) {
	docs := newFakeDocs()
	// The user has projects, but none featured: the featured query is empty
	// in their scope and is re-issued against the legacy collection.
	addItems(t, docs, userProjects, map[string]any{"name": "draft", "featured": false, "order": 0})
	addItems(t, docs, legacyProjects,
		map[string]any{"name": "hidden", "featured": false, "order": 0},
		map[string]any{"name": "shown", "featured": true, "order": 1},
	)
	svc := newTestContentService(docs)

	got := projectNames(svc.GetProjects(context.Background(), testUser, true))
	if !equalStrings(got, []string{"shown"}) {
		t.Errorf("GetProjects(featured) = %v, want [shown]", got)
	}

	all := projectNames(svc.GetProjects(context.Background(), testUser, false))
	if !equalStrings(all, []string{"draft"}) {
		t.Errorf("GetProjects(all) = %v, want [draft]", all)
	}
}

func TestGetProjects_StorageFailureDegradesToEmpty(t *testing.T) {
	docs := newFakeDocs()
	addItems(t, docs, legacyProjects, map[string]any{"name": "legacy", "order": 0})
	docs.failOn[userProjects] = errors.New("permission denied")
	svc := newTestContentService(docs)

	got := svc.GetProjects(context.Background(), testUser, false)

	if got == nil || len(got) != 0 {
		t.Errorf("GetProjects() = %#v, want empty non-nil slice", got)
	}
	if docs.touched(legacyProjects) {
		t.Error("a failed per-user read must not fall back to legacy")
	}
}

func TestGetProjects_SkipsInvalidRecords(t *testing.T) {
	docs := newFakeDocs()
	addItems(t, docs, legacyProjects,
		map[string]any{"name": "ok", "order": 0},
		map[string]any{"description": "no name", "order": 1},
		map[string]any{"name": "bad stars", "stars": "many", "order": 2},
	)
	svc := newTestContentService(docs)

	got := projectNames(svc.GetProjects(context.Background(), "", false))
	if !equalStrings(got, []string{"ok"}) {
		t.Errorf("GetProjects() = %v, want [ok]", got)
	}
}

// =========================================================================
// DECODING
// =========================================================================

func TestReaders_NormalizeTimestampsAndIDs(t *testing.T) {
	docs := newFakeDocs()
	ctx := context.Background()
	ms := NewMigrationService(docs, discardLogger())
	if _, err := ms.Run(ctx, testUser, MigrationOptions{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	svc := newTestContentService(docs)

	achievements := svc.GetAchievements(ctx, testUser)
	if len(achievements) != 4 {
		t.Fatalf("GetAchievements() returned %d, want 4", len(achievements))
	}
	for i, a := range achievements {
		if a.ID == "" {
			t.Errorf("achievement %d has no id", i)
		}
		if a.CreatedAt.IsZero() {
			t.Errorf("achievement %d createdAt was not normalized", i)
		}
		if a.Order != i {
			t.Errorf("achievement %d has order %d", i, a.Order)
		}
	}
	if achievements[0].Year != "2023" {
		t.Errorf("Year = %q, want %q", achievements[0].Year, "2023")
	}

	profile := svc.GetProfile(ctx, testUser)
	if profile == nil {
		t.Fatal("GetProfile() = nil after seeding")
	}
	if profile.ID != "profile" || profile.CreatedAt.IsZero() {
		t.Errorf("profile = %+v, want id profile and a createdAt", profile)
	}
}

// =========================================================================
// PROFILE
// =========================================================================

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	legacyPath := LegacyScope.ProfilePath()
	userPath := UserScope(testUser).ProfilePath()

	t.Run("absent everywhere", func(t *testing.T) {
		svc := newTestContentService(newFakeDocs())
		if p := svc.GetProfile(ctx, testUser); p != nil {
			t.Errorf("GetProfile() = %+v, want nil", p)
		}
	})

	t.Run("falls back to legacy", func(t *testing.T) {
		docs := newFakeDocs()
		docs.Set(ctx, legacyPath, map[string]any{"name": "Legacy Owner"})
		svc := newTestContentService(docs)

		p := svc.GetProfile(ctx, testUser)
		if p == nil || p.Name != "Legacy Owner" {
			t.Errorf("GetProfile() = %+v, want Legacy Owner", p)
		}
	})

	t.Run("user profile wins", func(t *testing.T) {
		docs := newFakeDocs()
		docs.Set(ctx, legacyPath, map[string]any{"name": "Legacy Owner"})
		docs.Set(ctx, userPath, map[string]any{"name": "Me"})
		svc := newTestContentService(docs)

		if p := svc.GetProfile(ctx, testUser); p == nil || p.Name != "Me" {
			t.Errorf("GetProfile() = %+v, want Me", p)
		}
	})

	t.Run("anonymous never reads a user profile", func(t *testing.T) {
		docs := newFakeDocs()
		docs.Set(ctx, userPath, map[string]any{"name": "Me"})
		docs.calls = nil
		svc := newTestContentService(docs)

		if p := svc.GetProfile(ctx, ""); p != nil {
			t.Errorf("GetProfile(anonymous) = %+v, want nil", p)
		}
		if docs.touched(userPath) {
			t.Error("anonymous read touched the per-user profile")
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		docs := newFakeDocs()
		docs.Set(ctx, legacyPath, map[string]any{"name": "Legacy Owner"})
		docs.failOn[userPath] = errors.New("unavailable")
		svc := newTestContentService(docs)

		if p := svc.GetProfile(ctx, testUser); p != nil {
			t.Errorf("GetProfile() = %+v, want nil on storage failure", p)
		}
	})
}

// =========================================================================
// MIGRATION OFFER
// =========================================================================

func TestNeedsMigration(t *testing.T) {
	ctx := context.Background()
	signedIn := model.ViewerFor(testUser)
	scope := UserScope(testUser)

	t.Run("empty scope", func(t *testing.T) {
		svc := newTestContentService(newFakeDocs())
		got, err := svc.NeedsMigration(ctx, signedIn)
		if err != nil || !got {
			t.Errorf("NeedsMigration() = %v, %v; want true", got, err)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := newTestContentService(newFakeDocs())
		if got, _ := svc.NeedsMigration(ctx, model.Anonymous); got {
			t.Error("NeedsMigration(anonymous) = true")
		}
	})

	t.Run("one achievement", func(t *testing.T) {
		docs := newFakeDocs()
		addItems(t, docs, scope.Collection(model.KindAchievements), map[string]any{"title": "x", "order": 0})
		svc := newTestContentService(docs)
		if got, _ := svc.NeedsMigration(ctx, signedIn); got {
			t.Error("NeedsMigration() = true with an achievement present")
		}
	})

	t.Run("profile only", func(t *testing.T) {
		docs := newFakeDocs()
		docs.Set(ctx, scope.ProfilePath(), map[string]any{"name": "Me"})
		svc := newTestContentService(docs)
		if got, _ := svc.NeedsMigration(ctx, signedIn); got {
			t.Error("NeedsMigration() = true with a profile present")
		}
	})

	t.Run("extracurriculars do not count", func(t *testing.T) {
		docs := newFakeDocs()
		addItems(t, docs, scope.Collection(model.KindExtracurriculars), map[string]any{"title": "x", "order": 0})
		svc := newTestContentService(docs)
		if got, _ := svc.NeedsMigration(ctx, signedIn); !got {
			t.Error("NeedsMigration() = false with only extracurriculars")
		}
	})

	t.Run("legacy content does not count", func(t *testing.T) {
		docs := newFakeDocs()
		addItems(t, docs, legacyProjects, map[string]any{"name": "legacy", "order": 0})
		svc := newTestContentService(docs)
		if got, _ := svc.NeedsMigration(ctx, signedIn); !got {
			t.Error("NeedsMigration() = false although the user's own scope is empty")
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		docs := newFakeDocs()
		docs.failOn[scope.Collection(model.KindProjects)] = errors.New("unavailable")
		svc := newTestContentService(docs)
		if _, err := svc.NeedsMigration(ctx, signedIn); err == nil {
			t.Error("NeedsMigration() hid a storage failure")
		}
	})
}

// =========================================================================
// PAGE LOAD
// =========================================================================

func TestLoadPage(t *testing.T) {
	ctx := context.Background()
	docs := newFakeDocs()
	docs.Set(ctx, LegacyScope.ProfilePath(), map[string]any{"name": "Legacy Owner"})
	addItems(t, docs, legacyProjects,
		map[string]any{"name": "b", "featured": true, "order": 1},
		map[string]any{"name": "a", "featured": false, "order": 0},
	)
	addItems(t, docs, LegacyScope.Collection(model.KindEducation), map[string]any{"institution": "School", "order": 0})
	svc := newTestContentService(docs)

	anon := svc.LoadPage(ctx, model.Anonymous, true)
	if anon.Profile == nil || anon.Profile.Name != "Legacy Owner" {
		t.Errorf("Profile = %+v, want Legacy Owner", anon.Profile)
	}
	if got := projectNames(anon.Projects); !equalStrings(got, []string{"b"}) {
		t.Errorf("featured Projects = %v, want [b]", got)
	}
	if len(anon.Education) != 1 || anon.Achievements == nil || len(anon.Achievements) != 0 {
		t.Errorf("Education = %v, Achievements = %#v", anon.Education, anon.Achievements)
	}
	if anon.MigrationOffered {
		t.Error("anonymous viewer was offered a migration")
	}

	owner := svc.LoadPage(ctx, model.ViewerFor(testUser), false)
	if !owner.MigrationOffered {
		t.Error("signed-in viewer with an empty scope was not offered a migration")
	}
	if got := projectNames(owner.Projects); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("Projects = %v, want legacy fallback [a b]", got)
	}
}
