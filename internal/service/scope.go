package service

import (
	"fmt"

	"github.com/sakif/portfolio/internal/docstore"
	"github.com/sakif/portfolio/internal/model"
)

// Scope is a storage namespace for content: either one user's area
// ("users/{id}/content/...") or the legacy global collections.
type Scope struct {
	userID string
}

// LegacyScope is the global namespace used before content became per-user.
var LegacyScope = Scope{}

// UserScope returns the per-user namespace; an empty id means LegacyScope.
func UserScope(userID string) Scope {
	return Scope{userID: userID}
}

// IsLegacy reports whether s is the global namespace.
func (s Scope) IsLegacy() bool {
	return s.userID == ""
}

func (s Scope) String() string {
	if s.IsLegacy() {
		return "legacy"
	}
	return "user:" + s.userID
}

// per-user collection names, as laid out by the admin panel
var userCollections = map[model.Kind]string{
	model.KindProjects:         "projects",
	model.KindAchievements:     "academicAchievements",
	model.KindEducation:        "education",
	model.KindExtracurriculars: "extracurricularActivities",
}

var legacyCollections = map[model.Kind]string{
	model.KindProjects:         "projects",
	model.KindAchievements:     "achievements",
	model.KindEducation:        "education",
	model.KindExtracurriculars: "extracurriculars",
}

// Collection returns the collection path holding kind's items in this scope.
// It panics for KindProfile, which is a single document (see ProfilePath).
func (s Scope) Collection(kind model.Kind) string {
	if s.IsLegacy() {
		name, ok := legacyCollections[kind]
		if !ok {
			panic(fmt.Sprintf("service: %q has no collection", kind))
		}
		return name
	}
	name, ok := userCollections[kind]
	if !ok {
		panic(fmt.Sprintf("service: %q has no collection", kind))
	}
	return fmt.Sprintf("users/%s/content/%s/items", s.userID, name)
}

// ProfilePath returns the document path of the profile in this scope.
func (s Scope) ProfilePath() string {
	if s.IsLegacy() {
		return docstore.DocPath("profile", "main")
	}
	return docstore.DocPath(fmt.Sprintf("users/%s/content", s.userID), "profile")
}
