package model

import "time"

// Identity providers a user can sign in with.
const (
	ProviderGitHub   = "github"
	ProviderPassword = "password"
)

// User represents a registered account.
//
// A user is identified externally by (Provider, ProviderID): the numeric GitHub
// id for GitHub sign-in, or the owner's email for password sign-in. We still
// generate our own internal string ID (xid); that ID is the scope key for the
// user's content ("users/{id}/content/...").
type User struct {
	ID         string    `json:"id"         db:"id"`
	Provider   string    `json:"provider"   db:"provider"`
	ProviderID string    `json:"-"          db:"provider_id"`
	Login      string    `json:"login"      db:"login"`      // GitHub username or owner email
	Email      string    `json:"email"      db:"email"`      // may be empty
	AvatarURL  string    `json:"avatarUrl"  db:"avatar_url"` // may be empty
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}

// Viewer is the authentication context of one request. An anonymous viewer has
// an empty UserID and reads only the legacy global content.
type Viewer struct {
	UserID        string `json:"userId"`
	Authenticated bool   `json:"isAuthenticated"`
}

// Anonymous is the viewer for requests without a valid session.
var Anonymous = Viewer{}

// ViewerFor returns an authenticated viewer for userID, or Anonymous when empty.
func ViewerFor(userID string) Viewer {
	if userID == "" {
		return Anonymous
	}
	return Viewer{UserID: userID, Authenticated: true}
}

// ContactMessage is a submission from the site's contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
