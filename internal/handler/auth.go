package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/portfolio/internal/auth"
	"github.com/sakif/portfolio/internal/model"
	"github.com/sakif/portfolio/internal/service"
)

const stateCookie = "oauth_state"

// AuthHandler manages owner sign-in and the session cookie.
//
//   - HandleGitHubLogin    → redirect to GitHub's consent page
//   - HandleGitHubCallback → exchange the code, sign in, set the cookie
//   - HandlePasswordLogin  → owner email/password sign-in
//   - HandleLogout         → clear the cookie
//   - HandleMe             → who is the current viewer
type AuthHandler struct {
	github        *auth.GitHubProvider // nil when GitHub sign-in is not configured
	authService   *service.AuthService
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(
	github *auth.GitHubProvider,
	authService *service.AuthService,
	secureCookies bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		github:        github,
		authService:   authService,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// HandleGitHubLogin redirects the browser to GitHub.
//
// HTTP: GET /auth/github/login
//
// The random state goes into a short-lived cookie; the callback only proceeds
// when GitHub echoes the same value back, which rules out login CSRF.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "GitHub sign-in is not configured"})
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the GitHub sign-in.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "GitHub sign-in is not configured"})
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("auth callback: invalid OAuth state")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	// single use
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	result, err := h.authService.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("auth callback: sign-in failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type passwordLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MeResponse describes the current viewer. User is only present when signed in.
type MeResponse struct {
	model.Viewer
	User *model.User `json:"user,omitempty"`
}

// HandlePasswordLogin signs the owner in with email and password.
//
// HTTP: POST /auth/login {"email": "...", "password": "..."}
func (h *AuthHandler) HandlePasswordLogin(w http.ResponseWriter, r *http.Request) {
	var req passwordLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	result, err := h.authService.LoginWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.secureCookies)
	writeJSON(w, http.StatusOK, MeResponse{
		Viewer: model.ViewerFor(result.User.ID),
		User:   result.User,
	})
}

// HandleLogout clears the session cookie. The token itself stays valid until
// it expires; without the cookie the browser no longer sends it.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookies)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the current viewer; anonymous visitors get
// {"userId": "", "isAuthenticated": false}.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)
	resp := MeResponse{Viewer: viewer}

	if viewer.Authenticated {
		user, err := h.authService.GetUserByID(r.Context(), viewer.UserID)
		if err != nil {
			// a valid token for a deleted user: treat as signed out
			h.logger.Warn("session for unknown user",
				slog.String("userID", viewer.UserID),
				slog.String("error", err.Error()),
			)
			writeJSON(w, http.StatusOK, MeResponse{Viewer: model.Anonymous})
			return
		}
		resp.User = user
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleAnonymousMe answers /api/me when authentication is disabled.
func HandleAnonymousMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MeResponse{Viewer: model.Anonymous})
}
