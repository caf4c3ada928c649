// Package handler contains the HTTP handlers of the portfolio API.
//
// Handlers parse the request, call one service method and write the response.
// They hold no business rules: scope resolution, fallback and seeding all live
// in internal/service.
package handler

import (
	"net/http"
	"strconv"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/auth"
	"github.com/sakif/portfolio/internal/model"
	"github.com/sakif/portfolio/internal/service"
)

// ContentHandler serves the read-only content endpoints.
//
// Every route sits behind auth.OptionalAuth: a signed-in owner sees their own
// content, everyone else the legacy content.
type ContentHandler struct {
	content *service.ContentService
}

func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// viewerFrom returns who is looking at the page.
func viewerFrom(r *http.Request) model.Viewer {
	userID, _ := auth.UserIDFromContext(r.Context())
	return model.ViewerFor(userID)
}

// featuredParam parses ?featured=; absent means false.
func featuredParam(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("featured")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.InvalidArgument("featured", "featured must be true or false")
	}
	return v, nil
}

// HandlePage returns all five content types plus the migration offer.
//
// HTTP: GET /api/page?featured=true
func (h *ContentHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	featured, err := featuredParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.content.LoadPage(r.Context(), viewerFrom(r), featured))
}

// HandleProfile returns the profile, or JSON null when none exists.
//
// HTTP: GET /api/profile
func (h *ContentHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.GetProfile(r.Context(), viewerFrom(r).UserID))
}

// HandleProjects returns projects in display order.
//
// HTTP: GET /api/projects?featured=true
func (h *ContentHandler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	featured, err := featuredParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.content.GetProjects(r.Context(), viewerFrom(r).UserID, featured))
}

// HTTP: GET /api/achievements
func (h *ContentHandler) HandleAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.GetAchievements(r.Context(), viewerFrom(r).UserID))
}

// HTTP: GET /api/education
func (h *ContentHandler) HandleEducation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.GetEducation(r.Context(), viewerFrom(r).UserID))
}

// HTTP: GET /api/extracurriculars
func (h *ContentHandler) HandleExtracurriculars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.GetExtracurriculars(r.Context(), viewerFrom(r).UserID))
}
