// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
//
// Portfolio content lives in a document store, so every content struct is the
// typed view of one stored document. Optional attributes use `omitempty` and
// either a pointer (when zero is meaningful, like Stars) or the zero value.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind names one of the five content types the site shows.
type Kind string

const (
	KindProfile          Kind = "profile"
	KindProjects         Kind = "projects"
	KindAchievements     Kind = "achievements"
	KindEducation        Kind = "education"
	KindExtracurriculars Kind = "extracurriculars"
)

// ListKinds are the content types stored as ordered collections.
var ListKinds = []Kind{KindProjects, KindAchievements, KindEducation, KindExtracurriculars}

// Profile is the singleton "about me" record for a scope.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Bio         string    `json:"bio"`
	Tagline     string    `json:"tagline,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Location    string    `json:"location,omitempty"`
	GitHubURL   string    `json:"githubUrl,omitempty"`
	LinkedInURL string    `json:"linkedinUrl,omitempty"`
	TwitterURL  string    `json:"twitterUrl,omitempty"`
	WebsiteURL  string    `json:"websiteUrl,omitempty"`
	ResumeURL   string    `json:"resumeUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Profile) Validate() error {
	return requireFields(map[string]string{"name": p.Name})
}

// Project is a portfolio project. Featured projects make up the homepage subset.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Technologies []string  `json:"technologies,omitempty"`
	GitHubURL    string    `json:"githubUrl,omitempty"`
	LiveURL      string    `json:"liveUrl,omitempty"`
	Stars        *int      `json:"stars,omitempty"`
	Featured     bool      `json:"featured"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p *Project) Validate() error {
	return requireFields(map[string]string{"name": p.Name})
}

// Achievement is an award, competition result or certificate.
type Achievement struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Year           Year      `json:"year"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	CertificateURL string    `json:"certificateUrl,omitempty"`
	Category       string    `json:"category,omitempty"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (a *Achievement) Validate() error {
	return requireFields(map[string]string{"title": a.Title})
}

// Education is a school, degree or certification programme. Present=true
// means "ongoing" and takes precedence over EndDate when displayed.
type Education struct {
	ID           string    `json:"id"`
	Institution  string    `json:"institution"`
	Degree       string    `json:"degree,omitempty"`
	FieldOfStudy string    `json:"fieldOfStudy,omitempty"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate,omitempty"`
	Present      bool      `json:"present"`
	Description  string    `json:"description,omitempty"`
	Courses      []string  `json:"courses,omitempty"`
	Achievements []string  `json:"achievements,omitempty"`
	Grade        string    `json:"grade,omitempty"`
	Location     string    `json:"location,omitempty"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (e *Education) Validate() error {
	return requireFields(map[string]string{"institution": e.Institution})
}

// Extracurricular is a club, team or activity outside coursework.
type Extracurricular struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Organization string    `json:"organization,omitempty"`
	Description  string    `json:"description"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate,omitempty"`
	Present      bool      `json:"present"`
	Role         string    `json:"role,omitempty"`
	Achievements []string  `json:"achievements,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (e *Extracurricular) Validate() error {
	return requireFields(map[string]string{"title": e.Title})
}

// Year accepts both 2023 and "2023" from storage and always renders as a string.
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or number: %w", err)
	}
	*y = Year(n.String())
	return nil
}

// Page is everything the client needs to render the site in one response.
type Page struct {
	Profile          *Profile          `json:"profile"`
	Projects         []Project         `json:"projects"`
	Achievements     []Achievement     `json:"achievements"`
	Education        []Education       `json:"education"`
	Extracurriculars []Extracurricular `json:"extracurriculars"`
	MigrationOffered bool              `json:"migrationOffered"`
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}
