// Package server is the composition root: it opens the database, builds the
// services and handlers, and mounts them on a chi router.
//
// ROUTES:
//
//	GET  /.well-known/admin-panel-verification.txt  verification file
//	POST /api/contact                               contact relay
//	GET  /api/page?featured=                        all content + migration offer
//	GET  /api/profile | projects | achievements | education | extracurriculars
//	GET  /api/me                                    current viewer
//	GET  /api/migration/status                      (signed in)
//	POST /api/migration?force=                      (signed in)
//	GET  /auth/github/login, /auth/github/callback
//	POST /auth/login, /auth/logout
//	GET  /*                                         single-page app
//
// Auth routes and the migration API exist only when JWT_SECRET is set.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/afero"

	"github.com/sakif/portfolio/internal/auth"
	"github.com/sakif/portfolio/internal/config"
	"github.com/sakif/portfolio/internal/handler"
	"github.com/sakif/portfolio/internal/mail"
	"github.com/sakif/portfolio/internal/middleware"
	sqliteRepo "github.com/sakif/portfolio/internal/repository/sqlite"
	"github.com/sakif/portfolio/internal/service"
)

// Deps are the outside-world collaborators a caller may replace. Nil fields
// get production defaults: an unconfigured mailer and the OS filesystem.
type Deps struct {
	Mailer service.Mailer
	FS     afero.Fs
}

// Server owns the router and the database connection.
type Server struct {
	router chi.Router
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and wires every route.
func New(cfg *config.Config, logger *slog.Logger, deps Deps) (*Server, error) {
	if deps.Mailer == nil {
		deps.Mailer = mail.Unconfigured{}
	}
	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(deps); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes(deps Deps) error {
	r := s.router

	// Order matters: the request id must exist before Logger reads it, and
	// Recoverer sits inside Logger so a panic is still logged as a 500.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)

	// === Services ===
	contentService := service.NewContentService(s.db, s.logger)
	migrationService := service.NewMigrationService(s.db, s.logger)
	contactService := service.NewContactService(deps.Mailer, s.logger)

	contentHandler := handler.NewContentHandler(contentService)
	migrationHandler := handler.NewMigrationHandler(contentService, migrationService, s.logger)
	contactHandler := handler.NewContactHandler(contactService, s.cfg.IsDevelopment(), s.logger)
	verificationHandler := handler.NewVerificationHandler(deps.FS, s.cfg.WellKnownDir, s.logger)

	// === Auth (optional) ===
	var (
		tokens      *auth.TokenService
		authHandler *handler.AuthHandler
	)
	if s.cfg.AuthEnabled() {
		var err error
		tokens, err = auth.NewTokenService(s.cfg.Auth.JWTSecret)
		if err != nil {
			return err
		}

		if hash := s.cfg.Auth.OwnerPasswordHash; hash != "" {
			if err := auth.CheckHash(hash); err != nil {
				return fmt.Errorf("OWNER_PASSWORD_HASH: %w", err)
			}
		}

		authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), service.OwnerCredentials{
			Email:        s.cfg.Auth.OwnerEmail,
			PasswordHash: s.cfg.Auth.OwnerPasswordHash,
		}, s.logger)

		var github *auth.GitHubProvider
		if s.cfg.GitHubEnabled() {
			github = auth.NewGitHubProvider(s.cfg.Auth.GitHubClientID, s.cfg.Auth.GitHubClientSecret, s.cfg.Auth.GitHubCallbackURL)
		}
		authHandler = handler.NewAuthHandler(github, authService, s.cfg.SecureCookies(), s.logger)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
			r.Post("/login", authHandler.HandlePasswordLogin)
			r.Post("/logout", authHandler.HandleLogout)
		})
	} else {
		s.logger.Warn("JWT_SECRET not set: sign-in and migration are disabled")
	}

	r.Get("/.well-known/"+handler.VerificationFile, verificationHandler.HandleVerification)

	// === API ===
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Post("/contact", contactHandler.HandleContact)

		r.Group(func(r chi.Router) {
			if tokens != nil {
				r.Use(auth.OptionalAuth(tokens))
			}
			r.Get("/page", contentHandler.HandlePage)
			r.Get("/profile", contentHandler.HandleProfile)
			r.Get("/projects", contentHandler.HandleProjects)
			r.Get("/achievements", contentHandler.HandleAchievements)
			r.Get("/education", contentHandler.HandleEducation)
			r.Get("/extracurriculars", contentHandler.HandleExtracurriculars)

			if authHandler != nil {
				r.Get("/me", authHandler.HandleMe)
			} else {
				r.Get("/me", handler.HandleAnonymousMe)
			}
		})

		if tokens != nil {
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(tokens))
				r.Get("/migration/status", migrationHandler.HandleStatus)
				r.Post("/migration", migrationHandler.HandleRun)
			})
		}
	})

	// === Single-page app ===
	r.Handle("/*", spaHandler(deps.FS, s.cfg.StaticDir))

	return nil
}

// spaHandler serves the built frontend from dir. Paths that are not files
// (client-side routes like /projects) get index.html.
func spaHandler(fsys afero.Fs, dir string) http.Handler {
	root := afero.NewBasePathFs(fsys, dir)
	files := http.FileServer(afero.NewHttpFs(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if info, err := root.Stat(path.Clean(r.URL.Path)); err != nil || info.IsDir() {
			r.URL.Path = "/"
		}
		files.ServeHTTP(w, r)
	})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully: stop
// accepting connections, let in-flight requests finish within
// ShutdownTimeout, close the database.
func (s *Server) Run(ctx context.Context) error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// contact mail is sent inside the request
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	}
}
