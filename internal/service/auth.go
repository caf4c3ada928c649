package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/auth"
	"github.com/sakif/portfolio/internal/model"
	"github.com/sakif/portfolio/internal/repository"
)

// OwnerCredentials is the single email/password account allowed to sign in
// without GitHub. An empty PasswordHash disables password sign-in.
type OwnerCredentials struct {
	Email        string
	PasswordHash string
}

// AuthService turns a verified identity into a stored user plus a session
// token.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                                 ↘ TokenService (JWT)
//
// The user's internal ID is what scopes their content
// ("users/{id}/content/..."), so every sign-in path funnels through
// users.Upsert to keep that ID stable across logins.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	owner     OwnerCredentials
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	owner OwnerCredentials,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		owner:     owner,
		logger:    logger,
	}
}

// AuthResult bundles the stored user with the session token issued for it.
type AuthResult struct {
	User  *model.User
	Token string
}

// LoginOrRegisterGitHub upserts the GitHub identity and issues a session.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, errors.New("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		Provider:   model.ProviderGitHub,
		ProviderID: ghUser.ProviderID(),
		Login:      ghUser.Login,
		Email:      ghUser.Email,
		AvatarURL:  ghUser.AvatarURL,
	}
	return s.signIn(ctx, user)
}

// LoginWithPassword checks email and password against the owner credentials.
// Any mismatch, including a disabled password login, is reported as the same
// Unauthorized error so callers cannot probe which part was wrong.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	invalid := apperror.Unauthorized("Invalid email or password")

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "Email and password are required")
	}
	if s.owner.PasswordHash == "" || !strings.EqualFold(email, s.owner.Email) {
		return nil, invalid
	}

	if err := s.passwords.Verify(s.owner.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("owner password hash is unusable", slog.String("error", err.Error()))
		}
		return nil, invalid
	}

	user := &model.User{
		Provider:   model.ProviderPassword,
		ProviderID: strings.ToLower(s.owner.Email),
		Login:      s.owner.Email,
		Email:      s.owner.Email,
	}
	return s.signIn(ctx, user)
}

func (s *AuthService) signIn(ctx context.Context, user *model.User) (*AuthResult, error) {
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting %s user %s: %w", user.Provider, user.ProviderID, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("provider", user.Provider),
		slog.String("login", user.Login),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the stored user for an internal ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.InvalidArgument("userId", "user ID must not be empty")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}
