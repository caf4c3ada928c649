package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor for the owner password hash
// (~250ms per comparison on a small VM).
const DefaultCost = 12

// maxPasswordBytes is where bcrypt silently truncates its input.
const maxPasswordBytes = 72

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService hashes and checks the owner password with bcrypt.
//
// The portfolio has a single owner account whose hash lives in the
// OWNER_PASSWORD_HASH setting; `portfolio-admin hash-password` produces it.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with DefaultCost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: DefaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Tests use bcrypt.MinCost (4) to keep hashing fast.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of plaintext, salt and cost included
// ("$2a$12$...").
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// CheckHash reports whether hash is a bcrypt hash Verify can use, so a
// mistyped OWNER_PASSWORD_HASH fails at startup instead of at every login.
func CheckHash(hash string) error {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return fmt.Errorf("auth: not a bcrypt hash: %w", err)
	}
	if cost < DefaultCost {
		slog.Warn("owner password hash uses a low bcrypt cost", slog.Int("cost", cost))
	}
	return nil
}

// Verify returns nil when plaintext matches hash and ErrPasswordMismatch when
// it does not. The comparison runs in constant time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
}
