package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/model"
	"github.com/sakif/portfolio/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, provider, provider_id, login, email, avatar_url, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Provider, &u.ProviderID, &u.Login, &u.Email, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert stores user under its (Provider, ProviderID) identity. A returning
// user keeps the internal ID it was first given, since that ID names their
// content scope; only login, email and avatar are refreshed. user is
// overwritten with the stored row.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()

	var id string
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, provider_id) DO UPDATE SET
			login      = excluded.login,
			email      = excluded.email,
			avatar_url = excluded.avatar_url,
			updated_at = excluded.updated_at
		RETURNING id`,
		xid.New().String(), user.Provider, user.ProviderID,
		user.Login, user.Email, user.AvatarURL, now, now,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user %s/%s: %w", user.Provider, user.ProviderID, err)
	}

	// read back through the table so created_at keeps its DATETIME decoding
	stored, err := db.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

// GetUserByID returns apperror.ErrNotFound for an unknown id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, apperror.NotFound("user", id)
	case err != nil:
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// ListUsers returns every account, oldest first. The admin CLI uses it to
// look up the id to seed content for.
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
