package userrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/video-summarizer/internal/domain/account"
)

// PostgresRepository reads accounts and credit balances from Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (account.User, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, email, credits
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return account.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return account.User{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return account.User{}, false, err
	}
	return user, true, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (account.User, error) {
	var user account.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Credits); err != nil {
		return account.User{}, err
	}
	return user, nil
}

var _ account.Repository = (*PostgresRepository)(nil)
