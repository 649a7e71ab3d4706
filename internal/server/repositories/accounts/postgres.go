// Package accounts provides the PostgreSQL-backed repository for accounts.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/socialmedia/internal/common"
	"github.com/dmitrijs2005/socialmedia/internal/dbx"
	"github.com/dmitrijs2005/socialmedia/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// Every call is bounded by timeout when it is positive.
type PostgresRepository struct {
	db      dbx.DBTX
	timeout time.Duration
}

func NewPostgresRepository(db dbx.DBTX, timeout time.Duration) *PostgresRepository {
	return &PostgresRepository{db: db, timeout: timeout}
}

// Create inserts the account and returns a new entity carrying the generated id.
// The input is not modified.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	query :=
		`INSERT INTO account (username, password)
		 VALUES ($1, $2)
		 RETURNING account_id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, account.Username, account.Password).Scan(&id); err != nil {
		return nil, dbx.StorageError("accounts.create", err)
	}

	return &models.Account{ID: id, Username: account.Username, Password: account.Password}, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT account_id, username, password FROM account
		 WHERE account_id = $1
		 `
	return r.getOne(ctx, "accounts.get_by_id", query, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT account_id, username, password FROM account
		 WHERE username = $1
		 `
	return r.getOne(ctx, "accounts.get_by_username", query, username)
}

// List returns all accounts ordered by id; the slice is empty, never nil, when
// there are none.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT account_id, username, password FROM account ORDER BY account_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.StorageError("accounts.list", err)
	}
	defer rows.Close()

	result := make([]*models.Account, 0)
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Password); err != nil {
			return nil, dbx.StorageError("accounts.list", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StorageError("accounts.list", err)
	}
	return result, nil
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM account WHERE username = $1)`
	return r.exists(ctx, "accounts.exists_by_username", query, username)
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM account WHERE account_id = $1)`
	return r.exists(ctx, "accounts.exists_by_id", query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, op, query string, arg any) (*models.Account, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Username, &a.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.StorageError(op, err)
	}
	return a, nil
}

func (r *PostgresRepository) exists(ctx context.Context, op, query string, arg any) (bool, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, dbx.StorageError(op, err)
	}
	return found, nil
}
