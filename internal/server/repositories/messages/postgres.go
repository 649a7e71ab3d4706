// Package messages provides the PostgreSQL-backed repository for messages.
package messages

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
type PostgresRepository struct {
	db      dbx.DBTX
	timeout time.Duration
}

// NewPostgresRepository constructs a repository bound to the given DBTX. Each
// statement is bounded by timeout when it is positive.
func NewPostgresRepository(db dbx.DBTX, timeout time.Duration) *PostgresRepository {
	return &PostgresRepository{db: db, timeout: timeout}
}

// Create inserts the message and returns a new entity carrying the generated id.
func (r *PostgresRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	query :=
		`INSERT INTO message (posted_by, message_text, time_posted_epoch)
		 VALUES ($1, $2, $3)
		 RETURNING message_id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		message.PostedBy, message.MessageText, message.TimePostedEpoch).Scan(&id)
	if err != nil {
		return nil, dbx.StorageError("messages.create", err)
	}

	created := *message
	created.ID = id
	return &created, nil
}

// GetByID returns common.ErrorNotFound when no row has the id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	query :=
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message
		 WHERE message_id = $1
		 `

	m := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.PostedBy, &m.MessageText, &m.TimePostedEpoch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.StorageError("messages.get_by_id", err)
	}
	return m, nil
}

// List returns every message in insertion (id) order.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Message, error) {
	query :=
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message
		 ORDER BY message_id
		 `
	return r.selectMany(ctx, "messages.list", query)
}

// ListByAuthor returns the messages posted by accountID in id order. An
// unknown author simply has no messages.
func (r *PostgresRepository) ListByAuthor(ctx context.Context, accountID int64) ([]*models.Message, error) {
	query :=
		`SELECT message_id, posted_by, message_text, time_posted_epoch FROM message
		 WHERE posted_by = $1
		 ORDER BY message_id
		 `
	return r.selectMany(ctx, "messages.list_by_author", query, accountID)
}

// Update rewrites the mutable fields (text and time) of the row with the
// message's id. It reports whether exactly one row changed; zero rows is not
// an error.
func (r *PostgresRepository) Update(ctx context.Context, message *models.Message) (bool, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	query :=
		`UPDATE message SET message_text = $1, time_posted_epoch = $2
		 WHERE message_id = $3
		 `
	res, err := r.db.ExecContext(ctx, query, message.MessageText, message.TimePostedEpoch, message.ID)
	if err != nil {
		return false, dbx.StorageError("messages.update", err)
	}
	return exactlyOne("messages.update", res)
}

// Delete removes the row with id and reports whether exactly one row was removed.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `DELETE FROM message WHERE message_id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, dbx.StorageError("messages.delete", err)
	}
	return exactlyOne("messages.delete", res)
}

func (r *PostgresRepository) selectMany(ctx context.Context, op, query string, args ...any) ([]*models.Message, error) {
	ctx, cancel := dbx.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.StorageError(op, err)
	}
	defer rows.Close()

	result := make([]*models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.PostedBy, &m.MessageText, &m.TimePostedEpoch); err != nil {
			return nil, dbx.StorageError(op, err)
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StorageError(op, err)
	}
	return result, nil
}

func exactlyOne(op string, res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.StorageError(op, err)
	}
	return n == 1, nil
}
