package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/socialmedia/internal/common"
	"github.com/dmitrijs2005/socialmedia/internal/dbx"
	"github.com/dmitrijs2005/socialmedia/internal/server/models"
	"github.com/dmitrijs2005/socialmedia/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/socialmedia/internal/server/repositories/messages"
)

// --- helpers ---

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeAccountsRepo is an in-memory accounts.Repository with error injection.
type fakeAccountsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Account

	createErr error
	getErr    error
	existsErr error
	// reports "not taken" even when the username exists, to simulate a lost race
	blindExists bool
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{rows: map[int64]models.Account{}}
}

func (f *fakeAccountsRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, r := range f.rows {
		if r.Username == a.Username {
			return nil, &common.StorageError{Op: "accounts.create", Kind: common.KindConstraintViolation, Code: common.CodeUniqueViolation, Err: errBoom}
		}
	}
	f.nextID++
	row := models.Account{ID: f.nextID, Username: a.Username, Password: a.Password}
	f.rows[row.ID] = row
	return &row, nil
}

func (f *fakeAccountsRepo) GetByID(_ context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (f *fakeAccountsRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, r := range f.rows {
		if r.Username == username {
			return &r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) List(context.Context) ([]*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Account, 0, len(f.rows))
	for _, r := range f.rows {
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAccountsRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.blindExists {
		return false, nil
	}
	for _, r := range f.rows {
		if r.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountsRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.rows[id]
	return ok, nil
}

// fakeMessagesRepo is an in-memory messages.Repository with error injection.
type fakeMessagesRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Message

	createErr error
	getErr    error
	updateErr error
	deleteErr error
	// makes Update/Delete report zero affected rows
	vanish bool

	updates int
	deletes int
}

func newFakeMessagesRepo() *fakeMessagesRepo {
	return &fakeMessagesRepo{rows: map[int64]models.Message{}}
}

func (f *fakeMessagesRepo) put(m models.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID > f.nextID {
		f.nextID = m.ID
	}
	f.rows[m.ID] = m
}

func (f *fakeMessagesRepo) Create(_ context.Context, m *models.Message) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	row := *m
	row.ID = f.nextID
	f.rows[row.ID] = row
	return &row, nil
}

func (f *fakeMessagesRepo) GetByID(_ context.Context, id int64) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (f *fakeMessagesRepo) List(ctx context.Context) ([]*models.Message, error) {
	return f.filter(func(models.Message) bool { return true }), nil
}

func (f *fakeMessagesRepo) ListByAuthor(ctx context.Context, accountID int64) ([]*models.Message, error) {
	return f.filter(func(m models.Message) bool { return m.PostedBy == accountID }), nil
}

func (f *fakeMessagesRepo) filter(keep func(models.Message) bool) []*models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Message, 0)
	for _, r := range f.rows {
		if keep(r) {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeMessagesRepo) Update(_ context.Context, m *models.Message) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return false, f.updateErr
	}
	if _, ok := f.rows[m.ID]; !ok || f.vanish {
		return false, nil
	}
	f.rows[m.ID] = *m
	return true, nil
}

func (f *fakeMessagesRepo) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	if _, ok := f.rows[id]; !ok || f.vanish {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	m *fakeMessagesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository    { return m.a }
func (m *fakeRepoManager) Messages(db dbx.DBTX) messages.Repository    { return m.m }

type fakeAuthors struct {
	ids map[int64]bool
	err error
}

func (f fakeAuthors) ExistsByID(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.ids[id], nil
}
