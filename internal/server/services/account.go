// Package services contains the server-side domain logic. AccountService
// enforces the account rules (non-empty unique username, password of at least
// four characters) and verifies logins; MessageService enforces message rules
// and exposes message CRUD.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socialmedia/internal/common"
	"github.com/dmitrijs2005/socialmedia/internal/server/models"
	"github.com/dmitrijs2005/socialmedia/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// AccountService registers accounts and checks credentials.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		validate:    newValidator(),
	}
}

// Register creates the candidate account and returns it with its assigned id.
//
// An invalid username or password, or a username that is already taken, yields
// a *common.Rejection. The existence check only short-circuits the common case;
// the unique constraint on account.username is what finally decides.
func (s *AccountService) Register(ctx context.Context, candidate *models.Account) (*models.Account, error) {
	if err := s.validate.Struct(credentials{Username: candidate.Username, Password: candidate.Password}); err != nil {
		return nil, rejectionFor(err, credentialReasons, common.ReasonMalformedRequest)
	}

	repo := s.repomanager.Accounts(s.db)

	taken, err := repo.ExistsByUsername(ctx, candidate.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return nil, common.Reject(common.ReasonUsernameTaken)
	}

	account, err := repo.Create(ctx, &models.Account{Username: candidate.Username, Password: candidate.Password})
	if err != nil {
		if common.IsUniqueViolation(err) {
			return nil, common.Reject(common.ReasonUsernameTaken)
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account, nil
}

// Login returns the account whose username and password both match exactly.
// Any mismatch yields common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error fetching account: %w", err)
	}

	if !s.checkPassword(account.Password, password) {
		return nil, common.ErrorUnauthorized
	}
	return account, nil
}

func (s *AccountService) checkPassword(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

func (s *AccountService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.repomanager.Accounts(s.db).ExistsByUsername(ctx, username)
}

func (s *AccountService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return s.repomanager.Accounts(s.db).ExistsByID(ctx, id)
}
