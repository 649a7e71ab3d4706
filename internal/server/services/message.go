package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/socialmedia/internal/common"
	"github.com/dmitrijs2005/socialmedia/internal/dbx"
	"github.com/dmitrijs2005/socialmedia/internal/server/config"
	"github.com/dmitrijs2005/socialmedia/internal/server/models"
	"github.com/dmitrijs2005/socialmedia/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// AuthorChecker reports whether an account id exists. AccountService
// satisfies it.
type AuthorChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// DeleteResult is the outcome of MessageService.Delete. Message holds the
// removed row, or nil when there was nothing to delete.
type DeleteResult struct {
	Message *models.Message
}

func (r DeleteResult) Deleted() bool {
	return r.Message != nil
}

type MessageService struct {
	db                  *sql.DB
	repomanager         repomanager.RepositoryManager
	authors             AuthorChecker
	validate            *validator.Validate
	refreshTimeOnUpdate bool
	now                 func() time.Time
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, authors AuthorChecker, cfg *config.Config) *MessageService {
	return &MessageService{
		db:                  db,
		repomanager:         m,
		authors:             authors,
		validate:            newValidator(),
		refreshTimeOnUpdate: cfg.RefreshTimeOnUpdate,
		now:                 time.Now,
	}
}

func (s *MessageService) checkText(text string) error {
	if err := s.validate.Var(text, messageTextRule); err != nil {
		return rejectionFor(err, nil, common.ReasonInvalidMessageText)
	}
	return nil
}

// Create stores a message from an existing author. time_posted_epoch is set
// to the current time unless the candidate carries one.
func (s *MessageService) Create(ctx context.Context, candidate *models.Message) (*models.Message, error) {
	if err := s.checkText(candidate.MessageText); err != nil {
		return nil, err
	}

	ok, err := s.authors.ExistsByID(ctx, candidate.PostedBy)
	if err != nil {
		return nil, fmt.Errorf("error checking author: %w", err)
	}
	if !ok {
		return nil, common.Reject(common.ReasonUnknownAuthor)
	}

	m := models.Message{
		PostedBy:        candidate.PostedBy,
		MessageText:     candidate.MessageText,
		TimePostedEpoch: candidate.TimePostedEpoch,
	}
	if m.TimePostedEpoch == 0 {
		m.TimePostedEpoch = s.now().Unix()
	}

	created, err := s.repomanager.Messages(s.db).Create(ctx, &m)
	if err != nil {
		// the author may have vanished after the check
		if common.IsForeignKeyViolation(err) {
			return nil, common.Reject(common.ReasonUnknownAuthor)
		}
		return nil, fmt.Errorf("error creating message: %w", err)
	}
	return created, nil
}

// GetByID returns common.ErrorNotFound when there is no such message.
func (s *MessageService) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	return s.repomanager.Messages(s.db).GetByID(ctx, id)
}

func (s *MessageService) List(ctx context.Context) ([]*models.Message, error) {
	return s.repomanager.Messages(s.db).List(ctx)
}

// ListByAuthor returns an empty slice for an author without messages, including
// one that does not exist.
func (s *MessageService) ListByAuthor(ctx context.Context, accountID int64) ([]*models.Message, error) {
	return s.repomanager.Messages(s.db).ListByAuthor(ctx, accountID)
}

// UpdateText replaces the text of message id and returns the updated message.
// Invalid text and unknown ids yield a *common.Rejection and leave the stored
// row untouched.
func (s *MessageService) UpdateText(ctx context.Context, id int64, text string) (*models.Message, error) {
	if err := s.checkText(text); err != nil {
		return nil, err
	}

	var updated *models.Message
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Messages(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.Reject(common.ReasonMessageNotFound)
			}
			return fmt.Errorf("error fetching message: %w", err)
		}

		next := *current
		next.MessageText = text
		if s.refreshTimeOnUpdate {
			next.TimePostedEpoch = s.now().Unix()
		}

		ok, err := repo.Update(ctx, &next)
		if err != nil {
			return fmt.Errorf("error updating message: %w", err)
		}
		if !ok {
			return common.Reject(common.ReasonMessageNotFound)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes message id. Deleting a missing id is not an error: the
// result simply carries no message.
func (s *MessageService) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	var result DeleteResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Messages(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return fmt.Errorf("error fetching message: %w", err)
		}

		ok, err := repo.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("error deleting message: %w", err)
		}
		if ok {
			result.Message = current
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}
