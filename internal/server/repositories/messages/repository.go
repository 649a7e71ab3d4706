package messages

import (
	"context"

	"github.com/dmitrijs2005/socialmedia/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, message *models.Message) (*models.Message, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	List(ctx context.Context) ([]*models.Message, error)
	ListByAuthor(ctx context.Context, accountID int64) ([]*models.Message, error)
	Update(ctx context.Context, message *models.Message) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
