package cards

import (
	"context"

	"github.com/google/uuid"

	"github.com/richxcame/cardlink/pkg/models"
)

// RepositoryInterface defines the interface for card repository operations
type RepositoryInterface interface {
	CreateCard(ctx context.Context, card *models.BusinessCard) error
	GetCard(ctx context.Context, id uuid.UUID) (*models.BusinessCard, error)
	ListCards(ctx context.Context, search string, limit, offset int) ([]*models.CardSummary, int64, error)
	DeleteCard(ctx context.Context, id uuid.UUID) (deletedCodes int64, found bool, err error)
	InsertCodes(ctx context.Context, codes []*models.QRCode) error
	Stats(ctx context.Context) (*models.Stats, error)
}
