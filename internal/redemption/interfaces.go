package redemption

import (
	"context"

	"github.com/google/uuid"

	"github.com/richxcame/cardlink/pkg/models"
)

// RepositoryInterface defines the interface for redemption repository operations
type RepositoryInterface interface {
	LookupScan(ctx context.Context, cardID, codeID uuid.UUID) (*ScanRow, error)
	ExpireCode(ctx context.Context, cardID, codeID uuid.UUID) (*ExpireResult, error)
	GetCard(ctx context.Context, cardID uuid.UUID) (*models.BusinessCard, error)
}
