package redemption

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/cardlink/pkg/common"
	"github.com/richxcame/cardlink/pkg/logger"
	"github.com/richxcame/cardlink/pkg/models"
)

// Service implements the redemption state machine
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new redemption service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Redeem resolves a (card, code) pair and, when the code is still unused,
// performs the single unused-to-expired transition. Under concurrent calls
// for the same pair exactly one caller gets OutcomeFirstScan; the rest get
// OutcomeAlreadyExpired.
func (s *Service) Redeem(ctx context.Context, cardID, codeID uuid.UUID) (*Result, error) {
	row, err := s.repo.LookupScan(ctx, cardID, codeID)
	if err != nil {
		return nil, common.NewInternalError("processing error", err)
	}
	if row == nil {
		return &Result{Outcome: models.OutcomeCardNotFound}, nil
	}

	card := row.Card

	if !row.CodeOwned {
		return &Result{Outcome: models.OutcomeCodeInvalid, Card: &card}, nil
	}
	if row.CodeExpired {
		return &Result{Outcome: models.OutcomeAlreadyExpired, Card: &card}, nil
	}

	expired, err := s.repo.ExpireCode(ctx, cardID, codeID)
	if err != nil {
		return nil, common.NewInternalError("processing error", err)
	}
	if !expired.Expired {
		// Another scan won the race between our read and our write
		return &Result{Outcome: models.OutcomeAlreadyExpired, Card: &card}, nil
	}

	card.ScanCount = expired.ScanCount

	logger.Info("code redeemed",
		zap.String("card_id", cardID.String()),
		zap.String("code_id", codeID.String()),
		zap.Int("scan_count", expired.ScanCount),
	)

	return &Result{Outcome: models.OutcomeFirstScan, Card: &card}, nil
}

// View returns the card's current display attributes without any mutation
func (s *Service) View(ctx context.Context, cardID uuid.UUID) (*Result, error) {
	card, err := s.repo.GetCard(ctx, cardID)
	if err != nil {
		return nil, common.NewInternalError("processing error", err)
	}
	if card == nil {
		return &Result{Outcome: models.OutcomeCardNotFound}, nil
	}

	return &Result{Outcome: models.OutcomeView, Card: card}, nil
}
