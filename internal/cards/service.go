package cards

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/cardlink/pkg/common"
	"github.com/richxcame/cardlink/pkg/logger"
	"github.com/richxcame/cardlink/pkg/models"
)

// MaxInteractiveCodes caps single-request code generation. Larger runs go
// through the bulk provisioning CLI.
const MaxInteractiveCodes = 100

// Service implements the admin card and code operations
type Service struct {
	repo    RepositoryInterface
	baseURL string
}

// NewService creates a new cards service. baseURL is the public origin
// embedded into redemption payloads.
func NewService(repo RepositoryInterface, baseURL string) *Service {
	return &Service{repo: repo, baseURL: strings.TrimRight(baseURL, "/")}
}

// CreateCard creates a new business card
func (s *Service) CreateCard(ctx context.Context, req *CreateCardRequest) (*models.BusinessCard, error) {
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		return nil, common.NewBadRequestError("company name is required", nil)
	}

	card := &models.BusinessCard{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		CompanyName: company,
		Phone:       strings.TrimSpace(req.Phone),
	}

	if err := s.repo.CreateCard(ctx, card); err != nil {
		return nil, common.NewInternalError("failed to create card", err)
	}

	logger.Info("card created",
		zap.String("card_id", card.ID.String()),
		zap.String("company_name", card.CompanyName),
	)

	return card, nil
}

// ListCards returns cards matching the optional company name search
func (s *Service) ListCards(ctx context.Context, search string, limit, offset int) ([]*models.CardSummary, int64, error) {
	cards, total, err := s.repo.ListCards(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list cards", err)
	}
	return cards, total, nil
}

// DeleteCard removes a card and all of its codes, reporting the code count
func (s *Service) DeleteCard(ctx context.Context, id uuid.UUID) (int64, error) {
	deleted, found, err := s.repo.DeleteCard(ctx, id)
	if err != nil {
		return 0, common.NewInternalError("failed to delete card", err)
	}
	if !found {
		return 0, common.NewNotFoundError("card not found", nil)
	}

	logger.Info("card deleted",
		zap.String("card_id", id.String()),
		zap.Int64("deleted_codes", deleted),
	)

	return deleted, nil
}

// GenerateCodes mints quantity new single-use codes for the card
func (s *Service) GenerateCodes(ctx context.Context, cardID uuid.UUID, quantity int) ([]models.GeneratedCode, error) {
	if quantity < 1 || quantity > MaxInteractiveCodes {
		return nil, common.NewBadRequestError("quantity must be between 1 and 100", nil)
	}

	card, err := s.repo.GetCard(ctx, cardID)
	if err != nil {
		return nil, common.NewInternalError("failed to get card", err)
	}
	if card == nil {
		return nil, common.NewNotFoundError("card not found", nil)
	}

	codes := make([]*models.QRCode, 0, quantity)
	generated := make([]models.GeneratedCode, 0, quantity)
	for i := 0; i < quantity; i++ {
		id := uuid.New()
		ownerID := cardID
		code := &models.QRCode{
			ID:             id,
			CodeData:       models.RedemptionURL(s.baseURL, cardID, id),
			BusinessCardID: &ownerID,
		}
		codes = append(codes, code)
		generated = append(generated, models.GeneratedCode{ID: id, CodeData: code.CodeData})
	}

	if err := s.repo.InsertCodes(ctx, codes); err != nil {
		return nil, common.NewInternalError("failed to insert codes", err)
	}

	logger.Info("codes generated",
		zap.String("card_id", cardID.String()),
		zap.Int("quantity", quantity),
	)

	return generated, nil
}

// Stats returns aggregate counts over cards and codes
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to get stats", err)
	}
	return stats, nil
}
