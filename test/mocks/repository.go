package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/richxcame/cardlink/internal/redemption"
	"github.com/richxcame/cardlink/pkg/models"
)

// MockCardRepository is a mock implementation of the cards repository
type MockCardRepository struct {
	mock.Mock
}

// CreateCard mocks creating a business card
func (m *MockCardRepository) CreateCard(ctx context.Context, card *models.BusinessCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// GetCard mocks retrieving a card by ID
func (m *MockCardRepository) GetCard(ctx context.Context, id uuid.UUID) (*models.BusinessCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessCard), args.Error(1)
}

// ListCards mocks listing cards with search and pagination
func (m *MockCardRepository) ListCards(ctx context.Context, search string, limit, offset int) ([]*models.CardSummary, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.CardSummary), args.Get(1).(int64), args.Error(2)
}

// DeleteCard mocks deleting a card and its codes
func (m *MockCardRepository) DeleteCard(ctx context.Context, id uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// InsertCodes mocks the interactive multi-row code insert
func (m *MockCardRepository) InsertCodes(ctx context.Context, codes []*models.QRCode) error {
	args := m.Called(ctx, codes)
	return args.Error(0)
}

// Stats mocks the aggregate counts query
func (m *MockCardRepository) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

// MockScanRepository is a mock implementation of the redemption repository
type MockScanRepository struct {
	mock.Mock
}

// LookupScan mocks the single round trip card/code resolution
func (m *MockScanRepository) LookupScan(ctx context.Context, cardID, codeID uuid.UUID) (*redemption.ScanRow, error) {
	args := m.Called(ctx, cardID, codeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redemption.ScanRow), args.Error(1)
}

// ExpireCode mocks the conditioned unused-to-expired transition
func (m *MockScanRepository) ExpireCode(ctx context.Context, cardID, codeID uuid.UUID) (*redemption.ExpireResult, error) {
	args := m.Called(ctx, cardID, codeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redemption.ExpireResult), args.Error(1)
}

// GetCard mocks the code-less view lookup
func (m *MockScanRepository) GetCard(ctx context.Context, cardID uuid.UUID) (*models.BusinessCard, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessCard), args.Error(1)
}

// MockBulkRepository is a mock implementation of the bulkgen repository
type MockBulkRepository struct {
	mock.Mock
}

// GetCard mocks retrieving a card by ID
func (m *MockBulkRepository) GetCard(ctx context.Context, id uuid.UUID) (*models.BusinessCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessCard), args.Error(1)
}

// CopyCodes mocks the COPY-protocol batch insert
func (m *MockBulkRepository) CopyCodes(ctx context.Context, codes []*models.QRCode) (int64, error) {
	args := m.Called(ctx, codes)
	return args.Get(0).(int64), args.Error(1)
}
