package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/cardlink/internal/cards"
	"github.com/richxcame/cardlink/internal/redemption"
	"github.com/richxcame/cardlink/pkg/models"
	"github.com/richxcame/cardlink/test/mocks"
)

const baseURL = "http://localhost:8080"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupRouter(cardRepo *mocks.MockCardRepository, scanRepo *mocks.MockScanRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	cardHandler := cards.NewHandler(cards.NewService(cardRepo, baseURL))
	scanHandler := redemption.NewHandler(redemption.NewService(scanRepo))

	router.POST("/cards", cardHandler.CreateCard)
	router.GET("/cards", cardHandler.ListCards)
	router.DELETE("/cards/:id", cardHandler.DeleteCard)
	router.POST("/cards/:id/codes", cardHandler.GenerateCodes)
	router.GET("/stats", cardHandler.Stats)
	router.GET("/card/:card_id", scanHandler.Scan)

	return router
}

func doRequest(router *gin.Engine, method, path string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestScanFlow_GenerateThenRedeemOverHTTP(t *testing.T) {
	cardRepo := new(mocks.MockCardRepository)
	scanRepo := new(mocks.MockScanRepository)
	router := setupRouter(cardRepo, scanRepo)

	card := models.BusinessCard{ID: uuid.New(), CompanyName: "Acme"}

	// Create the card
	cardRepo.On("CreateCard", mock.Anything, mock.Anything).Return(nil)
	w, env := doRequest(router, http.MethodPost, "/cards", gin.H{"company_name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	// Generate 3 codes for it
	cardRepo.On("GetCard", mock.Anything, card.ID).Return(&card, nil)
	cardRepo.On("InsertCodes", mock.Anything, mock.Anything).Return(nil)
	w, env = doRequest(router, http.MethodPost, fmt.Sprintf("/cards/%s/codes", card.ID), gin.H{"quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	var generated cards.GenerateCodesResponse
	require.NoError(t, json.Unmarshal(env.Data, &generated))
	require.Len(t, generated.Codes, 3)

	codeID := generated.Codes[0].ID

	// First scan wins the transition
	scanRepo.On("LookupScan", mock.Anything, card.ID, codeID).
		Return(&redemption.ScanRow{Card: card, CodeOwned: true}, nil).Once()
	scanRepo.On("ExpireCode", mock.Anything, card.ID, codeID).
		Return(&redemption.ExpireResult{Expired: true, ScanCount: 1}, nil).Once()

	w, env = doRequest(router, http.MethodGet, fmt.Sprintf("/card/%s?code=%s", card.ID, codeID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var scan redemption.ScanResponse
	require.NoError(t, json.Unmarshal(env.Data, &scan))
	assert.Equal(t, models.OutcomeFirstScan, scan.Outcome)
	require.NotNil(t, scan.Card)
	assert.Equal(t, 1, scan.Card.ScanCount)

	// Replay takes the fast path
	expiredCard := card
	expiredCard.ScanCount = 1
	scanRepo.On("LookupScan", mock.Anything, card.ID, codeID).
		Return(&redemption.ScanRow{Card: expiredCard, CodeOwned: true, CodeExpired: true}, nil).Once()

	w, env = doRequest(router, http.MethodGet, fmt.Sprintf("/card/%s?code=%s", card.ID, codeID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &scan))
	assert.Equal(t, models.OutcomeAlreadyExpired, scan.Outcome)
	assert.Equal(t, 1, scan.Card.ScanCount)

	scanRepo.AssertExpectations(t)
	cardRepo.AssertExpectations(t)
}

func TestScanFlow_DeleteCardThenScan(t *testing.T) {
	cardRepo := new(mocks.MockCardRepository)
	scanRepo := new(mocks.MockScanRepository)
	router := setupRouter(cardRepo, scanRepo)

	cardID := uuid.New()
	codeID := uuid.New()

	cardRepo.On("DeleteCard", mock.Anything, cardID).Return(int64(3), true, nil)
	w, env := doRequest(router, http.MethodDelete, fmt.Sprintf("/cards/%s", cardID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var deleted cards.DeleteCardResponse
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, int64(3), deleted.DeletedCodes)

	// A former code now resolves to a missing card
	scanRepo.On("LookupScan", mock.Anything, cardID, codeID).Return(nil, nil)
	w, env = doRequest(router, http.MethodGet, fmt.Sprintf("/card/%s?code=%s", cardID, codeID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	var scan redemption.ScanResponse
	require.NoError(t, json.Unmarshal(env.Data, &scan))
	assert.Equal(t, models.OutcomeCardNotFound, scan.Outcome)
}

func TestScanFlow_StatsAfterActivity(t *testing.T) {
	cardRepo := new(mocks.MockCardRepository)
	scanRepo := new(mocks.MockScanRepository)
	router := setupRouter(cardRepo, scanRepo)

	cardRepo.On("Stats", mock.Anything).Return(&models.Stats{
		TotalCards:   2,
		TotalCodes:   150,
		ExpiredCodes: 30,
		UnusedCodes:  120,
	}, nil)

	w, env := doRequest(router, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, stats.TotalCodes, stats.ExpiredCodes+stats.UnusedCodes)
}
