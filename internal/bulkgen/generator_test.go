package bulkgen

import (
	"archive/zip"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/cardlink/pkg/models"
)

// fakeRepo records batch sizes and can be told to fail on a given batch
type fakeRepo struct {
	card        *models.BusinessCard
	batchSizes  []int
	inserted    []*models.QRCode
	failAtBatch int // 1-based, 0 means never
}

func (f *fakeRepo) GetCard(_ context.Context, id uuid.UUID) (*models.BusinessCard, error) {
	if f.card == nil || f.card.ID != id {
		return nil, nil
	}
	return f.card, nil
}

func (f *fakeRepo) CopyCodes(_ context.Context, codes []*models.QRCode) (int64, error) {
	if f.failAtBatch > 0 && len(f.batchSizes)+1 == f.failAtBatch {
		return 0, assert.AnError
	}
	f.batchSizes = append(f.batchSizes, len(codes))
	f.inserted = append(f.inserted, codes...)
	return int64(len(codes)), nil
}

func testCard() *models.BusinessCard {
	return &models.BusinessCard{ID: uuid.New(), CompanyName: "Acme Widgets"}
}

func TestRun_BatchesExactly(t *testing.T) {
	card := testCard()
	repo := &fakeRepo{card: card}
	gen := NewGenerator(repo, nil)

	report, err := gen.Run(context.Background(), Options{
		CardID:    card.ID,
		Quantity:  2500,
		BatchSize: 1000,
		BaseURL:   "http://localhost:8080",
	})

	require.NoError(t, err)
	assert.Equal(t, 2500, report.Inserted)
	assert.Equal(t, 3, report.Batches)
	assert.Equal(t, []int{1000, 1000, 500}, repo.batchSizes)
}

func TestRun_SingleShortBatch(t *testing.T) {
	card := testCard()
	repo := &fakeRepo{card: card}
	gen := NewGenerator(repo, nil)

	report, err := gen.Run(context.Background(), Options{
		CardID:   card.ID,
		Quantity: 7,
		BaseURL:  "http://localhost:8080",
	})

	require.NoError(t, err)
	assert.Equal(t, 7, report.Inserted)
	assert.Equal(t, 1, report.Batches)
}

func TestRun_PayloadFormat(t *testing.T) {
	card := testCard()
	repo := &fakeRepo{card: card}
	gen := NewGenerator(repo, nil)

	_, err := gen.Run(context.Background(), Options{
		CardID:   card.ID,
		Quantity: 2,
		BaseURL:  "http://cards.example.com/",
	})

	require.NoError(t, err)
	require.Len(t, repo.inserted, 2)
	for _, code := range repo.inserted {
		expected := models.RedemptionURL("http://cards.example.com", card.ID, code.ID)
		assert.Equal(t, expected, code.CodeData)
		require.NotNil(t, code.BusinessCardID)
		assert.Equal(t, card.ID, *code.BusinessCardID)
	}
}

func TestRun_CardNotFound(t *testing.T) {
	repo := &fakeRepo{card: testCard()}
	gen := NewGenerator(repo, nil)

	report, err := gen.Run(context.Background(), Options{
		CardID:   uuid.New(),
		Quantity: 10,
		BaseURL:  "http://localhost:8080",
	})

	require.Error(t, err)
	assert.Nil(t, report)
	assert.Empty(t, repo.batchSizes)
}

func TestRun_InvalidQuantity(t *testing.T) {
	gen := NewGenerator(&fakeRepo{card: testCard()}, nil)

	_, err := gen.Run(context.Background(), Options{CardID: uuid.New(), Quantity: 0})

	require.Error(t, err)
}

func TestRun_PartialFailureKeepsCommittedBatches(t *testing.T) {
	card := testCard()
	repo := &fakeRepo{card: card, failAtBatch: 3}
	gen := NewGenerator(repo, nil)

	report, err := gen.Run(context.Background(), Options{
		CardID:    card.ID,
		Quantity:  2500,
		BatchSize: 1000,
		BaseURL:   "http://localhost:8080",
	})

	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 2000, report.Inserted)
	assert.Equal(t, 2, report.Batches)
	assert.Len(t, repo.inserted, 2000)
}

func TestRun_RenderProducesArchives(t *testing.T) {
	card := testCard()
	repo := &fakeRepo{card: card}
	gen := NewGenerator(repo, nil)
	dir := t.TempDir()

	report, err := gen.Run(context.Background(), Options{
		CardID:    card.ID,
		Quantity:  4,
		BatchSize: 2,
		BaseURL:   "http://localhost:8080",
		Render:    true,
		ImageSize: 64,
		OutputDir: dir,
	})

	require.NoError(t, err)
	require.Len(t, report.Archives, 1)

	reader, err := zip.OpenReader(report.Archives[0])
	require.NoError(t, err)
	defer reader.Close()
	assert.Len(t, reader.File, 4)
	for _, f := range reader.File {
		assert.Contains(t, f.Name, ".png")
	}
}
