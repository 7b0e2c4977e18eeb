package bulkgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/cardlink/pkg/logger"
	"github.com/richxcame/cardlink/pkg/models"
	"github.com/richxcame/cardlink/pkg/qrimage"
	"github.com/richxcame/cardlink/pkg/storage"
)

// DefaultBatchSize bounds memory and round trips on large runs
const DefaultBatchSize = 1000

// RepositoryInterface defines the interface for bulkgen repository operations
type RepositoryInterface interface {
	GetCard(ctx context.Context, id uuid.UUID) (*models.BusinessCard, error)
	CopyCodes(ctx context.Context, codes []*models.QRCode) (int64, error)
}

// Options configures a provisioning run
type Options struct {
	CardID    uuid.UUID
	Quantity  int
	BatchSize int
	BaseURL   string

	// Render writes a PNG per code and packs them into ZIP parts under
	// OutputDir
	Render    bool
	ImageSize int
	OutputDir string

	// Upload pushes finished archive parts to the configured storage backend
	Upload bool
}

// Report summarizes a run. On a partial failure Inserted reflects the codes
// committed by earlier batches, which remain valid.
type Report struct {
	Requested int
	Inserted  int
	Batches   int
	Archives  []string
	Uploaded  []string
	Elapsed   time.Duration
}

// Generator drives large provisioning runs in batches
type Generator struct {
	repo  RepositoryInterface
	store storage.Storage
}

// NewGenerator creates a generator. store may be nil when uploads are not
// wanted.
func NewGenerator(repo RepositoryInterface, store storage.Storage) *Generator {
	return &Generator{repo: repo, store: store}
}

// Run provisions opts.Quantity codes for the card. Unlike the interactive
// path the quantity is uncapped; inserts are chunked into batches and each
// batch commits independently.
func (g *Generator) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be positive, got %d", opts.Quantity)
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	card, err := g.repo.GetCard(ctx, opts.CardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("card %s not found", opts.CardID)
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	report := &Report{Requested: opts.Quantity}
	start := time.Now()

	var splitter *qrimage.ArchiveSplitter
	if opts.Render {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		splitter = qrimage.NewArchiveSplitter(opts.OutputDir, storage.SanitizeName(card.CompanyName), qrimage.MaxImagesPerPart)
	}

	logger.Info("bulk generation started",
		zap.String("card_id", opts.CardID.String()),
		zap.String("company_name", card.CompanyName),
		zap.Int("quantity", opts.Quantity),
		zap.Int("batch_size", batchSize),
	)

	for report.Inserted < opts.Quantity {
		n := batchSize
		if remaining := opts.Quantity - report.Inserted; remaining < n {
			n = remaining
		}

		codes := make([]*models.QRCode, n)
		for i := range codes {
			id := uuid.New()
			ownerID := opts.CardID
			codes[i] = &models.QRCode{
				ID:             id,
				CodeData:       models.RedemptionURL(baseURL, opts.CardID, id),
				BusinessCardID: &ownerID,
			}
		}

		copied, err := g.repo.CopyCodes(ctx, codes)
		if err != nil {
			report.Elapsed = time.Since(start)
			logger.Error("batch insert failed, halting run",
				zap.Int("batch", report.Batches+1),
				zap.Int("inserted", report.Inserted),
				zap.Error(err),
			)
			return report, fmt.Errorf("batch %d failed after %d codes committed: %w",
				report.Batches+1, report.Inserted, err)
		}

		report.Inserted += int(copied)
		report.Batches++

		if splitter != nil {
			for _, code := range codes {
				png, err := qrimage.Render(code.CodeData, opts.ImageSize)
				if err != nil {
					report.Elapsed = time.Since(start)
					return report, fmt.Errorf("failed to render code %s: %w", code.ID, err)
				}
				if err := splitter.Add(fmt.Sprintf("%s.png", code.ID), png); err != nil {
					report.Elapsed = time.Since(start)
					return report, err
				}
			}
		}

		elapsed := time.Since(start)
		rate := float64(report.Inserted) / elapsed.Seconds()
		remaining := opts.Quantity - report.Inserted
		var eta time.Duration
		if rate > 0 {
			eta = time.Duration(float64(remaining)/rate) * time.Second
		}
		logger.Info("batch committed",
			zap.Int("batch", report.Batches),
			zap.Int("inserted", report.Inserted),
			zap.Int("remaining", remaining),
			zap.Float64("codes_per_sec", rate),
			zap.Duration("eta", eta),
		)
	}

	if splitter != nil {
		archives, err := splitter.Close()
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		report.Archives = archives

		if opts.Upload && g.store != nil {
			uploaded, err := g.uploadArchives(ctx, opts.CardID, archives)
			report.Uploaded = uploaded
			if err != nil {
				report.Elapsed = time.Since(start)
				return report, err
			}
		}
	}

	report.Elapsed = time.Since(start)
	logger.Info("bulk generation finished",
		zap.Int("inserted", report.Inserted),
		zap.Int("batches", report.Batches),
		zap.Int("archives", len(report.Archives)),
		zap.Duration("elapsed", report.Elapsed),
	)

	return report, nil
}

func (g *Generator) uploadArchives(ctx context.Context, cardID uuid.UUID, archives []string) ([]string, error) {
	uploaded := make([]string, 0, len(archives))
	for _, path := range archives {
		f, err := os.Open(path)
		if err != nil {
			return uploaded, fmt.Errorf("failed to open archive: %w", err)
		}

		info, err := f.Stat()
		if err != nil {
			f.Close()
			return uploaded, fmt.Errorf("failed to stat archive: %w", err)
		}

		key := storage.GenerateArchiveKey(cardID, filepath.Base(path))
		result, err := g.store.Upload(ctx, key, f, info.Size(), "application/zip")
		f.Close()
		if err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, result.URL)
	}
	return uploaded, nil
}
