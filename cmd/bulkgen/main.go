package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/cardlink/internal/bulkgen"
	"github.com/richxcame/cardlink/pkg/config"
	"github.com/richxcame/cardlink/pkg/database"
	"github.com/richxcame/cardlink/pkg/logger"
	"github.com/richxcame/cardlink/pkg/storage"
)

func main() {
	var (
		cardIDFlag = flag.String("card", "", "business card UUID to provision codes for (required)")
		quantity   = flag.Int("quantity", 0, "number of codes to generate (required)")
		batchSize  = flag.Int("batch-size", 0, "codes per insert batch (default from BULK_BATCH_SIZE)")
		render     = flag.Bool("render", false, "render a PNG per code and pack into ZIP archives")
		imageSize  = flag.Int("image-size", 512, "rendered image edge length in pixels")
		outputDir  = flag.String("output", "qr_exports", "directory for rendered archives")
		upload     = flag.Bool("upload", false, "upload finished archives to the configured storage backend")
	)
	flag.Parse()

	if *cardIDFlag == "" || *quantity <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cardID, err := uuid.Parse(*cardIDFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid card UUID: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load("bulkgen")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	ctx := context.Background()

	var store storage.Storage
	if *upload {
		store, err = storage.New(ctx, &cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}

	if *batchSize <= 0 {
		*batchSize = cfg.Bulk.BatchSize
	}

	generator := bulkgen.NewGenerator(bulkgen.NewRepository(pool), store)
	report, err := generator.Run(ctx, bulkgen.Options{
		CardID:    cardID,
		Quantity:  *quantity,
		BatchSize: *batchSize,
		BaseURL:   cfg.Public.BaseURL,
		Render:    *render,
		ImageSize: *imageSize,
		OutputDir: *outputDir,
		Upload:    *upload,
	})
	if err != nil {
		if report != nil {
			logger.Error("Run halted",
				zap.Int("inserted", report.Inserted),
				zap.Int("requested", report.Requested),
				zap.Error(err),
			)
		}
		log.Fatalf("bulk generation failed: %v", err)
	}

	fmt.Printf("generated %d codes in %d batches (%s)\n",
		report.Inserted, report.Batches, report.Elapsed.Round(time.Millisecond))
	for _, archive := range report.Archives {
		fmt.Printf("archive: %s\n", archive)
	}
	for _, url := range report.Uploaded {
		fmt.Printf("uploaded: %s\n", url)
	}
}
