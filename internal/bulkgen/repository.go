package bulkgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/cardlink/pkg/models"
)

// Repository handles database operations for bulk code provisioning
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new bulkgen repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetCard retrieves a card by ID. Returns nil when the card does not exist.
func (r *Repository) GetCard(ctx context.Context, id uuid.UUID) (*models.BusinessCard, error) {
	query := `
		SELECT id, name, company_name, phone, created_at, scan_count
		FROM business_cards
		WHERE id = $1
	`

	card := &models.BusinessCard{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&card.ID, &card.Name, &card.CompanyName, &card.Phone,
		&card.CreatedAt, &card.ScanCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return card, nil
}

// CopyCodes inserts one batch of codes via the postgres COPY protocol. Each
// call is its own transaction: a failed batch leaves earlier batches intact.
func (r *Repository) CopyCodes(ctx context.Context, codes []*models.QRCode) (int64, error) {
	rows := make([][]interface{}, len(codes))
	for i, code := range codes {
		rows[i] = []interface{}{code.ID, code.CodeData, code.BusinessCardID}
	}

	copied, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"qr_codes"},
		[]string{"id", "code_data", "business_card_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy codes: %w", err)
	}

	return copied, nil
}
