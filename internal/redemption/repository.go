package redemption

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/cardlink/pkg/models"
)

// Repository handles database operations for redemption
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new redemption repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// LookupScan resolves a (card, code) pair in a single round trip. The LEFT
// JOIN answers three questions at once: does the card exist, does the code
// exist and belong to it, and is the code already expired. Returns nil when
// the card does not exist.
func (r *Repository) LookupScan(ctx context.Context, cardID, codeID uuid.UUID) (*ScanRow, error) {
	query := `
		SELECT bc.id, bc.name, bc.company_name, bc.phone, bc.created_at, bc.scan_count,
		       qc.id IS NOT NULL AS code_owned,
		       COALESCE(qc.is_expired, FALSE) AS code_expired
		FROM business_cards bc
		LEFT JOIN qr_codes qc ON qc.id = $2 AND qc.business_card_id = bc.id
		WHERE bc.id = $1
	`

	row := &ScanRow{}
	err := r.db.QueryRow(ctx, query, cardID, codeID).Scan(
		&row.Card.ID, &row.Card.Name, &row.Card.CompanyName, &row.Card.Phone,
		&row.Card.CreatedAt, &row.Card.ScanCount,
		&row.CodeOwned, &row.CodeExpired,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up scan: %w", err)
	}

	return row, nil
}

// ExpireCode performs the unused-to-expired transition and the scan counter
// increment in one transaction. The UPDATE is conditioned on is_expired still
// being false; a zero affected-row count means a concurrent scan already
// expired the code, and nothing is committed. Otherwise the counter increment
// commits together with the transition.
func (r *Repository) ExpireCode(ctx context.Context, cardID, codeID uuid.UUID) (*ExpireResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE qr_codes
		SET is_expired = TRUE, scanned_at = NOW()
		WHERE id = $1 AND business_card_id = $2 AND is_expired = FALSE
	`, codeID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to expire code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Race lost: a concurrent scan flipped the code first
		return &ExpireResult{Expired: false}, nil
	}

	var scanCount int
	err = tx.QueryRow(ctx, `
		UPDATE business_cards
		SET scan_count = scan_count + 1
		WHERE id = $1
		RETURNING scan_count
	`, cardID).Scan(&scanCount)
	if err != nil {
		return nil, fmt.Errorf("failed to increment scan count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ExpireResult{Expired: true, ScanCount: scanCount}, nil
}

// GetCard retrieves a card for the code-less view path. Returns nil when the
// card does not exist.
func (r *Repository) GetCard(ctx context.Context, cardID uuid.UUID) (*models.BusinessCard, error) {
	query := `
		SELECT id, name, company_name, phone, created_at, scan_count
		FROM business_cards
		WHERE id = $1
	`

	card := &models.BusinessCard{}
	err := r.db.QueryRow(ctx, query, cardID).Scan(
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
