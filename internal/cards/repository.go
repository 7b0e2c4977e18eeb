package cards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/cardlink/pkg/models"
)

// Repository handles database operations for cards and their codes
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new cards repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateCard inserts a new business card
func (r *Repository) CreateCard(ctx context.Context, card *models.BusinessCard) error {
	query := `
		INSERT INTO business_cards (id, name, company_name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, scan_count
	`

	err := r.db.QueryRow(ctx, query,
		card.ID, card.Name, card.CompanyName, card.Phone,
	).Scan(&card.CreatedAt, &card.ScanCount)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	return nil
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

// ListCards returns cards newest first, filtered by a case-insensitive
// company name substring, each annotated with its live code count
func (r *Repository) ListCards(ctx context.Context, search string, limit, offset int) ([]*models.CardSummary, int64, error) {
	query := `
		SELECT bc.id, bc.name, bc.company_name, bc.phone, bc.created_at, bc.scan_count,
		       COUNT(qc.id) AS code_count
		FROM business_cards bc
		LEFT JOIN qr_codes qc ON qc.business_card_id = bc.id
		WHERE $1 = '' OR bc.company_name ILIKE '%' || $1 || '%'
		GROUP BY bc.id
		ORDER BY bc.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []*models.CardSummary{}
	for rows.Next() {
		card := &models.CardSummary{}
		err := rows.Scan(
			&card.ID, &card.Name, &card.CompanyName, &card.Phone,
			&card.CreatedAt, &card.ScanCount, &card.CodeCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read cards: %w", err)
	}

	var total int64
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM business_cards
		WHERE $1 = '' OR company_name ILIKE '%' || $1 || '%'
	`, search).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}

	return cards, total, nil
}

// DeleteCard removes a card and all of its codes in one transaction. The
// code delete runs first so the removed count can be reported; found is
// false when the card did not exist and nothing was deleted.
func (r *Repository) DeleteCard(ctx context.Context, id uuid.UUID) (int64, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	codesTag, err := tx.Exec(ctx, `DELETE FROM qr_codes WHERE business_card_id = $1`, id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to delete codes: %w", err)
	}

	cardTag, err := tx.Exec(ctx, `DELETE FROM business_cards WHERE id = $1`, id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to delete card: %w", err)
	}
	if cardTag.RowsAffected() == 0 {
		return 0, false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return codesTag.RowsAffected(), true, nil
}

// InsertCodes inserts a small batch of codes in one multi-row statement.
// The bulk provisioning path uses CopyFrom instead.
func (r *Repository) InsertCodes(ctx context.Context, codes []*models.QRCode) error {
	if len(codes) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(codes))
	args := make([]interface{}, 0, len(codes)*3)
	for i, code := range codes {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		args = append(args, code.ID, code.CodeData, code.BusinessCardID)
	}

	query := fmt.Sprintf(
		"INSERT INTO qr_codes (id, code_data, business_card_id) VALUES %s",
		strings.Join(placeholders, ", "),
	)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert codes: %w", err)
	}

	return nil
}

// Stats returns aggregate counts over cards and codes
func (r *Repository) Stats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM business_cards),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE is_expired),
		       COUNT(*) FILTER (WHERE NOT is_expired)
		FROM qr_codes
	`

	stats := &models.Stats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalCards, &stats.TotalCodes, &stats.ExpiredCodes, &stats.UnusedCodes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}
