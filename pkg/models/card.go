package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScanOutcome is the discriminated result of resolving a (card, code) pair
type ScanOutcome string

const (
	OutcomeFirstScan      ScanOutcome = "first_scan"
	OutcomeAlreadyExpired ScanOutcome = "already_expired"
	OutcomeCardNotFound   ScanOutcome = "card_not_found"
	OutcomeCodeInvalid    ScanOutcome = "code_invalid"
	OutcomeView           ScanOutcome = "view"
)

// BusinessCard represents a business card record
type BusinessCard struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Phone       string    `json:"phone" db:"phone"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	ScanCount   int       `json:"scan_count" db:"scan_count"`
}

// QRCode represents a single-use scan token bound to a business card
type QRCode struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	CodeData       string     `json:"code_data" db:"code_data"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	ScannedAt      *time.Time `json:"scanned_at,omitempty" db:"scanned_at"`
	IsExpired      bool       `json:"is_expired" db:"is_expired"`
	BusinessCardID *uuid.UUID `json:"business_card_id,omitempty" db:"business_card_id"`
}

// CardSummary is a business card annotated with its live code count
type CardSummary struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Phone       string    `json:"phone" db:"phone"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	ScanCount   int       `json:"scan_count" db:"scan_count"`
	CodeCount   int       `json:"code_count" db:"code_count"`
}

// GeneratedCode is returned for each code minted by a generation request
type GeneratedCode struct {
	ID       uuid.UUID `json:"id"`
	CodeData string    `json:"code_data"`
}

// RedemptionURL builds the payload printed into a QR code. The "qr" query
// key is the historical wire format already in circulation on printed cards.
func RedemptionURL(baseURL string, cardID, codeID uuid.UUID) string {
	return fmt.Sprintf("%s/card/%s?qr=%s", baseURL, cardID, codeID)
}

// Stats holds aggregate counts over cards and codes
type Stats struct {
	TotalCards   int64 `json:"total_cards"`
	TotalCodes   int64 `json:"total_codes"`
	ExpiredCodes int64 `json:"expired_codes"`
	UnusedCodes  int64 `json:"unused_codes"`
}
