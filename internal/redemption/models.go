package redemption

import (
	"github.com/richxcame/cardlink/pkg/models"
)

// ScanRow is the result of resolving a (card, code) pair in one round trip.
// A nil ScanRow from the repository means the card does not exist.
type ScanRow struct {
	Card        models.BusinessCard
	CodeOwned   bool
	CodeExpired bool
}

// ExpireResult reports an attempted unused-to-expired transition. Expired is
// false when another scan won the race and the transition was not performed.
type ExpireResult struct {
	Expired   bool
	ScanCount int
}

// Result is the discriminated outcome handed to the HTTP layer
type Result struct {
	Outcome models.ScanOutcome
	Card    *models.BusinessCard
}

// ScanResponse is the JSON body returned by the scan endpoint
type ScanResponse struct {
	Outcome models.ScanOutcome   `json:"outcome"`
	Card    *models.BusinessCard `json:"card,omitempty"`
}

// ToScanResponse converts a service result into the wire response
func ToScanResponse(result *Result) ScanResponse {
	return ScanResponse{
		Outcome: result.Outcome,
		Card:    result.Card,
	}
}
