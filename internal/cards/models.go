package cards

import (
	"github.com/richxcame/cardlink/pkg/models"
)

// CreateCardRequest is the payload for creating a business card
type CreateCardRequest struct {
	CompanyName string `json:"company_name" binding:"required" validate:"notblank"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
}

// GenerateCodesRequest is the payload for the interactive generation endpoint
type GenerateCodesRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GenerateCodesResponse carries the minted codes back to the caller
type GenerateCodesResponse struct {
	CardID string                 `json:"card_id"`
	Codes  []models.GeneratedCode `json:"codes"`
}

// DeleteCardResponse reports how many codes were removed with the card
type DeleteCardResponse struct {
	DeletedCodes int64 `json:"deleted_codes"`
}
