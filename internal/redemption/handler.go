package redemption

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richxcame/cardlink/pkg/common"
	"github.com/richxcame/cardlink/pkg/models"
)

// Handler handles the public scan endpoint
type Handler struct {
	service *Service
}

// NewHandler creates a new redemption handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Scan serves GET /card/:card_id. With a code query parameter it attempts a
// redemption; without one it shows the card. Both "code" and "qr" are
// accepted as the query key since printed codes carry the latter.
func (h *Handler) Scan(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("card_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, common.Response{
			Success: false,
			Data:    ScanResponse{Outcome: models.OutcomeCardNotFound},
			Error:   "card not found",
		})
		return
	}

	rawCode := c.Query("code")
	if rawCode == "" {
		rawCode = c.Query("qr")
	}

	var result *Result
	if rawCode == "" {
		result, err = h.service.View(c.Request.Context(), cardID)
	} else {
		// An unparsable code id can never match a stored code; the lookup
		// classifies it as invalid against the resolved card
		codeID, parseErr := uuid.Parse(rawCode)
		if parseErr != nil {
			codeID = uuid.Nil
		}
		result, err = h.service.Redeem(c.Request.Context(), cardID, codeID)
	}

	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "processing error")
		return
	}

	status := http.StatusOK
	switch result.Outcome {
	case models.OutcomeCardNotFound, models.OutcomeCodeInvalid:
		status = http.StatusNotFound
	}

	c.JSON(status, common.Response{
		Success: status == http.StatusOK,
		Data:    ToScanResponse(result),
	})
}
