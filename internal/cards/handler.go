package cards

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richxcame/cardlink/pkg/common"
	"github.com/richxcame/cardlink/pkg/middleware"
	"github.com/richxcame/cardlink/pkg/pagination"
	"github.com/richxcame/cardlink/pkg/validation"
)

// Handler handles the admin HTTP surface for cards and codes
type Handler struct {
	service *Service
}

// NewHandler creates a new cards handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func respondError(c *gin.Context, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

// CreateCard handles POST /cards
func (h *Handler) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := middleware.ValidateJSON(c, &req); err != nil {
		var valErr *validation.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusUnprocessableEntity, common.Response{Success: false, Data: valErr, Error: "validation failed"})
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	card, err := h.service.CreateCard(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	common.CreatedResponse(c, card)
}

// ListCards handles GET /cards
func (h *Handler) ListCards(c *gin.Context) {
	params := pagination.ParseParams(c)
	search := c.Query("search")

	cards, total, err := h.service.ListCards(c.Request.Context(), search, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	common.SuccessResponseWithMeta(c, cards, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// DeleteCard handles DELETE /cards/:id
func (h *Handler) DeleteCard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid card ID")
		return
	}

	deleted, err := h.service.DeleteCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	common.SuccessResponse(c, DeleteCardResponse{DeletedCodes: deleted})
}

// GenerateCodes handles POST /cards/:id/codes
func (h *Handler) GenerateCodes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid card ID")
		return
	}

	var req GenerateCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	codes, err := h.service.GenerateCodes(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	common.CreatedResponse(c, GenerateCodesResponse{CardID: id.String(), Codes: codes})
}

// Stats handles GET /stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	common.SuccessResponse(c, stats)
}
