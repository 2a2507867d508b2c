package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	entdto "github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/application/entitlement/usecases"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/logger"
	"github.com/carelog-health/carelog/internal/shared/utils"
)

type applyBillingEventUseCase interface {
	Execute(ctx context.Context, cmd usecases.ApplyBillingEventCommand) (*entdto.BillingEventResultDTO, error)
}

// BillingWebhookHandler receives billing provider deliveries. The provider
// retries until it sees a 2xx, so replays are normal traffic here, and a
// conflict must come back non-2xx to get the event redelivered.
type BillingWebhookHandler struct {
	applyUC applyBillingEventUseCase
	logger  logger.Interface
}

// NewBillingWebhookHandler creates a new billing webhook handler
func NewBillingWebhookHandler(applyUC applyBillingEventUseCase, logger logger.Interface) *BillingWebhookHandler {
	return &BillingWebhookHandler{
		applyUC: applyUC,
		logger:  logger,
	}
}

// BillingWebhookRequest is the provider's event envelope.
type BillingWebhookRequest struct {
	ID     string                  `json:"id" binding:"required"`
	Type   string                  `json:"type" binding:"required,oneof=subscription.updated purchase.completed"`
	UserID string                  `json:"user_id" binding:"required"`
	Data   BillingWebhookEventData `json:"data"`
}

// BillingWebhookEventData carries the event-type specific fields. Unused
// fields stay at their zero values for the other event type.
type BillingWebhookEventData struct {
	Tier               string    `json:"tier"`
	Status             string    `json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`

	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleBillingEvent godoc
// @Summary Apply a billing provider event
// @Description Applies subscription.updated and purchase.completed events. Redelivered events are acknowledged without reapplying.
// @Tags billing
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string true "Shared webhook secret"
// @Param request body BillingWebhookRequest true "Provider event envelope"
// @Success 200 {object} utils.APIResponse{data=dto.BillingEventResultDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/v1/billing/webhook [post]
func (h *BillingWebhookHandler) HandleBillingEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req BillingWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Warnw("malformed billing webhook payload", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "malformed event payload")
		return
	}
	if err := validateWebhookRequest(&req); err != nil {
		h.logger.Warnw("invalid billing webhook payload", "error", err, "sid", req.ID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	// The full envelope is stored for audit alongside the typed fields.
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = nil
	}

	cmd := usecases.ApplyBillingEventCommand{
		SID:                req.ID,
		EventType:          req.Type,
		UserID:             req.UserID,
		Tier:               req.Data.Tier,
		Status:             req.Data.Status,
		CurrentPeriodStart: req.Data.CurrentPeriodStart,
		CurrentPeriodEnd:   req.Data.CurrentPeriodEnd,
		CancelAtPeriodEnd:  req.Data.CancelAtPeriodEnd,
		ProductID:          req.Data.ProductID,
		Quantity:           req.Data.Quantity,
		Payload:            payload,
	}

	result, err := h.applyUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to apply billing event", "error", err, "sid", req.ID, "type", req.Type)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// validateWebhookRequest replaces gin's binding validation because the body
// is read raw to keep the audit copy byte-accurate.
func validateWebhookRequest(req *BillingWebhookRequest) error {
	if req.ID == "" {
		return apperrors.NewValidationError("event id is required")
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id is required")
	}
	switch req.Type {
	case "subscription.updated", "purchase.completed":
		return nil
	case "":
		return apperrors.NewValidationError("event type is required")
	default:
		return apperrors.NewValidationError("unsupported event type", req.Type)
	}
}
