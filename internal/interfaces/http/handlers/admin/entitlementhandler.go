// Package admin provides HTTP handlers for administrative operations.
package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	entdto "github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/application/entitlement/usecases"
	"github.com/carelog-health/carelog/internal/shared/id"
	"github.com/carelog-health/carelog/internal/shared/logger"
	"github.com/carelog-health/carelog/internal/shared/utils"
)

// Use case interfaces for AdminEntitlementHandler

type getEntitlementsUseCase interface {
	Execute(ctx context.Context, query usecases.GetEntitlementsQuery) (*entdto.EntitlementSnapshotDTO, error)
}

type creditTokensUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreditTokensCommand) (*entdto.BalancesDTO, error)
}

type listBillingEventsUseCase interface {
	Execute(ctx context.Context, query usecases.ListBillingEventsQuery) ([]*entdto.BillingEventDTO, error)
}

// AdminEntitlementHandler serves the support console: inspecting a user's
// entitlement state, compensating tokens, and auditing billing history.
type AdminEntitlementHandler struct {
	getUC        getEntitlementsUseCase
	creditUC     creditTokensUseCase
	listEventsUC listBillingEventsUseCase
	logger       logger.Interface
}

// NewAdminEntitlementHandler creates a new admin entitlement handler
func NewAdminEntitlementHandler(
	getUC getEntitlementsUseCase,
	creditUC creditTokensUseCase,
	listEventsUC listBillingEventsUseCase,
	logger logger.Interface,
) *AdminEntitlementHandler {
	return &AdminEntitlementHandler{
		getUC:        getUC,
		creditUC:     creditUC,
		listEventsUC: listEventsUC,
		logger:       logger,
	}
}

// CreditTokensRequest represents the request to credit tokens to a user
type CreditTokensRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=ai_tokens export_tokens streak_shields"`
	Amount int    `json:"amount" binding:"required,min=1"`
	Reason string `json:"reason" binding:"required"`
}

// GetUserEntitlements handles GET /admin/users/:user_id/entitlements
func (h *AdminEntitlementHandler) GetUserEntitlements(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.getUC.Execute(c.Request.Context(), usecases.GetEntitlementsQuery{UserID: userID})
	if err != nil {
		h.logger.Errorw("failed to get user entitlements", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", snapshot)
}

// CreditTokens handles POST /admin/users/:user_id/tokens
// Grants tokens or shields outside the purchase flow, for support
// compensation and promotions.
func (h *AdminEntitlementHandler) CreditTokens(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req CreditTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for credit tokens", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.CreditTokensCommand{
		UserID: userID,
		Kind:   req.Kind,
		Amount: req.Amount,
		Reason: req.Reason,
	}

	balances, err := h.creditUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to credit tokens",
			"error", err,
			"user_id", userID,
			"kind", req.Kind,
			"amount", req.Amount,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", balances)
}

// ListBillingEvents handles GET /admin/users/:user_id/billing-events
// Returns the user's processed billing history, newest first.
func (h *AdminEntitlementHandler) ListBillingEvents(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			utils.ErrorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = l
	}

	events, err := h.listEventsUC.Execute(c.Request.Context(), usecases.ListBillingEventsQuery{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		h.logger.Errorw("failed to list billing events", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", events)
}

func pathUserID(c *gin.Context) (string, bool) {
	userID := c.Param("user_id")
	if err := id.ValidatePrefix(userID, id.PrefixUser); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID format, expected usr_xxxxx")
		return "", false
	}
	return userID, true
}
