package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carelog-health/carelog/internal/application/entitlement/usecases"
	"github.com/carelog-health/carelog/internal/shared/constants"
	"github.com/carelog-health/carelog/internal/shared/logger"
	"github.com/carelog-health/carelog/internal/shared/utils"
)

// EntitlementHandler serves the gating surface the apps call before putting
// a premium action on screen or executing it.
type EntitlementHandler struct {
	getUC       getEntitlementsUseCase
	checkUC     checkFeatureUseCase
	consumeUC   consumeFeatureUseCase
	useShieldUC useStreakShieldUseCase
	logger      logger.Interface
}

// NewEntitlementHandler creates a new entitlement handler
func NewEntitlementHandler(
	getUC getEntitlementsUseCase,
	checkUC checkFeatureUseCase,
	consumeUC consumeFeatureUseCase,
	useShieldUC useStreakShieldUseCase,
	logger logger.Interface,
) *EntitlementHandler {
	return &EntitlementHandler{
		getUC:       getUC,
		checkUC:     checkUC,
		consumeUC:   consumeUC,
		useShieldUC: useShieldUC,
		logger:      logger,
	}
}

// ConsumeFeatureRequest represents the request to consume a feature use
type ConsumeFeatureRequest struct {
	Feature  string `json:"feature" binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
	// UseTokens debits token balances before the included quota.
	UseTokens bool `json:"use_tokens"`
}

// GetEntitlements godoc
// @Summary Get current entitlements
// @Description Returns the caller's tier, limits, usage, token balances and per-feature remaining allowances
// @Tags entitlements
// @Produce json
// @Param timezone query string false "IANA timezone to record for quota resets"
// @Success 200 {object} utils.APIResponse{data=dto.EntitlementSnapshotDTO}
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/v1/entitlements [get]
func (h *EntitlementHandler) GetEntitlements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := usecases.GetEntitlementsQuery{
		UserID:   userID,
		Timezone: c.Query("timezone"),
	}

	snapshot, err := h.getUC.Execute(c.Request.Context(), query)
	if err != nil {
		h.logger.Errorw("failed to get entitlements", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", snapshot)
}

// CheckFeature godoc
// @Summary Check a feature gate
// @Description Answers whether the caller could use the feature right now, without consuming anything
// @Tags entitlements
// @Produce json
// @Param feature query string true "Feature identifier"
// @Param quantity query int false "Requested quantity, defaults to 1"
// @Success 200 {object} utils.APIResponse{data=dto.CheckResultDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/v1/entitlements/check [get]
func (h *EntitlementHandler) CheckFeature(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	feature := c.Query("feature")
	if feature == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "feature is required")
		return
	}

	quantity := 1
	if quantityStr := c.Query("quantity"); quantityStr != "" {
		q, err := strconv.Atoi(quantityStr)
		if err != nil || q < 1 {
			utils.ErrorResponse(c, http.StatusBadRequest, "quantity must be a positive integer")
			return
		}
		quantity = q
	}

	query := usecases.CheckFeatureQuery{
		UserID:   userID,
		Feature:  feature,
		Quantity: quantity,
	}

	result, err := h.checkUC.Execute(c.Request.Context(), query)
	if err != nil {
		h.logger.Errorw("failed to check feature", "error", err, "user_id", userID, "feature", feature)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ConsumeFeature godoc
// @Summary Consume a feature use
// @Description Atomically checks and debits quota or tokens. A denial comes back HTTP 200 with data.success=false and the upsell trigger to show.
// @Tags entitlements
// @Accept json
// @Produce json
// @Param request body ConsumeFeatureRequest true "Feature, quantity and debit preference"
// @Success 200 {object} utils.APIResponse{data=dto.ConsumeResultDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/v1/entitlements/consume [post]
func (h *EntitlementHandler) ConsumeFeature(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ConsumeFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for consume feature", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.ConsumeFeatureCommand{
		UserID:       userID,
		Feature:      req.Feature,
		Quantity:     req.Quantity,
		PreferTokens: req.UseTokens,
	}

	result, err := h.consumeUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UseStreakShield godoc
// @Summary Spend a streak shield
// @Description Spends one shield to preserve the caller's logging streak after a missed day
// @Tags entitlements
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.StreakShieldResultDTO}
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/v1/entitlements/shields/use [post]
func (h *EntitlementHandler) UseStreakShield(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.useShieldUC.Execute(c.Request.Context(), usecases.UseStreakShieldCommand{UserID: userID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// currentUserID pulls the authenticated user ID set by the auth middleware.
// It writes the 401 itself so handlers can bail with a bare return.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return "", false
	}

	uid, ok := userID.(string)
	if !ok || uid == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return "", false
	}
	return uid, true
}
