package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entdto "github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/application/entitlement/usecases"
	"github.com/carelog-health/carelog/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
)

type mockApplyBillingEventUC struct {
	result *entdto.BillingEventResultDTO
	err    error
	gotCmd usecases.ApplyBillingEventCommand
}

func (m *mockApplyBillingEventUC) Execute(ctx context.Context, cmd usecases.ApplyBillingEventCommand) (*entdto.BillingEventResultDTO, error) {
	m.gotCmd = cmd
	return m.result, m.err
}

// rawWebhookContext builds a context from a raw payload so tests can send
// bodies that the typed request struct would not round-trip.
func rawWebhookContext(payload string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", bytes.NewBufferString(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBillingWebhookHandler_SubscriptionUpdated(t *testing.T) {
	mockUC := &mockApplyBillingEventUC{
		result: &entdto.BillingEventResultDTO{SID: "evt_sub_001", Applied: true},
	}
	handler := NewBillingWebhookHandler(mockUC, testutil.NewMockLogger())

	periodStart := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	payload := `{
		"id": "evt_sub_001",
		"type": "subscription.updated",
		"user_id": "usr_abc123",
		"data": {
			"tier": "pro",
			"status": "active",
			"current_period_start": "2025-03-05T00:00:00Z",
			"current_period_end": "2025-04-05T00:00:00Z",
			"cancel_at_period_end": false
		}
	}`

	c, w := rawWebhookContext(payload)
	handler.HandleBillingEvent(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var result entdto.BillingEventResultDTO
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.True(t, result.Applied)

	assert.Equal(t, "evt_sub_001", mockUC.gotCmd.SID)
	assert.Equal(t, "subscription.updated", mockUC.gotCmd.EventType)
	assert.Equal(t, "usr_abc123", mockUC.gotCmd.UserID)
	assert.Equal(t, "pro", mockUC.gotCmd.Tier)
	assert.Equal(t, "active", mockUC.gotCmd.Status)
	assert.True(t, periodStart.Equal(mockUC.gotCmd.CurrentPeriodStart))
	assert.True(t, periodEnd.Equal(mockUC.gotCmd.CurrentPeriodEnd))
	assert.False(t, mockUC.gotCmd.CancelAtPeriodEnd)
	require.NotNil(t, mockUC.gotCmd.Payload, "full envelope should be captured for audit")
	assert.Equal(t, "evt_sub_001", mockUC.gotCmd.Payload["id"])
}

func TestBillingWebhookHandler_PurchaseCompleted(t *testing.T) {
	mockUC := &mockApplyBillingEventUC{
		result: &entdto.BillingEventResultDTO{SID: "evt_buy_002", Applied: true},
	}
	handler := NewBillingWebhookHandler(mockUC, testutil.NewMockLogger())

	payload := `{
		"id": "evt_buy_002",
		"type": "purchase.completed",
		"user_id": "usr_abc123",
		"data": {
			"product_id": "prod_tokens_small",
			"quantity": 2
		}
	}`

	c, w := rawWebhookContext(payload)
	handler.HandleBillingEvent(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "purchase.completed", mockUC.gotCmd.EventType)
	assert.Equal(t, "prod_tokens_small", mockUC.gotCmd.ProductID)
	assert.Equal(t, 2, mockUC.gotCmd.Quantity)
}

func TestBillingWebhookHandler_ReplayAcknowledged(t *testing.T) {
	mockUC := &mockApplyBillingEventUC{
		result: &entdto.BillingEventResultDTO{SID: "evt_sub_001", Applied: false, AlreadyProcessed: true},
	}
	handler := NewBillingWebhookHandler(mockUC, testutil.NewMockLogger())

	payload := `{"id": "evt_sub_001", "type": "subscription.updated", "user_id": "usr_abc123", "data": {"tier": "pro", "status": "active"}}`

	c, w := rawWebhookContext(payload)
	handler.HandleBillingEvent(c)

	// Replays must be acknowledged with a 2xx or the provider keeps retrying.
	require.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var result entdto.BillingEventResultDTO
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.False(t, result.Applied)
	assert.True(t, result.AlreadyProcessed)
}

func TestBillingWebhookHandler_MalformedPayload(t *testing.T) {
	handler := NewBillingWebhookHandler(&mockApplyBillingEventUC{}, testutil.NewMockLogger())

	c, w := rawWebhookContext(`{"id": "evt_sub_001", "type":`)
	handler.HandleBillingEvent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingWebhookHandler_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing id", `{"type": "subscription.updated", "user_id": "usr_abc123"}`},
		{"missing user_id", `{"id": "evt_1", "type": "subscription.updated"}`},
		{"missing type", `{"id": "evt_1", "user_id": "usr_abc123"}`},
		{"unsupported type", `{"id": "evt_1", "type": "invoice.paid", "user_id": "usr_abc123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBillingWebhookHandler(&mockApplyBillingEventUC{}, testutil.NewMockLogger())

			c, w := rawWebhookContext(tt.payload)
			handler.HandleBillingEvent(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestBillingWebhookHandler_ConflictIsRedelivered(t *testing.T) {
	mockUC := &mockApplyBillingEventUC{err: apperrors.NewConflictError("entitlements were modified concurrently, please retry")}
	handler := NewBillingWebhookHandler(mockUC, testutil.NewMockLogger())

	payload := `{"id": "evt_sub_009", "type": "subscription.updated", "user_id": "usr_abc123", "data": {"tier": "pro", "status": "active"}}`

	c, w := rawWebhookContext(payload)
	handler.HandleBillingEvent(c)

	// Non-2xx so the provider schedules a redelivery.
	assert.Equal(t, http.StatusConflict, w.Code)
}
