package http

import (
	"github.com/carelog-health/carelog/internal/interfaces/http/handlers"
	adminHandlers "github.com/carelog-health/carelog/internal/interfaces/http/handlers/admin"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	// Entitlement
	entitlementHandler *handlers.EntitlementHandler

	// Catalog
	productHandler *handlers.ProductHandler

	// Billing
	billingWebhookHandler *handlers.BillingWebhookHandler

	// Admin
	adminEntitlementHandler *adminHandlers.AdminEntitlementHandler

	// Health
	healthHandler *handlers.HealthHandler
}

// ============================================================
// Section 4: Handlers
// ============================================================

// initHandlers creates the HTTP handlers over the wired use cases.
func (c *Container) initHandlers() {
	log := c.log
	ucs := c.ucs

	hdlrs := &allHandlers{}
	c.hdlrs = hdlrs

	hdlrs.entitlementHandler = handlers.NewEntitlementHandler(
		ucs.getEntitlementsUC, ucs.checkFeatureUC, ucs.consumeFeatureUC, ucs.useStreakShieldUC, log,
	)
	hdlrs.productHandler = handlers.NewProductHandler(ucs.listProductsUC, ucs.getProductUC, log)
	hdlrs.billingWebhookHandler = handlers.NewBillingWebhookHandler(ucs.applyBillingEventUC, log)
	hdlrs.adminEntitlementHandler = adminHandlers.NewAdminEntitlementHandler(
		ucs.getEntitlementsUC, ucs.creditTokensUC, ucs.listBillingEventsUC, log,
	)
	hdlrs.healthHandler = handlers.NewHealthHandler(c.db, c.redis, log)
}
