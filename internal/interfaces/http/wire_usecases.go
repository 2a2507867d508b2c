package http

import (
	"time"

	catalogUsecases "github.com/carelog-health/carelog/internal/application/catalog/usecases"
	entitlementUsecases "github.com/carelog-health/carelog/internal/application/entitlement/usecases"
	"github.com/carelog-health/carelog/internal/domain/catalog"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/infrastructure/scheduler"
	shareddb "github.com/carelog-health/carelog/internal/shared/db"
	"github.com/carelog-health/carelog/internal/shared/services/markdown"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Entitlement
	getEntitlementsUC *entitlementUsecases.GetEntitlementsUseCase
	checkFeatureUC    *entitlementUsecases.CheckFeatureUseCase
	consumeFeatureUC  *entitlementUsecases.ConsumeFeatureUseCase
	useStreakShieldUC *entitlementUsecases.UseStreakShieldUseCase

	// Billing
	applyBillingEventUC *entitlementUsecases.ApplyBillingEventUseCase
	creditTokensUC      *entitlementUsecases.CreditTokensUseCase
	listBillingEventsUC *entitlementUsecases.ListBillingEventsUseCase
	expireLapsedUC      *entitlementUsecases.ExpireLapsedUseCase

	// Catalog
	listProductsUC *catalogUsecases.ListProductsUseCase
	getProductUC   *catalogUsecases.GetProductUseCase
}

// ============================================================
// Section 2: Entitlement - snapshot service, gate, use cases, sweep
// ============================================================

// initEntitlement wires the entitlement core. The snapshot service and gate
// are shared by every use case so rollover and gating behave identically on
// the read and write paths.
func (c *Container) initEntitlement() {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	ucs := &allUseCases{}
	c.ucs = ucs

	c.snapshots = entitlementUsecases.NewSnapshotService(repos.entitlementRepo, c.entitlementCache, log)
	c.gate = entitlement.NewGate(cfg.Entitlement.StrictFeatures)

	productCatalog, err := catalog.NewCatalog()
	if err != nil {
		log.Fatalw("failed to load product catalog", "error", err)
	}
	c.catalog = productCatalog

	txMgr := shareddb.NewTransactionManager(c.db)
	retryAttempts := cfg.Entitlement.ConsumeRetryAttempts

	ucs.getEntitlementsUC = entitlementUsecases.NewGetEntitlementsUseCase(c.snapshots, c.gate, log)
	ucs.checkFeatureUC = entitlementUsecases.NewCheckFeatureUseCase(c.snapshots, c.gate, log)
	ucs.consumeFeatureUC = entitlementUsecases.NewConsumeFeatureUseCase(c.snapshots, c.gate, repos.entitlementRepo, log, retryAttempts)
	ucs.useStreakShieldUC = entitlementUsecases.NewUseStreakShieldUseCase(c.snapshots, repos.entitlementRepo, log, retryAttempts)

	ucs.applyBillingEventUC = entitlementUsecases.NewApplyBillingEventUseCase(
		c.snapshots, repos.entitlementRepo, repos.billingEventRepo, c.catalog, txMgr, log,
	)
	ucs.creditTokensUC = entitlementUsecases.NewCreditTokensUseCase(
		c.snapshots, repos.entitlementRepo, repos.billingEventRepo, txMgr, log,
	)
	ucs.listBillingEventsUC = entitlementUsecases.NewListBillingEventsUseCase(repos.billingEventRepo, log)

	// Lapsed-subscription sweep. Webhooks are the primary downgrade path;
	// the sweep catches deliveries that never arrived.
	ucs.expireLapsedUC = entitlementUsecases.NewExpireLapsedUseCase(
		c.snapshots, repos.entitlementRepo, log, cfg.Billing.GraceDays, 0,
	)
	sweepInterval := time.Duration(cfg.Entitlement.SweepIntervalMinutes) * time.Minute
	c.entitlementScheduler = scheduler.NewEntitlementScheduler(ucs.expireLapsedUC, log.Named("scheduler"), sweepInterval)
}

// ============================================================
// Section 3: Catalog - embedded products, markdown rendering
// ============================================================

// initCatalog wires the storefront read path over the catalog loaded in
// Section 2.
func (c *Container) initCatalog() {
	log := c.log

	markdownService := markdown.NewMarkdownService()
	c.ucs.listProductsUC = catalogUsecases.NewListProductsUseCase(c.catalog, markdownService, log)
	c.ucs.getProductUC = catalogUsecases.NewGetProductUseCase(c.catalog, markdownService, log)
}
