// file: internals/route/details/finance_routes.go
package details

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"cobranza_backend/internals/configs"
	debtController "cobranza_backend/internals/features/finance/debts/controller"
	debtMetrics "cobranza_backend/internals/features/finance/debts/metrics"
	debtRepo "cobranza_backend/internals/features/finance/debts/repository"
	debtRoute "cobranza_backend/internals/features/finance/debts/route"
	debtService "cobranza_backend/internals/features/finance/debts/service"
)

// NewDebtController wires catalog, store and gateway for the finance routes.
// The returned scheduler is nil when the catalog refresh is disabled.
func NewDebtController(db *gorm.DB, cfg configs.App) (*debtController.DebtController, *cron.Cron) {
	catalog := debtRepo.NewCatalogRepository(db)
	cached := debtRepo.NewCachedCatalog(catalog, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)

	products := debtService.NewProductIndex(catalog.ListProductNames, cfg.ProductIndexTTL)
	resolver := debtService.NewResolver(debtService.NewDefaultClassifier(products), cached)
	svc := debtService.NewPaymentAppService(resolver, catalog, debtRepo.NewPaymentStore(db), products)
	if obs, err := debtMetrics.NewPrometheusObserver("debts", nil); err != nil {
		log.Printf("[WARN] debts metrics disabled: %v", err)
	} else {
		svc.SetObserver(obs)
	}

	refresher, err := debtService.StartCatalogRefresher(cfg.CatalogRefreshCron, products, cached)
	if err != nil {
		log.Printf("[WARN] catalog refresher not started: %v", err)
	}

	var gw debtService.CheckoutGateway
	if cfg.MidtransServerKey != "" {
		gw = debtService.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransUseProd)
	} else {
		log.Println("[WARN] Midtrans disabled: checkout returns 503")
	}
	return debtController.NewDebtController(svc, gw, cfg.MidtransServerKey, cfg.Timezone), refresher
}

func FinanceRoutes(r fiber.Router, db *gorm.DB, cfg configs.App) *cron.Cron {
	ctl, refresher := NewDebtController(db, cfg)
	debtRoute.DebtRoutes(r, ctl)
	return refresher
}
