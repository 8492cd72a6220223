// file: internals/features/finance/debts/route/debt_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	debtController "cobranza_backend/internals/features/finance/debts/controller"
	"cobranza_backend/internals/middlewares"
)

/*
Mount: DebtRoutes(app.Group("/api/v1/finance"), ctl)

	POST /debts/classify
	POST /debts/resolve
	POST /debts/quote
	POST /payments
	GET  /payments/outstanding
	GET  /payments/:id
	POST /payments/:id/tenders
	POST /payments/:id/void
	POST /payments/:id/checkout
	POST /payments/midtrans/notification
*/
func DebtRoutes(r fiber.Router, ctl *debtController.DebtController) {
	debts := r.Group("/debts")
	debts.Post("/classify", ctl.Classify)
	debts.Post("/resolve", ctl.Resolve)
	debts.Post("/quote", ctl.Quote)

	payments := r.Group("/payments")
	// static paths before /:id
	payments.Post("/midtrans/notification", ctl.MidtransNotification)
	payments.Get("/outstanding", ctl.ListOutstanding)

	settle := middlewares.SettlementRateLimiter()
	payments.Post("/", settle, ctl.CreatePayment)
	payments.Get("/:id", ctl.GetPayment)
	payments.Post("/:id/tenders", settle, ctl.ApplyTenders)
	payments.Post("/:id/void", settle, ctl.VoidPayment)
	payments.Post("/:id/checkout", settle, ctl.Checkout)
}
