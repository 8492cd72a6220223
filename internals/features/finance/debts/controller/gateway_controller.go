// file: internals/features/finance/debts/controller/gateway_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	dto "cobranza_backend/internals/features/finance/debts/dto"
	svc "cobranza_backend/internals/features/finance/debts/service"
	helper "cobranza_backend/internals/helpers"
)

// POST /payments/:id/checkout
func (h *DebtController) Checkout(c *fiber.Ctx) error {
	if h.Gateway == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "payment gateway is not configured")
	}
	id, ok, err := paymentIDParam(c)
	if !ok {
		return err
	}
	sess, err := h.Svc.Checkout(c.UserContext(), h.Gateway, id, h.today())
	if err != nil {
		if errors.Is(err, svc.ErrPaymentNotFound) || errors.Is(err, svc.ErrInvalidInput) ||
			errors.Is(err, svc.ErrPaymentVoided) || errors.Is(err, svc.ErrNothingPending) ||
			errors.Is(err, svc.ErrConcurrentModification) {
			return writeError(c, err)
		}
		log.Printf("[ERROR] midtrans checkout payment=%s: %v", id, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "midtrans error: "+err.Error())
	}
	return helper.JsonCreated(c, "checkout created", dto.FromCheckout(id, sess))
}

// POST /payments/midtrans/notification
//
// Unknown orders are acknowledged with 200 so the gateway stops retrying.
func (h *DebtController) MidtransNotification(c *fiber.Ctx) error {
	var req dto.MidtransNotification
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	n := req.ToNotification()

	if h.MidtransServerKey != "" && !svc.VerifyGatewaySignature(n, h.MidtransServerKey) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	outcome, applied, err := h.Svc.HandleGatewayNotification(c.UserContext(), n, h.today())
	if errors.Is(err, svc.ErrPaymentNotFound) {
		log.Printf("[WARN] midtrans notification for unknown order_id=%s", n.OrderID)
		return helper.JsonOK(c, "ignored", dto.NotificationResponse{Status: "ignored", Outcome: outcome})
	}
	if err != nil {
		return writeError(c, err)
	}
	log.Printf("[INFO] midtrans order_id=%s status=%s outcome=%s applied=%t",
		n.OrderID, n.TransactionStatus, outcome, applied)
	return helper.JsonOK(c, "ok", dto.NotificationResponse{Status: "ok", Outcome: outcome, Applied: applied})
}
