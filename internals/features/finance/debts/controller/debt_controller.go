// file: internals/features/finance/debts/controller/debt_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "cobranza_backend/internals/features/finance/debts/dto"
	svc "cobranza_backend/internals/features/finance/debts/service"
	helper "cobranza_backend/internals/helpers"
)

/* =======================================================================
   Controller
======================================================================= */

type DebtController struct {
	Svc               *svc.PaymentAppService
	Gateway           svc.CheckoutGateway // nil = checkout disabled
	Validator         *validator.Validate
	MidtransServerKey string
	Location          *time.Location
	Now               func() time.Time
}

func NewDebtController(s *svc.PaymentAppService, gw svc.CheckoutGateway, midtransServerKey string, loc *time.Location) *DebtController {
	if loc == nil {
		loc = time.Local
	}
	return &DebtController{
		Svc:               s,
		Gateway:           gw,
		Validator:         validator.New(),
		MidtransServerKey: midtransServerKey,
		Location:          loc,
		Now:               time.Now,
	}
}

// today is the reference date every settlement pass uses, in the configured zone.
func (h *DebtController) today() time.Time {
	return h.Now().In(h.Location)
}

// bind parses and validates the body; it writes the error response itself.
func (h *DebtController) bind(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(out); err != nil {
		return false, helper.JsonValidationError(c, helper.ValidationFieldErrors(err))
	}
	return true, nil
}

// paymentIDParam parses :id like bind parses bodies; the nil UUID is rejected too.
func paymentIDParam(c *fiber.Ctx) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false, helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}
	return id, true, nil
}

// writeError maps engine errors to HTTP statuses.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, svc.ErrPaymentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, svc.ErrConcurrentModification),
		errors.Is(err, svc.ErrPaymentVoided),
		errors.Is(err, svc.ErrNothingPending):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal error")
}

/* =======================================================================
   Handlers: debts
======================================================================= */

// POST /debts/classify
func (h *DebtController) Classify(c *fiber.Ctx) error {
	var req dto.DescriptionRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	category, key, err := h.Svc.Resolver().Classifier().Classify(req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "classified", dto.ClassifyResponse{
		Description: svc.NormalizeDescription(req.Description),
		Category:    category,
		LookupKey:   key,
	})
}

// POST /debts/resolve
func (h *DebtController) Resolve(c *fiber.Ctx) error {
	var req dto.DescriptionRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	h.Svc.RefreshProducts(c.UserContext(), h.today())
	ref, err := h.Svc.Resolver().Resolve(c.UserContext(), req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "resolved", dto.FromReference(ref))
}

// POST /debts/quote
func (h *DebtController) Quote(c *fiber.Ctx) error {
	var req dto.QuoteRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	in, err := req.ToInput(h.today(), h.Location)
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.Svc.Quote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromBreakdown(in.Base, b, in.Today))
}

/* =======================================================================
   Handlers: payments
======================================================================= */

// POST /payments
func (h *DebtController) CreatePayment(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	in, err := req.ToInput(h.today())
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.Svc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonCreated(c, "payment registered", dto.FromResult(res))
}

// GET /payments/:id
func (h *DebtController) GetPayment(c *fiber.Ctx) error {
	id, ok, err := paymentIDParam(c)
	if !ok {
		return err
	}
	res, err := h.Svc.Get(c.UserContext(), id, h.today())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromResult(res))
}

// POST /payments/:id/tenders
func (h *DebtController) ApplyTenders(c *fiber.Ctx) error {
	id, ok, err := paymentIDParam(c)
	if !ok {
		return err
	}
	var req dto.ApplyTendersRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	tenders, err := dto.ToTenders(req.Tenders)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.Svc.ApplyTenders(c.UserContext(), id, tenders, h.today())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "tenders applied", dto.FromResult(res))
}

// POST /payments/:id/void
func (h *DebtController) VoidPayment(c *fiber.Ctx) error {
	id, ok, err := paymentIDParam(c)
	if !ok {
		return err
	}
	p, err := h.Svc.Void(c.UserContext(), id, h.Now())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "payment voided", dto.FromPayment(p))
}

// GET /payments/outstanding?category=MONTHLY_DUE,PRODUCT&page=1&per_page=20
func (h *DebtController) ListOutstanding(c *fiber.Ctx) error {
	cats, err := dto.ParseCategories(c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	pg := helper.ResolvePaging(c, 20, 200)
	rows, total, err := h.Svc.Outstanding(c.UserContext(), svc.OutstandingFilter{
		Categories: cats,
		Offset:     pg.Offset,
		Limit:      pg.Limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromOutstandingRows(rows),
		helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit))
}
