package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/schoolpay-labs/schoolpay/internal/pkg/payments"
)

// PaymentController exposes payment creation and the live status read.
type PaymentController struct {
	svc *payments.Service
}

func NewPaymentController(svc *payments.Service) *PaymentController {
	return &PaymentController{svc: svc}
}

type createPaymentRequest struct {
	// Amount is accepted as a JSON number or a numeric string; the
	// service coerces and validates it.
	Amount      any                   `json:"amount"`
	StudentInfo payments.StudentInput `json:"student_info"`
}

// HandleCreatePayment handles POST /api/payments/create-payment.
func (pc *PaymentController) HandleCreatePayment(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	res, err := pc.svc.CreatePayment(ctx, req.Amount, req.StudentInfo)
	if err != nil {
		if errors.Is(err, payments.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		var ge *payments.GatewayError
		if errors.As(err, &ge) {
			return c.Status(ge.HTTPStatus()).JSON(fiber.Map{
				"success": false,
				"message": "Payment creation failed",
				"error":   ge.Body,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Payment creation failed",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

// HandleCheckStatus handles GET /api/payments/status/:collect_request_id.
// Always a live gateway read; never served from local state.
func (pc *PaymentController) HandleCheckStatus(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("collect_request_id"))
	if id == "" {
		id = strings.TrimSpace(c.Query("collect_request_id"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	res, err := pc.svc.GetStatus(ctx, id)
	if err != nil {
		if errors.Is(err, payments.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "collect_request_id is required",
			})
		}
		var ge *payments.GatewayError
		if errors.As(err, &ge) {
			status := ge.StatusCode
			if status == 0 {
				status = fiber.StatusInternalServerError
			}
			return c.Status(status).JSON(fiber.Map{
				"success": false,
				"message": "Failed to fetch payment status",
				"error":   ge.Body,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch payment status",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Payment status fetched successfully",
		"data":    res,
	})
}
