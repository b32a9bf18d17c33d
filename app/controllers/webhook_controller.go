package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/schoolpay-labs/schoolpay/internal/pkg/payments"
)

// WebhookController receives asynchronous settlement callbacks from
// the payment gateway, on GET and POST alike.
type WebhookController struct {
	rec *payments.Reconciler
}

func NewWebhookController(rec *payments.Reconciler) *WebhookController {
	return &WebhookController{rec: rec}
}

// HandleWebhook handles GET|POST /api/webhooks.
//
// The response is always 200 with a description of what was derived,
// unless no order identifier could be determined at all (400). Local
// storage or enrichment failures never change the HTTP status: the
// gateway's retry and alerting behavior on non-200s is unpredictable,
// and a retry would not fix a local outage anyway.
func (wc *WebhookController) HandleWebhook(c *fiber.Ctx) error {
	var in payments.InboundWebhook
	if c.Method() == fiber.MethodGet {
		in = payments.InboundFromQuery(string(c.Request().URI().QueryString()))
	} else {
		in = payments.InboundFromBody(c.Body())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	out, err := wc.rec.Process(ctx, in)
	if err != nil {
		if errors.Is(err, payments.ErrMissingOrderID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Missing order_id or EdvironCollectRequestId",
			})
		}
		// Absorb anything else; the delivery is already logged.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Webhook received",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Webhook processed successfully",
		"data":    out,
	})
}
