package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/schoolpay-labs/schoolpay/app/controllers"
	"github.com/schoolpay-labs/schoolpay/internal/pkg/database"
	"github.com/schoolpay-labs/schoolpay/internal/pkg/middleware"
	"github.com/schoolpay-labs/schoolpay/internal/pkg/payments"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	cfg := payments.LoadConfig()
	db := database.GetDB()

	paymentController := controllers.NewPaymentController(payments.NewServiceFromDB(cfg, db))
	webhookController := controllers.NewWebhookController(payments.NewReconcilerFromDB(cfg, db))
	transactionController := controllers.NewTransactionController(payments.NewRepository(db))

	api := app.Group("/api", limiter.New(limiter.Config{
		Max: 120,
		// Webhooks must never be throttled away; the gateway's retry
		// behavior on 429 is undefined.
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/webhooks"
		},
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	pay := api.Group("/payments", middleware.RequireAPIKey(cfg.InternalAPIKey))
	pay.Post("/create-payment", paymentController.HandleCreatePayment)
	pay.Get("/status/:collect_request_id", paymentController.HandleCheckStatus)

	api.Get("/webhooks", webhookController.HandleWebhook)
	api.Post("/webhooks", webhookController.HandleWebhook)

	api.Get("/transactions", middleware.RequireAPIKey(cfg.InternalAPIKey), transactionController.HandleListTransactions)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
