package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/schoolpay-labs/schoolpay/internal/pkg/payments"
)

// TransactionController serves the admin aggregation of orders joined
// with their settlement state.
type TransactionController struct {
	repo payments.Repository
}

func NewTransactionController(repo payments.Repository) *TransactionController {
	return &TransactionController{repo: repo}
}

// HandleListTransactions handles GET /api/transactions.
func (tc *TransactionController) HandleListTransactions(c *fiber.Ctx) error {
	transactions, err := tc.repo.ListTransactions()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server Error",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    transactions,
	})
}
