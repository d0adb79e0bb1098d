package expense

import (
	"go-expense-sync/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type ExpenseApi struct {
	controller *ExpenseController
}

func NewExpenseApi(controller *ExpenseController) api.Route {
	return &ExpenseApi{
		controller: controller,
	}
}

func (h *ExpenseApi) Setup(app *fiber.App) {
	companies := app.Group("/api/companies")

	companies.Post("/:id/sync", h.controller.SubmitSync)
	companies.Get("/:id/syncs/:syncId", h.controller.GetSync)
	companies.Post("/:id/syncs/:syncId/expenses/:expenseId/attachments", h.controller.UploadAttachment)
	companies.Post("/:id/expenses/import", h.controller.ImportExpenses)
}
