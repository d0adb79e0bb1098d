package expense

import (
	"encoding/json"
	"errors"
	"mime/multipart"

	"go-expense-sync/internal/codat"
	"go-expense-sync/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type ExpenseController struct {
	Service ExpenseService
}

func NewExpenseController(service ExpenseService) *ExpenseController {
	return &ExpenseController{
		Service: service,
	}
}

// SubmitSync pushes a batch of expenses and returns the sync id for polling.
// Client-correctable remote rejections come back as 400 with the platform's
// validation detail; server-side remote failures stay a generic 500.
func (ctrl *ExpenseController) SubmitSync(c *fiber.Ctx) error {
	companyID := c.Params("id")
	if companyID == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var items []ExpenseItem
	if err := c.BodyParser(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No expenses to sync",
		})
	}

	syncID, err := ctrl.Service.SubmitSync(c.UserContext(), companyID, items)
	if err != nil {
		var apiErr *codat.APIError
		if errors.As(err, &apiErr) && apiErr.ClientError() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":      "Expense sync rejected",
				"validation": validationDetail(apiErr.Body),
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to sync expenses")
	}

	return c.JSON(SubmitSyncResponse{SyncID: syncID})
}

// GetSync answers the result poll: 404 while the completion webhook has not
// arrived, the terminal outcome afterwards.
func (ctrl *ExpenseController) GetSync(c *fiber.Ctx) error {
	companyID := c.Params("id")
	syncID := c.Params("syncId")
	if companyID == "" || syncID == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	result, err := ctrl.Service.GetSyncResult(c.UserContext(), companyID, syncID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// UploadAttachment relays one uploaded file to the synced expense
// transaction on the platform.
func (ctrl *ExpenseController) UploadAttachment(c *fiber.Ctx) error {
	companyID := c.Params("id")
	syncID := c.Params("syncId")
	expenseID := c.Params("expenseId")
	if companyID == "" || syncID == "" || expenseID == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}

	// The client sends a single file; the field name is not significant.
	var header *multipart.FileHeader
	for _, headers := range form.File {
		if len(headers) > 0 {
			header = headers[0]
			break
		}
	}
	if header == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file in request",
		})
	}

	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}
	defer file.Close()

	if err := ctrl.Service.RelayAttachment(c.UserContext(), companyID, syncID, expenseID, header.Filename, file); err != nil {
		var apiErr *codat.APIError
		if errors.As(err, &apiErr) && apiErr.ClientError() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request",
			})
		}
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

// ImportExpenses parses an uploaded expense spreadsheet.
func (ctrl *ExpenseController) ImportExpenses(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error retrieving file",
		})
	}

	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error retrieving file",
		})
	}
	defer file.Close()

	items, err := ctrl.Service.ImportExpenses(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(ImportResponse{Items: items})
}

// validationDetail relays the remote body as structured JSON when possible,
// as a plain string otherwise.
func validationDetail(body []byte) any {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}
