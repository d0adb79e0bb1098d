package company

import (
	"errors"

	"go-expense-sync/internal/codat"

	"github.com/gofiber/fiber/v2"
)

type CompanyController struct {
	Service CompanyService
}

func NewCompanyController(service CompanyService) *CompanyController {
	return &CompanyController{
		Service: service,
	}
}

// CreateCompany provisions a new company on the platform and returns the
// hosted redirect link.
func (ctrl *CompanyController) CreateCompany(c *fiber.Ctx) error {
	var req CreateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.CompanyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "companyName is required",
		})
	}

	created, err := ctrl.Service.CreateCompany(c.UserContext(), req.CompanyName)
	if err != nil {
		var apiErr *codat.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusPaymentRequired {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": "Free trial limits hit. Please delete a company.",
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}
