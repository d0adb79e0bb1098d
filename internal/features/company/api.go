package company

import (
	"go-expense-sync/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type CompanyApi struct {
	controller *CompanyController
}

func NewCompanyApi(controller *CompanyController) api.Route {
	return &CompanyApi{
		controller: controller,
	}
}

func (h *CompanyApi) Setup(app *fiber.App) {
	app.Post("/api/companies", h.controller.CreateCompany)
}
