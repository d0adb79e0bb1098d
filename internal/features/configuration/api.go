package configuration

import (
	"go-expense-sync/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type ConfigurationApi struct {
	controller *ConfigurationController
}

func NewConfigurationApi(controller *ConfigurationController) api.Route {
	return &ConfigurationApi{
		controller: controller,
	}
}

func (h *ConfigurationApi) Setup(app *fiber.App) {
	companies := app.Group("/api/companies")

	// The configuration page polls config-options with both verbs.
	companies.Get("/:id/config-options", h.controller.GetConfigOptions)
	companies.Post("/:id/config-options", h.controller.GetConfigOptions)
	companies.Post("/:id/config", h.controller.SaveConfig)
}
