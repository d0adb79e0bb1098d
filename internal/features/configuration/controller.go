package configuration

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ConfigurationController struct {
	Service ConfigurationService
}

func NewConfigurationController(service ConfigurationService) *ConfigurationController {
	return &ConfigurationController{
		Service: service,
	}
}

// GetConfigOptions answers the configuration page's readiness poll. 404 is
// the retry-later sentinel: the client polls until the reference data pulls
// reported by webhook have all completed.
func (ctrl *ConfigurationController) GetConfigOptions(c *fiber.Ctx) error {
	companyID := c.Params("id")
	if companyID == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	options, err := ctrl.Service.GetConfigOptions(c.UserContext(), companyID)
	if errors.Is(err, ErrNotReady) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		return err
	}

	return c.JSON(options)
}

// SaveConfig relays the chosen mapping to the platform.
func (ctrl *ConfigurationController) SaveConfig(c *fiber.Ctx) error {
	companyID := c.Params("id")
	if companyID == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var req SaveConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	saved, err := ctrl.Service.SaveConfig(c.UserContext(), companyID, req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"config": saved,
	})
}
