package webhook

import (
	"github.com/gofiber/fiber/v2"
)

type WebhookController struct {
	Service WebhookService
}

func NewWebhookController(service WebhookService) *WebhookController {
	return &WebhookController{
		Service: service,
	}
}

// ReceiveWebhook ingests one asynchronous event from the platform. The
// platform only needs a 200 acknowledgement; there is no retry queue on our
// side, a failed store write surfaces as a 500 and relies on the sender's
// own redelivery.
func (ctrl *WebhookController) ReceiveWebhook(c *fiber.Ctx) error {
	var event Envelope
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Process(c.UserContext(), event); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}
