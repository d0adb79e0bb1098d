package webhook

import (
	"go-expense-sync/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type WebhookApi struct {
	controller *WebhookController
}

func NewWebhookApi(controller *WebhookController) api.Route {
	return &WebhookApi{
		controller: controller,
	}
}

func (h *WebhookApi) Setup(app *fiber.App) {
	app.Post("/api/webhooks", h.controller.ReceiveWebhook)
}
