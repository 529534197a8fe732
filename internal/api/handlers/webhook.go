package handlers

import (
	"io"
	"net/http"

	appErrors "github.com/cooleo273/ecommerce-platform/internal/errors"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/cooleo273/ecommerce-platform/internal/utils/response"
)

// Providers cap webhook bodies well below this; anything larger is abuse.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhookService *service.WebhookService
}

func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

func (h *WebhookHandler) Chapa() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Failed to read request body"))

			return
		}

		// The signature must be computed over the exact raw bytes, so the
		// body is never decoded before verification.
		signature := r.Header.Get("Chapa-Signature")
		if signature == "" {
			signature = r.Header.Get("x-chapa-signature")
		}

		if err := h.webhookService.ProcessChapaWebhook(r.Context(), payload, signature); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}

func (h *WebhookHandler) Stripe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Failed to read request body"))

			return
		}

		signature := r.Header.Get("Stripe-Signature")

		if err := h.webhookService.ProcessStripeWebhook(r.Context(), payload, signature); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}
