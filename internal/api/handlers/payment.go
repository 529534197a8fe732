package handlers

import (
	"net/http"

	"github.com/cooleo273/ecommerce-platform/internal/api/middleware"
	appErrors "github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/cooleo273/ecommerce-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validator:      validator.New(),
	}
}

func (h *PaymentHandler) Initialize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))

			return
		}

		// Body is optional; without an order_id the amount is quoted from
		// the current cart.
		var req models.InitializePaymentRequest
		if r.ContentLength > 0 {
			if err := utils.DecodeJSONBody(r, &req); err != nil {
				response.Error(w, appErrors.BadRequestError(err.Error()))

				return
			}
		}

		initResp, err := h.paymentService.InitializePayment(r.Context(), claims.UserID, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, initResp)
	}
}

func (h *PaymentHandler) Verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))

			return
		}

		txRef := r.PathValue("txRef")
		if txRef == "" {
			response.Error(w, appErrors.BadRequestError("txRef is required"))

			return
		}

		verifyResp, err := h.paymentService.VerifyPayment(r.Context(), claims.UserID, claims.Role == models.RoleAdmin, txRef)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, verifyResp)
	}
}

func (h *PaymentHandler) CreateIntent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.CreateIntentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		intentResp, err := h.paymentService.CreateCardIntent(r.Context(), claims.UserID, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, intentResp)
	}
}
