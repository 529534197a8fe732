package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cooleo273/ecommerce-platform/internal/api/middleware"
	appErrors "github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/cooleo273/ecommerce-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.Checkout(r.Context(), claims.UserID, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("order created",
			slog.String("order_id", order.ID.String()),
			slog.String("order_number", order.OrderNumber),
			slog.Float64("total", order.Total))

		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))

			return
		}

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		order, err := h.orderService.GetOrder(r.Context(), claims.UserID, claims.Role == models.RoleAdmin, orderID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))

			return
		}

		query := r.URL.Query()
		page := parsePositiveInt(query.Get("page"), defaultPage)
		size := parsePositiveInt(query.Get("pageSize"), defaultPageSize)

		listResp, err := h.orderService.ListOrders(r.Context(), claims.UserID, page, size)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, listResp)
	}
}

func (h *OrderHandler) ListAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		query := r.URL.Query()

		filter := &models.OrderFilter{
			Page:     parsePositiveInt(query.Get("page"), defaultPage),
			PageSize: parsePositiveInt(query.Get("pageSize"), defaultPageSize),
		}

		if raw := query.Get("status"); raw != "" {
			status := models.OrderStatus(raw)
			filter.Status = &status
		}

		listResp, err := h.orderService.ListAllOrders(r.Context(), filter)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, listResp)
	}
}

func (h *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), orderID, req.Status)
		if err != nil {
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("order status updated",
			slog.String("order_id", order.ID.String()),
			slog.String("status", string(order.Status)))

		response.Success(w, http.StatusOK, order)
	}
}
