package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/api/middleware"
	"github.com/cooleo273/ecommerce-platform/internal/config"
	"github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/events"
	"github.com/cooleo273/ecommerce-platform/internal/metrics"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/google/uuid"
)

type OrderService struct {
	repo        repository.OrderRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	publisher   events.Publisher
	cfg         *config.Checkout
}

func NewOrderService(repo repository.OrderRepository, cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository, publisher events.Publisher, cfg *config.Checkout) *OrderService {
	return &OrderService{
		repo:        repo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// Checkout converts the user's cart into a pending order. Item prices are
// snapshotted net of discount, shipping is flat below the free-shipping
// threshold, and the whole conversion happens in one database transaction.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error) {

	cart, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, errors.ConflictError("Cart is empty")
	}

	address, err := s.addressRepo.GetAddressByID(ctx, req.ShippingAddressID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Shipping address not found")
		}

		return nil, errors.DatabaseError("Failed to fetch shipping address").WithError(err)
	}

	if address.UserID != userID {
		return nil, errors.ForbiddenError("Shipping address does not belong to this user")
	}

	subtotal := Subtotal(cart.Items)
	shippingFee := ShippingFee(subtotal, s.cfg)

	order := &models.Order{
		ID:                uuid.New(),
		OrderNumber:       generateOrderNumber(),
		UserID:            userID,
		Status:            models.OrderStatusPending,
		Total:             utils.Round2(subtotal + shippingFee),
		ShippingFee:       shippingFee,
		ShippingAddressID: req.ShippingAddressID,
		PaymentMethod:     req.PaymentMethod,
		Notes:             req.Notes,
	}

	for _, item := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     utils.Round2(item.Product.EffectivePrice()),
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	if err := s.repo.CreateFromCart(ctx, order, cart.ID, s.cfg.StrictInventory); err != nil {
		switch {
		case stderrors.Is(err, repository.ErrCartConflict):
			return nil, errors.ConflictError("Cart changed during checkout, please retry")
		case stderrors.Is(err, repository.ErrInsufficientStock):
			return nil, errors.ConflictError("One or more items are no longer in stock")
		default:
			return nil, errors.DatabaseError("Failed to create order").WithError(err)
		}
	}

	metrics.OrderCreated()

	if err := s.publisher.Publish(ctx, events.OrderCreated, map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.Total,
	}); err != nil {
		middleware.LoggerFromContext(ctx).Warn("failed to publish order event",
			slog.String("order_id", order.ID.String()), slog.Any("error", err))
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found")
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if !isAdmin && order.UserID != userID {
		return nil, errors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) (*models.PaginatedResponse, error) {

	orders, total, err := s.repo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	return &models.PaginatedResponse{
		Data:     orders,
		Total:    total,
		Page:     page,
		PageSize: size,
	}, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context, filter *models.OrderFilter) (*models.PaginatedResponse, error) {

	orders, total, err := s.repo.ListAllOrders(ctx, filter)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	return &models.PaginatedResponse{
		Data:     orders,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found")
		}

		return nil, errors.DatabaseError("Failed to update order status").WithError(err)
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

var orderNumberMax = big.NewInt(1 << 31) // ~6 base36 digits

// ShippingFee is zero at or above the free-shipping threshold, otherwise
// the flat fee.
func ShippingFee(subtotal float64, cfg *config.Checkout) float64 {

	if subtotal >= cfg.FreeShippingThreshold {
		return 0
	}

	return cfg.FlatShippingFee
}

// generateOrderNumber produces a human-readable identifier such as
// ORD-1735689600000-4F7A2B.
func generateOrderNumber() string {

	n, err := rand.Int(rand.Reader, orderNumberMax)
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % (1 << 31))
	}

	suffix := strings.ToUpper(strconv.FormatInt(n.Int64(), 36))
	for len(suffix) < 6 {
		suffix = "0" + suffix
	}

	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix[:6])
}
