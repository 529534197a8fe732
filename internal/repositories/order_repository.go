package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/google/uuid"
)

// ErrCartConflict is returned when the checkout transaction finds the cart
// already consumed, which happens when two checkouts race on one cart.
var ErrCartConflict = errors.New("cart was modified by a concurrent checkout")

// ErrInsufficientStock is returned in strict-inventory mode when a product
// cannot cover the purchased quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository interface {
	// CreateFromCart atomically inserts the order with its item snapshots,
	// empties the cart, and decrements inventory for every purchased item.
	CreateFromCart(ctx context.Context, order *models.Order, cartID uuid.UUID, strictInventory bool) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	ListAllOrders(ctx context.Context, filter *models.OrderFilter) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	// UpdateStatusFrom transitions only when the order is currently in the
	// expected state; reports whether a row changed. This is what makes
	// webhook redelivery idempotent.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error)
	SetPaymentIntentID(ctx context.Context, id uuid.UUID, paymentIntentID string) error
	// ClaimConfirmation stamps confirmation_sent_at if unset and reports
	// whether this caller won the claim. Guards against duplicate emails.
	ClaimConfirmation(ctx context.Context, id uuid.UUID) (bool, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateFromCart(ctx context.Context, order *models.Order, cartID uuid.UUID, strictInventory bool) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	orderInsert := `
		INSERT INTO orders (id, order_number, user_id, status, total, shipping_fee, shipping_address_id, payment_method, payment_intent_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, orderInsert,
		order.ID, order.OrderNumber, order.UserID, order.Status, order.Total, order.ShippingFee,
		order.ShippingAddressID, order.PaymentMethod, nullableString(order.PaymentIntentID), order.Notes).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemInsert := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, size, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i := range order.Items {

		item := &order.Items[i]

		if _, err := tx.ExecContext(dbCtx, itemInsert,
			item.ID, order.ID, item.ProductID, item.Quantity, item.Price, item.Size, item.Color); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	// Consuming zero rows means another checkout already emptied this cart;
	// abort rather than mint a second order from the same contents.
	result, err := tx.ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get cleared rows: %w", err)
	}

	if deleted == 0 {
		return ErrCartConflict
	}

	for i := range order.Items {

		item := &order.Items[i]

		if strictInventory {

			res, err := tx.ExecContext(dbCtx,
				`UPDATE products SET inventory = inventory - $1, updated_at = NOW() WHERE id = $2 AND inventory >= $1`,
				item.Quantity, item.ProductID)
			if err != nil {
				return fmt.Errorf("failed to decrement inventory: %w", err)
			}

			updated, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get decremented rows: %w", err)
			}

			if updated == 0 {
				return ErrInsufficientStock
			}

			continue
		}

		// Single atomic UPDATE with clamp; a read-then-write round trip here
		// would lose updates under concurrent checkouts of the same product.
		if _, err := tx.ExecContext(dbCtx,
			`UPDATE products SET inventory = GREATEST(inventory - $1, 0), updated_at = NOW() WHERE id = $2`,
			item.Quantity, item.ProductID); err != nil {
			return fmt.Errorf("failed to decrement inventory: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return nil
}

const orderColumns = `id, order_number, user_id, status, total, shipping_fee, shipping_address_id, payment_method, payment_intent_id, notes, confirmation_sent_at, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*models.Order, error) {

	order := &models.Order{}
	var paymentIntentID sql.NullString
	var confirmationSentAt sql.NullTime

	err := scanner.Scan(&order.ID, &order.OrderNumber, &order.UserID, &order.Status,
		&order.Total, &order.ShippingFee, &order.ShippingAddressID, &order.PaymentMethod,
		&paymentIntentID, &order.Notes, &confirmationSentAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if paymentIntentID.Valid {
		order.PaymentIntentID = paymentIntentID.String
	}

	if confirmationSentAt.Valid {
		order.ConfirmationSentAt = &confirmationSentAt.Time
	}

	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(dbCtx, order); err != nil {
		return nil, err
	}

	if err := r.loadShippingAddress(dbCtx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) GetOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx,
		`SELECT `+orderColumns+` FROM orders WHERE payment_intent_id = $1`, paymentIntentID))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(dbCtx, order); err != nil {
		return nil, err
	}

	if err := r.loadShippingAddress(dbCtx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *models.Order) error {

	query := `
		SELECT oi.id, oi.product_id, oi.quantity, oi.price, oi.size, oi.color, p.name
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`

	rows, err := r.DB.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	defer rows.Close()

	for rows.Next() {

		item := models.OrderItem{OrderID: order.ID}
		var productName string

		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price, &item.Size, &item.Color, &productName); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}

		item.Product = &models.Product{ID: item.ProductID, Name: productName}
		order.Items = append(order.Items, item)
	}

	return rows.Err()
}

func (r *orderRepository) loadShippingAddress(ctx context.Context, order *models.Order) error {

	addr := &models.Address{}

	query := `
		SELECT id, user_id, street, city, state, zip_code, country, phone, is_default, created_at, updated_at
		FROM addresses WHERE id = $1
	`

	err := r.DB.QueryRowContext(ctx, query, order.ShippingAddressID).
		Scan(&addr.ID, &addr.UserID, &addr.Street, &addr.City, &addr.State, &addr.ZipCode,
			&addr.Country, &addr.Phone, &addr.IsDefault, &addr.CreatedAt, &addr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}

		return fmt.Errorf("failed to load shipping address: %w", err)
	}

	order.ShippingAddress = addr

	return nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		if err := r.loadItems(dbCtx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}

	return orders, total, nil
}

func (r *orderRepository) ListAllOrders(ctx context.Context, filter *models.OrderFilter) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := ""
	countArgs := []any{}

	if filter.Status != nil {
		where = " WHERE status = $1"
		countArgs = append(countArgs, *filter.Status)
	}

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	args := countArgs
	n := len(args)

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, filter.PageSize, offset)

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *orderRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, time.Now(), id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition order status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get updated rows: %w", err)
	}

	return updatedRows > 0, nil
}

func (r *orderRepository) SetPaymentIntentID(ctx context.Context, id uuid.UUID, paymentIntentID string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE orders SET payment_intent_id = $1, updated_at = $2 WHERE id = $3`,
		paymentIntentID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set payment intent id: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *orderRepository) ClaimConfirmation(ctx context.Context, id uuid.UUID) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE orders SET confirmation_sent_at = NOW() WHERE id = $1 AND confirmation_sent_at IS NULL`, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim confirmation: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get updated rows: %w", err)
	}

	return updatedRows > 0, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}
