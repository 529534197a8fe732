package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderItem is an immutable snapshot: Price is the per-unit price net of
// discount at the time the order was created, decoupled from the live
// product price.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Product   *Product  `json:"product,omitempty"`
}

type Order struct {
	ID                 uuid.UUID   `json:"id"`
	OrderNumber        string      `json:"order_number"`
	UserID             uuid.UUID   `json:"user_id"`
	Status             OrderStatus `json:"status"`
	Total              float64     `json:"total"`
	ShippingFee        float64     `json:"shipping_fee"`
	ShippingAddressID  uuid.UUID   `json:"shipping_address_id"`
	PaymentMethod      string      `json:"payment_method"`
	PaymentIntentID    string      `json:"payment_intent_id,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	ConfirmationSentAt *time.Time  `json:"confirmation_sent_at,omitempty"`
	Items              []OrderItem `json:"items"`
	ShippingAddress    *Address    `json:"shipping_address,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type CheckoutRequest struct {
	ShippingAddressID uuid.UUID `json:"shipping_address_id" validate:"required"`
	PaymentMethod     string    `json:"payment_method" validate:"required"`
	Notes             string    `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status   *OrderStatus
	Page     int
	PageSize int
}
