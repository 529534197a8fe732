package models

import "github.com/google/uuid"

type InitializePaymentRequest struct {
	OrderID *uuid.UUID `json:"order_id,omitempty"`
}

type InitializePaymentResponse struct {
	CheckoutURL string  `json:"checkout_url"`
	TxRef       string  `json:"tx_ref"`
	Amount      float64 `json:"amount"`
}

type CreateIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type CreateIntentResponse struct {
	ClientSecret    string  `json:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
}

type VerifyPaymentResponse struct {
	Success bool                `json:"success"`
	Order   VerifyPaymentOrder  `json:"order"`
}

type VerifyPaymentOrder struct {
	ID            uuid.UUID   `json:"id"`
	Status        OrderStatus `json:"status"`
	PaymentStatus string      `json:"payment_status"`
}
