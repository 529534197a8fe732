package service

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log/slog"

	"github.com/cooleo273/ecommerce-platform/internal/api/middleware"
	"github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/events"
	"github.com/cooleo273/ecommerce-platform/internal/metrics"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/cooleo273/ecommerce-platform/pkg/chapa"
	"github.com/cooleo273/ecommerce-platform/pkg/sendgrid"
	"github.com/cooleo273/ecommerce-platform/pkg/stripe"
	stripelib "github.com/stripe/stripe-go/v81"
)

// Chapa event names posted to the webhook endpoint.
const (
	chapaEventCompleted = "charge.completed"
	chapaEventFailed    = "charge.failed"
)

// PaymentReconciler applies the outcome of a payment to an order. Every
// step is idempotent, so webhook redeliveries and the browser return flow
// can race each other without double effects.
type PaymentReconciler struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	email     sendgrid.EmailService
	publisher events.Publisher
}

func NewPaymentReconciler(orderRepo repository.OrderRepository, cartRepo repository.CartRepository,
	userRepo repository.UserRepository, email sendgrid.EmailService, publisher events.Publisher) *PaymentReconciler {
	return &PaymentReconciler{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		email:     email,
		publisher: publisher,
	}
}

// ApplySuccess moves the order to PROCESSING, sends the confirmation email
// exactly once, and clears any cart items the checkout left behind.
func (r *PaymentReconciler) ApplySuccess(ctx context.Context, order *models.Order) {

	logger := middleware.LoggerFromContext(ctx).With(
		slog.String("order_id", order.ID.String()),
		slog.String("order_number", order.OrderNumber))

	transitioned, err := r.orderRepo.UpdateStatusFrom(ctx, order.ID, models.OrderStatusPending, models.OrderStatusProcessing)
	if err != nil {
		logger.Error("failed to transition order", slog.Any("error", err))

		return
	}

	if !transitioned {
		logger.Info("order already past pending, skipping transition")
	} else {
		if err := r.publisher.Publish(ctx, events.OrderPaymentSucceeded, map[string]any{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total":        order.Total,
		}); err != nil {
			logger.Warn("failed to publish payment event", slog.Any("error", err))
		}
	}

	r.sendConfirmation(ctx, logger, order)

	// The checkout transaction clears the cart, but a payment completing
	// for an older order should still leave the user with an empty cart.
	if err := r.cartRepo.Clear(ctx, order.UserID); err != nil {
		logger.Warn("failed to clear cart after payment", slog.Any("error", err))
	}
}

// ApplyFailure cancels the order if it is still pending.
func (r *PaymentReconciler) ApplyFailure(ctx context.Context, order *models.Order) {

	logger := middleware.LoggerFromContext(ctx).With(
		slog.String("order_id", order.ID.String()))

	transitioned, err := r.orderRepo.UpdateStatusFrom(ctx, order.ID, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil {
		logger.Error("failed to cancel order", slog.Any("error", err))

		return
	}

	if !transitioned {
		logger.Info("order already past pending, skipping cancellation")

		return
	}

	if err := r.publisher.Publish(ctx, events.OrderPaymentFailed, map[string]any{
		"order_id": order.ID,
	}); err != nil {
		logger.Warn("failed to publish payment event", slog.Any("error", err))
	}
}

func (r *PaymentReconciler) sendConfirmation(ctx context.Context, logger *slog.Logger, order *models.Order) {

	claimed, err := r.orderRepo.ClaimConfirmation(ctx, order.ID)
	if err != nil {
		logger.Error("failed to claim confirmation", slog.Any("error", err))

		return
	}

	if !claimed {
		return
	}

	user, err := r.userRepo.GetUserByID(ctx, order.UserID)
	if err != nil {
		logger.Error("failed to load user for confirmation email", slog.Any("error", err))

		return
	}

	if err := r.email.SendOrderConfirmation(ctx, user.Email, order); err != nil {
		logger.Error("failed to send confirmation email", slog.Any("error", err))
	}
}

type WebhookService struct {
	orderRepo    repository.OrderRepository
	chapaClient  chapa.Client
	stripeClient stripe.Client
	reconciler   *PaymentReconciler
}

func NewWebhookService(orderRepo repository.OrderRepository, chapaClient chapa.Client,
	stripeClient stripe.Client, reconciler *PaymentReconciler) *WebhookService {
	return &WebhookService{
		orderRepo:    orderRepo,
		chapaClient:  chapaClient,
		stripeClient: stripeClient,
		reconciler:   reconciler,
	}
}

// ProcessChapaWebhook authenticates, re-verifies, and applies a Chapa
// event. A bad signature is the only error outcome; everything past the
// signature check acknowledges so Chapa stops redelivering.
func (s *WebhookService) ProcessChapaWebhook(ctx context.Context, payload []byte, signature string) error {

	logger := middleware.LoggerFromContext(ctx)

	if !s.chapaClient.VerifyWebhookSignature(payload, signature) {
		metrics.WebhookEvent("chapa", "bad_signature")

		return errors.BadRequestError("Invalid webhook signature")
	}

	var event chapa.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		metrics.WebhookEvent("chapa", "bad_payload")
		logger.Warn("discarding malformed webhook payload", slog.Any("error", err))

		return nil
	}

	if event.Event != chapaEventCompleted && event.Event != chapaEventFailed {
		metrics.WebhookEvent("chapa", "ignored")
		logger.Info("ignoring chapa event", slog.String("event", event.Event))

		return nil
	}

	order, err := s.orderRepo.GetOrderByPaymentIntentID(ctx, event.TxRef)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			metrics.WebhookEvent("chapa", "unknown_ref")
			logger.Warn("webhook for unknown transaction", slog.String("tx_ref", event.TxRef))

			return nil
		}

		metrics.WebhookEvent("chapa", "error")

		return errors.DatabaseError("Failed to look up order").WithError(err)
	}

	if event.Event == chapaEventFailed {
		s.reconciler.ApplyFailure(ctx, order)
		metrics.WebhookEvent("chapa", "processed")

		return nil
	}

	// Never trust the event body alone; confirm with Chapa before moving
	// money-adjacent state.
	verifyResp, err := s.chapaClient.Verify(ctx, event.TxRef)
	if err != nil {
		metrics.WebhookEvent("chapa", "error")

		return errors.ThirdPartyError("Failed to verify transaction").WithError(err)
	}

	if verifyResp.Data.Status != "success" {
		metrics.WebhookEvent("chapa", "unconfirmed")
		logger.Warn("completed event did not verify",
			slog.String("tx_ref", event.TxRef), slog.String("status", verifyResp.Data.Status))

		return nil
	}

	s.reconciler.ApplySuccess(ctx, order)
	metrics.WebhookEvent("chapa", "processed")

	return nil
}

// ProcessStripeWebhook handles payment intent outcomes from Stripe. The
// signed event construct is Stripe's own verification, so no second
// verify call is needed.
func (s *WebhookService) ProcessStripeWebhook(ctx context.Context, payload []byte, signature string) error {

	logger := middleware.LoggerFromContext(ctx)

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		metrics.WebhookEvent("stripe", "bad_signature")

		return errors.BadRequestError("Invalid webhook signature").WithError(err)
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
	default:
		metrics.WebhookEvent("stripe", "ignored")
		logger.Info("ignoring stripe event", slog.String("event", string(event.Type)))

		return nil
	}

	var intent stripelib.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		metrics.WebhookEvent("stripe", "bad_payload")
		logger.Warn("discarding malformed webhook payload", slog.Any("error", err))

		return nil
	}

	order, err := s.orderRepo.GetOrderByPaymentIntentID(ctx, intent.ID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			metrics.WebhookEvent("stripe", "unknown_ref")
			logger.Warn("webhook for unknown payment intent", slog.String("intent_id", intent.ID))

			return nil
		}

		metrics.WebhookEvent("stripe", "error")

		return errors.DatabaseError("Failed to look up order").WithError(err)
	}

	if event.Type == "payment_intent.succeeded" {
		s.reconciler.ApplySuccess(ctx, order)
	} else {
		s.reconciler.ApplyFailure(ctx, order)
	}

	metrics.WebhookEvent("stripe", "processed")

	return nil
}
