package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"math"

	"github.com/cooleo273/ecommerce-platform/internal/config"
	"github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/cooleo273/ecommerce-platform/pkg/chapa"
	"github.com/cooleo273/ecommerce-platform/pkg/stripe"
	"github.com/google/uuid"
)

const txRefPrefix = "order"

type PaymentService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	userRepo     repository.UserRepository
	chapaClient  chapa.Client
	stripeClient stripe.Client
	reconciler   *PaymentReconciler
	chapaCfg     *config.Chapa
	stripeCfg    *config.Stripe
	checkoutCfg  *config.Checkout
}

func NewPaymentService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository,
	userRepo repository.UserRepository, chapaClient chapa.Client, stripeClient stripe.Client,
	reconciler *PaymentReconciler, chapaCfg *config.Chapa, stripeCfg *config.Stripe,
	checkoutCfg *config.Checkout) *PaymentService {
	return &PaymentService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		userRepo:     userRepo,
		chapaClient:  chapaClient,
		stripeClient: stripeClient,
		reconciler:   reconciler,
		chapaCfg:     chapaCfg,
		stripeCfg:    stripeCfg,
		checkoutCfg:  checkoutCfg,
	}
}

// InitializePayment starts a hosted Chapa checkout. With an order ID the
// amount is the order total and the transaction reference is persisted on
// the order before the provider is called, so a webhook arriving at any
// later point can always be correlated back. Without one the amount is
// quoted from the live cart and no reference is stored yet.
func (s *PaymentService) InitializePayment(ctx context.Context, userID uuid.UUID, req *models.InitializePaymentRequest) (*models.InitializePaymentResponse, error) {

	var amount float64

	txRef := chapa.GenerateTxRef(txRefPrefix)

	if req.OrderID != nil {

		order, err := s.resolvePendingOrder(ctx, userID, req.OrderID)
		if err != nil {
			return nil, err
		}

		if err := s.orderRepo.SetPaymentIntentID(ctx, order.ID, txRef); err != nil {
			return nil, errors.DatabaseError("Failed to record transaction reference").WithError(err)
		}

		amount = order.Total

	} else {

		cart, err := s.cartRepo.GetWithItems(ctx, userID)
		if err != nil {
			return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
		}

		if len(cart.Items) == 0 {
			return nil, errors.ConflictError("Cart is empty")
		}

		subtotal := Subtotal(cart.Items)
		amount = utils.Round2(subtotal + ShippingFee(subtotal, s.checkoutCfg))
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch user").WithError(err)
	}

	initResp, err := s.chapaClient.Initialize(ctx, &chapa.InitializeRequest{
		Amount:      fmt.Sprintf("%.2f", amount),
		Currency:    s.chapaCfg.Currency,
		Email:       user.Email,
		FirstName:   user.Name,
		TxRef:       txRef,
		CallbackURL: s.chapaCfg.CallbackURL,
	})
	if err != nil {
		return nil, errors.ThirdPartyError("Payment initialization failed").WithError(err)
	}

	return &models.InitializePaymentResponse{
		CheckoutURL: initResp.Data.CheckoutURL,
		TxRef:       txRef,
		Amount:      amount,
	}, nil
}

// VerifyPayment re-checks a transaction with Chapa server to server and
// applies the same transition the webhook would. Used by the browser
// return flow, which must never trust client state.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID uuid.UUID, isAdmin bool, txRef string) (*models.VerifyPaymentResponse, error) {

	order, err := s.orderRepo.GetOrderByPaymentIntentID(ctx, txRef)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Transaction not found")
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if !isAdmin && order.UserID != userID {
		return nil, errors.NotFoundError("Transaction not found")
	}

	verifyResp, err := s.chapaClient.Verify(ctx, txRef)
	if err != nil {
		return nil, errors.ThirdPartyError("Payment verification failed").WithError(err)
	}

	success := verifyResp.Data.Status == "success"

	if success {
		s.reconciler.ApplySuccess(ctx, order)
	} else if verifyResp.Data.Status == "failed" {
		s.reconciler.ApplyFailure(ctx, order)
	}

	order, err = s.orderRepo.GetOrderByID(ctx, order.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return &models.VerifyPaymentResponse{
		Success: success,
		Order: models.VerifyPaymentOrder{
			ID:            order.ID,
			Status:        order.Status,
			PaymentStatus: verifyResp.Data.Status,
		},
	}, nil
}

// CreateCardIntent opens a Stripe payment intent for a pending order and
// returns the client secret the frontend needs to collect the card.
func (s *PaymentService) CreateCardIntent(ctx context.Context, userID uuid.UUID, req *models.CreateIntentRequest) (*models.CreateIntentResponse, error) {

	order, err := s.resolvePendingOrder(ctx, userID, &req.OrderID)
	if err != nil {
		return nil, err
	}

	amountCents := int64(math.Round(order.Total * 100))

	intent, err := s.stripeClient.CreatePaymentIntent(amountCents, s.stripeCfg.Currency,
		"Order "+order.OrderNumber, map[string]string{"order_id": order.ID.String()})
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	if err := s.orderRepo.SetPaymentIntentID(ctx, order.ID, intent.ID); err != nil {
		return nil, errors.DatabaseError("Failed to record payment intent").WithError(err)
	}

	return &models.CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          order.Total,
	}, nil
}

func (s *PaymentService) resolvePendingOrder(ctx context.Context, userID uuid.UUID, orderID *uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, *orderID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found")
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != userID {
		return nil, errors.NotFoundError("Order not found")
	}

	if order.Status != models.OrderStatusPending {
		return nil, errors.ConflictError("Order is not awaiting payment")
	}

	return order, nil
}
