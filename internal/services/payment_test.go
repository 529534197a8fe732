package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cooleo273/ecommerce-platform/internal/config"
	appErrors "github.com/cooleo273/ecommerce-platform/internal/errors"
	eventMocks "github.com/cooleo273/ecommerce-platform/internal/events/mocks"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/repositories/mocks"
	service "github.com/cooleo273/ecommerce-platform/internal/services"
	"github.com/cooleo273/ecommerce-platform/pkg/chapa"
	chapaMocks "github.com/cooleo273/ecommerce-platform/pkg/chapa/mocks"
	sendgridMocks "github.com/cooleo273/ecommerce-platform/pkg/sendgrid/mocks"
	stripeMocks "github.com/cooleo273/ecommerce-platform/pkg/stripe/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

type paymentFixture struct {
	service      *service.PaymentService
	orderRepo    *mocks.MockOrderRepository
	cartRepo     *mocks.MockCartRepository
	userRepo     *mocks.MockUserRepository
	chapaClient  *chapaMocks.MockClient
	stripeClient *stripeMocks.MockClient
	publisher    *eventMocks.MockPublisher
}

func setupPaymentTest(t *testing.T) *paymentFixture {
	t.Helper()

	f := &paymentFixture{
		orderRepo:    mocks.NewMockOrderRepository(t),
		cartRepo:     mocks.NewMockCartRepository(t),
		userRepo:     mocks.NewMockUserRepository(t),
		chapaClient:  chapaMocks.NewMockClient(t),
		stripeClient: stripeMocks.NewMockClient(t),
		publisher:    eventMocks.NewMockPublisher(t),
	}

	email := sendgridMocks.NewMockEmailService(t)
	reconciler := service.NewPaymentReconciler(f.orderRepo, f.cartRepo, f.userRepo, email, f.publisher)

	chapaCfg := &config.Chapa{Currency: "ETB", CallbackURL: "https://store.example.com/callback"}
	stripeCfg := &config.Stripe{Currency: "usd"}

	f.service = service.NewPaymentService(f.orderRepo, f.cartRepo, f.userRepo, f.chapaClient,
		f.stripeClient, reconciler, chapaCfg, stripeCfg,
		&config.Checkout{FreeShippingThreshold: 100, FlatShippingFee: 10})

	return f
}

func TestInitializePayment_PersistsTxRefBeforeProviderCall(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	order := &models.Order{
		ID:     orderID,
		UserID: userID,
		Status: models.OrderStatusPending,
		Total:  45.5,
	}

	f.orderRepo.On("GetOrderByID", ctx, orderID).Return(order, nil).Once()
	f.userRepo.On("GetUserByID", ctx, userID).
		Return(&models.User{ID: userID, Email: "buyer@example.com", Name: "Buyer"}, nil).Once()

	var persistedRef string

	f.orderRepo.On("SetPaymentIntentID", ctx, orderID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { persistedRef = args.String(2) }).
		Return(nil).Once()

	f.chapaClient.On("Initialize", ctx, mock.MatchedBy(func(req *chapa.InitializeRequest) bool {
		return req.Amount == "45.50" && req.Currency == "ETB" &&
			req.Email == "buyer@example.com" && req.TxRef == persistedRef
	})).Return(func() *chapa.InitializeResponse {
		resp := &chapa.InitializeResponse{Status: "success"}
		resp.Data.CheckoutURL = "https://checkout.chapa.co/abc"

		return resp
	}(), nil).Once()

	initResp, err := f.service.InitializePayment(ctx, userID, &models.InitializePaymentRequest{OrderID: &orderID})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.chapa.co/abc", initResp.CheckoutURL)
	assert.Equal(t, persistedRef, initResp.TxRef)
	assert.Equal(t, 45.5, initResp.Amount)
	assert.True(t, strings.HasPrefix(initResp.TxRef, "order-"))
}

func TestInitializePayment_QuotesLiveCartWhenNoOrderGiven(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	userID := uuid.New()

	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: uuid.New(), Quantity: 2, Product: &models.Product{Price: 15}},
		},
	}

	f.cartRepo.On("GetWithItems", ctx, userID).Return(cart, nil).Once()
	f.userRepo.On("GetUserByID", ctx, userID).
		Return(&models.User{ID: userID, Email: "buyer@example.com"}, nil).Once()
	f.chapaClient.On("Initialize", ctx, mock.MatchedBy(func(req *chapa.InitializeRequest) bool {
		return req.Amount == "40.00" // 2 x 15 plus flat shipping below the threshold
	})).Return(&chapa.InitializeResponse{Status: "success"}, nil).Once()

	initResp, err := f.service.InitializePayment(ctx, userID, &models.InitializePaymentRequest{})

	require.NoError(t, err)
	assert.Equal(t, 40.0, initResp.Amount)
	f.orderRepo.AssertNotCalled(t, "SetPaymentIntentID", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitializePayment_EmptyCartConflicts(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	userID := uuid.New()

	f.cartRepo.On("GetWithItems", ctx, userID).
		Return(&models.Cart{ID: uuid.New(), UserID: userID}, nil).Once()

	_, err := f.service.InitializePayment(ctx, userID, &models.InitializePaymentRequest{})

	require.Error(t, err)
	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)
	f.chapaClient.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
}

func TestInitializePayment_RejectsNonPendingOrder(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	f.orderRepo.On("GetOrderByID", ctx, orderID).
		Return(&models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusProcessing}, nil).Once()

	_, err := f.service.InitializePayment(ctx, userID, &models.InitializePaymentRequest{OrderID: &orderID})

	require.Error(t, err)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)

	f.chapaClient.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
}

func TestInitializePayment_RejectsOtherUsersOrder(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	orderID := uuid.New()

	f.orderRepo.On("GetOrderByID", ctx, orderID).
		Return(&models.Order{ID: orderID, UserID: uuid.New(), Status: models.OrderStatusPending}, nil).Once()

	_, err := f.service.InitializePayment(ctx, uuid.New(), &models.InitializePaymentRequest{OrderID: &orderID})

	require.Error(t, err)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
}

func TestVerifyPayment_SuccessAppliesTransition(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	userID := uuid.New()
	txRef := "order-1-aa"

	order := &models.Order{ID: uuid.New(), UserID: userID, Status: models.OrderStatusPending}

	f.orderRepo.On("GetOrderByPaymentIntentID", ctx, txRef).Return(order, nil).Once()
	f.chapaClient.On("Verify", ctx, txRef).Return(verifiedSuccess(txRef), nil).Once()

	f.orderRepo.On("UpdateStatusFrom", ctx, order.ID, models.OrderStatusPending, models.OrderStatusProcessing).
		Return(true, nil).Once()
	f.publisher.On("Publish", ctx, "order.payment_succeeded", mock.Anything).Return(nil).Once()
	f.orderRepo.On("ClaimConfirmation", ctx, order.ID).Return(false, nil).Once()
	f.cartRepo.On("Clear", ctx, userID).Return(nil).Once()

	f.orderRepo.On("GetOrderByID", ctx, order.ID).
		Return(&models.Order{ID: order.ID, UserID: userID, Status: models.OrderStatusProcessing}, nil).Once()

	verifyResp, err := f.service.VerifyPayment(ctx, userID, false, txRef)

	require.NoError(t, err)
	assert.True(t, verifyResp.Success)
	assert.Equal(t, models.OrderStatusProcessing, verifyResp.Order.Status)
	assert.Equal(t, "success", verifyResp.Order.PaymentStatus)
}

func TestVerifyPayment_FailedCancelsPendingOrder(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	userID := uuid.New()
	txRef := "order-1-aa"

	order := &models.Order{ID: uuid.New(), UserID: userID, Status: models.OrderStatusPending}

	failed := &chapa.VerifyResponse{Status: "success"}
	failed.Data.Status = "failed"

	f.orderRepo.On("GetOrderByPaymentIntentID", ctx, txRef).Return(order, nil).Once()
	f.chapaClient.On("Verify", ctx, txRef).Return(failed, nil).Once()

	f.orderRepo.On("UpdateStatusFrom", ctx, order.ID, models.OrderStatusPending, models.OrderStatusCancelled).
		Return(true, nil).Once()
	f.publisher.On("Publish", ctx, "order.payment_failed", mock.Anything).Return(nil).Once()

	f.orderRepo.On("GetOrderByID", ctx, order.ID).
		Return(&models.Order{ID: order.ID, UserID: userID, Status: models.OrderStatusCancelled}, nil).Once()

	verifyResp, err := f.service.VerifyPayment(ctx, userID, false, txRef)

	require.NoError(t, err)
	assert.False(t, verifyResp.Success)
	assert.Equal(t, models.OrderStatusCancelled, verifyResp.Order.Status)
	assert.Equal(t, "failed", verifyResp.Order.PaymentStatus)
}

func TestVerifyPayment_IndeterminateStatusLeavesOrderUntouched(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	userID := uuid.New()
	txRef := "order-1-bb"

	order := &models.Order{ID: uuid.New(), UserID: userID, Status: models.OrderStatusPending}

	pending := &chapa.VerifyResponse{Status: "success"}
	pending.Data.Status = "pending"

	f.orderRepo.On("GetOrderByPaymentIntentID", ctx, txRef).Return(order, nil).Once()
	f.chapaClient.On("Verify", ctx, txRef).Return(pending, nil).Once()
	f.orderRepo.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()

	verifyResp, err := f.service.VerifyPayment(ctx, userID, false, txRef)

	require.NoError(t, err)
	assert.False(t, verifyResp.Success)
	assert.Equal(t, models.OrderStatusPending, verifyResp.Order.Status)

	f.orderRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCardIntent(t *testing.T) {
	f := setupPaymentTest(t)
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	order := &models.Order{
		ID:          orderID,
		UserID:      userID,
		OrderNumber: "ORD-1",
		Status:      models.OrderStatusPending,
		Total:       19.99,
	}

	f.orderRepo.On("GetOrderByID", ctx, orderID).Return(order, nil).Once()
	f.stripeClient.On("CreatePaymentIntent", int64(1999), "usd", "Order ORD-1", mock.Anything).
		Return(&stripe.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil).Once()
	f.orderRepo.On("SetPaymentIntentID", ctx, orderID, "pi_123").Return(nil).Once()

	intentResp, err := f.service.CreateCardIntent(ctx, userID, &models.CreateIntentRequest{OrderID: orderID})

	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", intentResp.ClientSecret)
	assert.Equal(t, "pi_123", intentResp.PaymentIntentID)
	assert.Equal(t, 19.99, intentResp.Amount)
}
