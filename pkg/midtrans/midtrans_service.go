package midtrans

import (
	"context"
	"errors"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/internal/utils"
	"notin-market/pkg/coin"
	"notin-market/pkg/purchase"
	"notin-market/pkg/user"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

type (
	MidtransService interface {
		CreatePackagePayment(ctx context.Context, req domain.CreatePaymentRequest, userID string) (*domain.CreatePaymentResponse, error)
		HandleNotification(ctx context.Context, orderID string) error
	}

	midtransService struct {
		midtransRepository MidtransRepository
		coinRepository     coin.CoinRepository
		userRepository     user.UserRepository
		purchaseService    purchase.PurchaseService
		snapClient         snap.Client
		coreClient         coreapi.Client
	}
)

func NewMidtransService(
	midtransRepository MidtransRepository,
	coinRepository coin.CoinRepository,
	userRepository user.UserRepository,
	purchaseService purchase.PurchaseService,
) MidtransService {
	serverKey := utils.GetConfig("SERVER_KEY")
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(serverKey, env)

	var coreClient coreapi.Client
	coreClient.New(serverKey, env)

	return &midtransService{
		midtransRepository: midtransRepository,
		coinRepository:     coinRepository,
		userRepository:     userRepository,
		purchaseService:    purchaseService,
		snapClient:         snapClient,
		coreClient:         coreClient,
	}
}

func (s *midtransService) CreatePackagePayment(ctx context.Context, req domain.CreatePaymentRequest, userID string) (*domain.CreatePaymentResponse, error) {
	pkg, err := s.coinRepository.GetCoinPackageByID(ctx, req.CoinPackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCoinPackageNotFound
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, domain.ErrCoinPackageUnavailable
	}

	usr, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	orderID := utils.PackageReferenceCode()

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(pkg.FinalPrice()),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: usr.Name,
			Email: usr.Email,
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return nil, domain.ErrPaymentFailed
	}

	if err := s.midtransRepository.CreatePaymentOrder(ctx, &entities.PaymentOrder{
		OrderID:       orderID,
		UserID:        usr.ID,
		CoinPackageID: pkg.ID,
		Amount:        pkg.FinalPrice(),
		Status:        entities.PaymentOrderPending,
	}); err != nil {
		return nil, err
	}

	return &domain.CreatePaymentResponse{
		OrderID:    orderID,
		InvoiceURL: snapResp.RedirectURL,
	}, nil
}

// HandleNotification re-checks the transaction status with midtrans rather
// than trusting the webhook body, then settles the package purchase. The
// claim of the order and the coin credit commit in one transaction, so a
// replayed notification for an already-settled order is a no-op.
func (s *midtransService) HandleNotification(ctx context.Context, orderID string) error {
	order, err := s.midtransRepository.GetPaymentOrderByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentOrderNotFound
		}
		return err
	}
	if order.Status == entities.PaymentOrderPaid {
		return nil
	}

	status, statusErr := s.coreClient.CheckTransaction(orderID)
	if statusErr != nil {
		return domain.ErrPaymentFailed
	}

	switch status.TransactionStatus {
	case "settlement", "capture":
		if status.FraudStatus != "" && status.FraudStatus != "accept" {
			return s.midtransRepository.UpdatePaymentOrderStatus(ctx, order, entities.PaymentOrderFailed)
		}
	case "deny", "cancel", "expire":
		return s.midtransRepository.UpdatePaymentOrderStatus(ctx, order, entities.PaymentOrderFailed)
	default:
		// pending and other transient states: wait for the next notification
		return nil
	}

	if _, err := s.purchaseService.SettlePackagePayment(ctx, order); err != nil {
		if errors.Is(err, domain.ErrPaymentOrderSettled) {
			return nil
		}
		return err
	}
	return nil
}
