package purchase

import (
	"context"
	"errors"
	"fmt"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/internal/utils"
	"notin-market/pkg/coin"
	"notin-market/pkg/product"
	"notin-market/pkg/wallet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PurchaseService interface {
		PurchaseProduct(ctx context.Context, userID string, productID string) (*domain.WalletTransactionResponse, error)
		PurchasePackage(ctx context.Context, userID string, req domain.PurchasePackageRequest) (*domain.WalletTransactionResponse, error)
		SettlePackagePayment(ctx context.Context, order *entities.PaymentOrder) (*domain.WalletTransactionResponse, error)
	}

	purchaseService struct {
		uow               UnitOfWork
		walletRepository  wallet.WalletRepository
		productRepository product.ProductRepository
		coinRepository    coin.CoinRepository
	}
)

func NewPurchaseService(
	uow UnitOfWork,
	walletRepository wallet.WalletRepository,
	productRepository product.ProductRepository,
	coinRepository coin.CoinRepository,
) PurchaseService {
	return &purchaseService{
		uow:               uow,
		walletRepository:  walletRepository,
		productRepository: productRepository,
		coinRepository:    coinRepository,
	}
}

func (s *purchaseService) PurchaseProduct(ctx context.Context, userID string, productID string) (*domain.WalletTransactionResponse, error) {
	prod, err := s.productRepository.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	if !prod.IsActive {
		return nil, domain.ErrProductUnavailable
	}

	purchased, err := s.productRepository.HasPurchased(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if purchased {
		return nil, domain.ErrAlreadyPurchased
	}

	w, err := s.walletRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	if !w.HasSufficientBalance(prod.Price) {
		return nil, &domain.InsufficientBalanceError{
			RequiredCoins: prod.Price,
			CurrentCoins:  w.Coins,
		}
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	referenceCode := utils.ProductReferenceCode()

	var entry *entities.WalletTransaction
	err = s.uow.Do(ctx, func(wallets wallet.WalletRepository, products product.ProductRepository, _ OrderRepository) error {
		// The pre-check above is advisory. The locked row is the truth:
		// a concurrent debit that committed first shows up here.
		locked, err := wallets.LockByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}

		entry, err = locked.DebitForProduct(prod, referenceCode)
		if err != nil {
			return err
		}

		if err := wallets.Save(ctx, locked); err != nil {
			return err
		}
		if err := wallets.CreateTransaction(ctx, entry); err != nil {
			return err
		}

		if err := products.AttachPurchase(ctx, &entities.ProductPurchase{
			UserID:    userUUID,
			ProductID: prod.ID,
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyPurchased
			}
			return err
		}

		return products.IncrementPurchased(ctx, productID)
	})
	if err != nil {
		return nil, err
	}

	return wallet.TransactionResponse(entry), nil
}

func (s *purchaseService) PurchasePackage(ctx context.Context, userID string, req domain.PurchasePackageRequest) (*domain.WalletTransactionResponse, error) {
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

	// Payment verification happened before this point; here we only refuse
	// amounts that disagree with the server-computed final price.
	if req.PaidAmount != pkg.FinalPrice() {
		return nil, &domain.AmountMismatchError{
			RequiredAmount: pkg.FinalPrice(),
			PaidAmount:     req.PaidAmount,
		}
	}

	if _, err := s.walletRepository.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	referenceCode := utils.PackageReferenceCode()

	var entry *entities.WalletTransaction
	err = s.uow.Do(ctx, func(wallets wallet.WalletRepository, _ product.ProductRepository, _ OrderRepository) error {
		locked, err := wallets.LockByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}

		entry = locked.CreditForPackage(pkg, req.PaidAmount, referenceCode)
		entry.Description = fmt.Sprintf("%s (payment ref: %s)", entry.Description, req.PayReferenceCode)

		if err := wallets.Save(ctx, locked); err != nil {
			return err
		}
		return wallets.CreateTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return wallet.TransactionResponse(entry), nil
}

// SettlePackagePayment credits the coin package for a gateway-confirmed
// payment order. The order claim and the credit commit in one transaction:
// a replayed or concurrent notification for the same order loses the claim
// and settles nothing, and any failure after the claim rolls the claim back
// so the gateway's retry can settle the order cleanly.
func (s *purchaseService) SettlePackagePayment(ctx context.Context, order *entities.PaymentOrder) (*domain.WalletTransactionResponse, error) {
	pkg, err := s.coinRepository.GetCoinPackageByID(ctx, order.CoinPackageID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCoinPackageNotFound
		}
		return nil, err
	}

	// No availability or amount re-check here: the order recorded the
	// server-computed price when the payment link was created, and the
	// gateway confirmed that amount was paid.
	referenceCode := utils.PackageReferenceCode()

	var entry *entities.WalletTransaction
	err = s.uow.Do(ctx, func(wallets wallet.WalletRepository, _ product.ProductRepository, orders OrderRepository) error {
		claimed, err := orders.ClaimPending(ctx, order.OrderID)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrPaymentOrderSettled
		}

		locked, err := wallets.LockByUserID(ctx, order.UserID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}

		entry = locked.CreditForPackage(pkg, order.Amount, referenceCode)
		entry.Description = fmt.Sprintf("%s (payment ref: %s)", entry.Description, order.OrderID)

		if err := wallets.Save(ctx, locked); err != nil {
			return err
		}
		return wallets.CreateTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return wallet.TransactionResponse(entry), nil
}
