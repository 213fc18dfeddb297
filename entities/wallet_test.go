package entities

import (
	"testing"

	"notin-market/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(coins int) *Wallet {
	return &Wallet{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Coins:  coins,
	}
}

func TestWalletHasSufficientBalance(t *testing.T) {
	w := newTestWallet(100)

	assert.True(t, w.HasSufficientBalance(100))
	assert.True(t, w.HasSufficientBalance(50))
	assert.False(t, w.HasSufficientBalance(101))
	assert.True(t, w.HasSufficientBalance(0))
}

func TestWalletDebitForProduct(t *testing.T) {
	w := newTestWallet(150)
	product := &Product{
		ID:    uuid.New(),
		Name:  "Study Notes Bundle",
		Price: 60,
	}

	entry, err := w.DebitForProduct(product, "REF-1")
	require.NoError(t, err)

	assert.Equal(t, 90, w.Coins)
	assert.Equal(t, TransactionPurchaseProduct, entry.Type)
	assert.Equal(t, -60, entry.Coins)
	assert.Equal(t, 150, entry.CoinsBefore)
	assert.Equal(t, 90, entry.CoinsAfter)
	assert.Equal(t, "REF-1", entry.ReferenceCode)
	require.NotNil(t, entry.ProductID)
	assert.Equal(t, product.ID, *entry.ProductID)
	assert.Nil(t, entry.CoinPackageID)
	assert.Contains(t, entry.Description, product.Name)
}

func TestWalletDebitForProductExactBalance(t *testing.T) {
	w := newTestWallet(60)
	product := &Product{ID: uuid.New(), Name: "Exact", Price: 60}

	entry, err := w.DebitForProduct(product, "REF-2")
	require.NoError(t, err)
	assert.Equal(t, 0, w.Coins)
	assert.Equal(t, 0, entry.CoinsAfter)
}

func TestWalletDebitForProductInsufficientBalance(t *testing.T) {
	w := newTestWallet(30)
	product := &Product{ID: uuid.New(), Name: "Too Expensive", Price: 60}

	entry, err := w.DebitForProduct(product, "REF-3")
	require.Error(t, err)
	assert.Nil(t, entry)

	var insufficientErr *domain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 60, insufficientErr.RequiredCoins)
	assert.Equal(t, 30, insufficientErr.CurrentCoins)

	// failed debit must not touch the balance
	assert.Equal(t, 30, w.Coins)
}

func TestWalletDebitForFreeProduct(t *testing.T) {
	w := newTestWallet(0)
	product := &Product{ID: uuid.New(), Name: "Free Sample", Price: 0}

	entry, err := w.DebitForProduct(product, "REF-4")
	require.NoError(t, err)
	assert.Equal(t, 0, w.Coins)
	assert.Equal(t, 0, entry.Coins)
	assert.Equal(t, 0, entry.CoinsBefore)
	assert.Equal(t, 0, entry.CoinsAfter)
}

func TestWalletCreditForPackage(t *testing.T) {
	w := newTestWallet(10)
	pkg := &CoinPackage{
		ID:    uuid.New(),
		Name:  "Starter Pack",
		Coins: 500,
		Price: 25000,
	}

	entry := w.CreditForPackage(pkg, 25000, "REF-5")

	assert.Equal(t, 510, w.Coins)
	assert.Equal(t, TransactionPurchasePackage, entry.Type)
	assert.Equal(t, 500, entry.Coins)
	assert.Equal(t, 10, entry.CoinsBefore)
	assert.Equal(t, 510, entry.CoinsAfter)
	assert.Equal(t, 25000, entry.PaidAmount)
	require.NotNil(t, entry.CoinPackageID)
	assert.Equal(t, pkg.ID, *entry.CoinPackageID)
	assert.Nil(t, entry.ProductID)
}

func TestWalletDeposit(t *testing.T) {
	w := newTestWallet(5)

	entry, err := w.Deposit(95, "", "REF-6")
	require.NoError(t, err)

	assert.Equal(t, 100, w.Coins)
	assert.Equal(t, TransactionDeposit, entry.Type)
	assert.Equal(t, 95, entry.Coins)
	assert.Equal(t, "Wallet deposit", entry.Description)
}

func TestWalletDepositRejectsNonPositiveAmount(t *testing.T) {
	w := newTestWallet(5)

	for _, amount := range []int{0, -1, -100} {
		entry, err := w.Deposit(amount, "bad", "REF")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.Nil(t, entry)
	}
	assert.Equal(t, 5, w.Coins)
}

func TestWalletWithdraw(t *testing.T) {
	w := newTestWallet(100)

	entry, err := w.Withdraw(40, "payout")
	require.NoError(t, err)

	assert.Equal(t, 60, w.Coins)
	assert.Equal(t, TransactionWithdraw, entry.Type)
	assert.Equal(t, -40, entry.Coins)
	assert.Equal(t, "payout", entry.Description)
}

func TestWalletWithdrawInsufficientBalance(t *testing.T) {
	w := newTestWallet(10)

	entry, err := w.Withdraw(40, "")
	require.Error(t, err)
	assert.Nil(t, entry)

	var insufficientErr *domain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 40, insufficientErr.RequiredCoins)
	assert.Equal(t, 10, insufficientErr.CurrentCoins)
	assert.Equal(t, 10, w.Coins)
}

func TestWalletRefund(t *testing.T) {
	w := newTestWallet(0)
	productID := uuid.New()

	entry, err := w.Refund(60, "", &productID, "REF-7")
	require.NoError(t, err)

	assert.Equal(t, 60, w.Coins)
	assert.Equal(t, TransactionRefund, entry.Type)
	assert.Equal(t, 60, entry.Coins)
	assert.Equal(t, "Purchase refund", entry.Description)
	require.NotNil(t, entry.ProductID)
	assert.Equal(t, productID, *entry.ProductID)
}

func TestWalletLedgerChainsAcrossMutations(t *testing.T) {
	w := newTestWallet(100)
	product := &Product{ID: uuid.New(), Name: "Notes", Price: 30}

	first, err := w.DebitForProduct(product, "REF-A")
	require.NoError(t, err)

	second, err := w.Deposit(10, "", "REF-B")
	require.NoError(t, err)

	third, err := w.Withdraw(80, "")
	require.NoError(t, err)

	// each entry's after-balance is the next entry's before-balance
	assert.Equal(t, first.CoinsAfter, second.CoinsBefore)
	assert.Equal(t, second.CoinsAfter, third.CoinsBefore)
	assert.Equal(t, third.CoinsAfter, w.Coins)
	assert.Equal(t, 0, w.Coins)
}
