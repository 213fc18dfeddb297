package purchase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/pkg/coin"
	"notin-market/pkg/product"
	"notin-market/pkg/wallet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the database. A gorm-backed sqlite
// store cannot express SELECT ... FOR UPDATE, so the unit of work fake
// serializes transactions with a mutex instead and rolls back by restoring a
// snapshot.
type fakeStore struct {
	mu        sync.Mutex
	wallets   map[uuid.UUID]*entities.Wallet // keyed by user id
	ledger    []*entities.WalletTransaction
	products  map[uuid.UUID]*entities.Product
	purchases map[string]struct{} // userID|productID
	likes     map[string]struct{}
	views     map[string]struct{}
	packages  map[uuid.UUID]*entities.CoinPackage
	orders    map[string]*entities.PaymentOrder // keyed by order id
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets:   make(map[uuid.UUID]*entities.Wallet),
		products:  make(map[uuid.UUID]*entities.Product),
		purchases: make(map[string]struct{}),
		likes:     make(map[string]struct{}),
		views:     make(map[string]struct{}),
		packages:  make(map[uuid.UUID]*entities.CoinPackage),
		orders:    make(map[string]*entities.PaymentOrder),
	}
}

func pairKey(userID, productID string) string {
	return userID + "|" + productID
}

func (s *fakeStore) snapshot() *fakeStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := newFakeStore()
	for k, w := range s.wallets {
		c := *w
		snap.wallets[k] = &c
	}
	for _, tx := range s.ledger {
		c := *tx
		snap.ledger = append(snap.ledger, &c)
	}
	for k, p := range s.products {
		c := *p
		snap.products[k] = &c
	}
	for k := range s.purchases {
		snap.purchases[k] = struct{}{}
	}
	for k := range s.likes {
		snap.likes[k] = struct{}{}
	}
	for k := range s.views {
		snap.views[k] = struct{}{}
	}
	for k, p := range s.packages {
		c := *p
		snap.packages[k] = &c
	}
	for k, o := range s.orders {
		c := *o
		snap.orders[k] = &c
	}
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wallets = snap.wallets
	s.ledger = snap.ledger
	s.products = snap.products
	s.purchases = snap.purchases
	s.likes = snap.likes
	s.views = snap.views
	s.packages = snap.packages
	s.orders = snap.orders
}

type fakeWalletRepo struct {
	store *fakeStore
}

func (r *fakeWalletRepo) Create(_ context.Context, w *entities.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	c := *w
	r.store.wallets[w.UserID] = &c
	return nil
}

func (r *fakeWalletRepo) GetByUserID(_ context.Context, userID string) (*entities.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	parsed, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	w, ok := r.store.wallets[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *w
	return &c, nil
}

func (r *fakeWalletRepo) LockByUserID(ctx context.Context, userID string) (*entities.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *fakeWalletRepo) Save(_ context.Context, w *entities.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *w
	r.store.wallets[w.UserID] = &c
	return nil
}

func (r *fakeWalletRepo) CreateTransaction(_ context.Context, tx *entities.WalletTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	c := *tx
	r.store.ledger = append(r.store.ledger, &c)
	return nil
}

func (r *fakeWalletRepo) ListTransactions(_ context.Context, walletID string, txType string, page, limit int) ([]*entities.WalletTransaction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*entities.WalletTransaction
	for _, tx := range r.store.ledger {
		if tx.WalletID.String() != walletID {
			continue
		}
		if txType != "" && string(tx.Type) != txType {
			continue
		}
		c := *tx
		matched = append(matched, &c)
	}

	count := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], count, nil
}

func (r *fakeWalletRepo) Atomic(ctx context.Context, fn func(repo wallet.WalletRepository) error) error {
	return fn(r)
}

type fakeProductRepo struct {
	store *fakeStore
	// attachHook runs right before AttachPurchase checks for duplicates,
	// letting tests wedge a conflicting row in as a concurrent writer would.
	attachHook func()
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entities.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p, ok := r.store.products[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ domain.ProductListQuery) ([]*entities.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*entities.Product
	for _, p := range r.store.products {
		c := *p
		result = append(result, &c)
	}
	return result, int64(len(result)), nil
}

func (r *fakeProductRepo) ListPurchased(_ context.Context, userID string, _ domain.ProductListQuery) ([]*entities.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*entities.Product
	for _, p := range r.store.products {
		if _, ok := r.store.purchases[pairKey(userID, p.ID.String())]; ok {
			c := *p
			result = append(result, &c)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeProductRepo) HasPurchased(_ context.Context, userID, productID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.store.purchases[pairKey(userID, productID)]
	return ok, nil
}

func (r *fakeProductRepo) AttachPurchase(_ context.Context, purchase *entities.ProductPurchase) error {
	if r.attachHook != nil {
		r.attachHook()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := pairKey(purchase.UserID.String(), purchase.ProductID.String())
	if _, ok := r.store.purchases[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.store.purchases[key] = struct{}{}
	return nil
}

func (r *fakeProductRepo) IncrementPurchased(_ context.Context, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	parsed, err := uuid.Parse(productID)
	if err != nil {
		return err
	}
	if p, ok := r.store.products[parsed]; ok {
		p.Purchased++
	}
	return nil
}

func (r *fakeProductRepo) HasLiked(_ context.Context, userID, productID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.store.likes[pairKey(userID, productID)]
	return ok, nil
}

func (r *fakeProductRepo) AttachLike(_ context.Context, like *entities.ProductLike) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := pairKey(like.UserID.String(), like.ProductID.String())
	if _, ok := r.store.likes[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.store.likes[key] = struct{}{}
	return nil
}

func (r *fakeProductRepo) DetachLike(_ context.Context, userID, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.likes, pairKey(userID, productID))
	return nil
}

func (r *fakeProductRepo) IncrementLikes(_ context.Context, productID string, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	parsed, err := uuid.Parse(productID)
	if err != nil {
		return err
	}
	if p, ok := r.store.products[parsed]; ok {
		p.Likes += delta
	}
	return nil
}

func (r *fakeProductRepo) HasViewed(_ context.Context, userID, productID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.store.views[pairKey(userID, productID)]
	return ok, nil
}

func (r *fakeProductRepo) AttachView(_ context.Context, view *entities.ProductView) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := pairKey(view.UserID.String(), view.ProductID.String())
	if _, ok := r.store.views[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.store.views[key] = struct{}{}
	return nil
}

func (r *fakeProductRepo) IncrementViews(_ context.Context, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	parsed, err := uuid.Parse(productID)
	if err != nil {
		return err
	}
	if p, ok := r.store.products[parsed]; ok {
		p.Views++
	}
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entities.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *p
	r.store.products[p.ID] = &c
	return nil
}

func (r *fakeProductRepo) Atomic(ctx context.Context, fn func(repo product.ProductRepository) error) error {
	return fn(r)
}

type fakeCoinRepo struct {
	store *fakeStore
}

func (r *fakeCoinRepo) CreateCoinPackage(_ context.Context, pkg *entities.CoinPackage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if pkg.ID == uuid.Nil {
		pkg.ID = uuid.New()
	}
	c := *pkg
	r.store.packages[pkg.ID] = &c
	return nil
}

func (r *fakeCoinRepo) GetCoinPackages(_ context.Context, _ string) ([]*entities.CoinPackage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*entities.CoinPackage
	for _, p := range r.store.packages {
		c := *p
		result = append(result, &c)
	}
	return result, nil
}

func (r *fakeCoinRepo) GetCoinPackageByID(_ context.Context, id string) (*entities.CoinPackage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p, ok := r.store.packages[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *p
	return &c, nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) ClaimPending(_ context.Context, orderID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[orderID]
	if !ok || order.Status != entities.PaymentOrderPending {
		return false, nil
	}
	order.Status = entities.PaymentOrderPaid
	return true, nil
}

// fakeUnitOfWork serializes transactions with txMu, which stands in for the
// row lock taken by LockByUserID, and restores a snapshot on error to mimic
// transaction rollback.
type fakeUnitOfWork struct {
	store       *fakeStore
	txMu        sync.Mutex
	productRepo *fakeProductRepo
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(wallets wallet.WalletRepository, products product.ProductRepository, orders OrderRepository) error) error {
	u.txMu.Lock()
	defer u.txMu.Unlock()

	snap := u.store.snapshot()
	if err := fn(&fakeWalletRepo{store: u.store}, u.productRepo, &fakeOrderRepo{store: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

var (
	_ wallet.WalletRepository   = (*fakeWalletRepo)(nil)
	_ product.ProductRepository = (*fakeProductRepo)(nil)
	_ coin.CoinRepository       = (*fakeCoinRepo)(nil)
	_ OrderRepository           = (*fakeOrderRepo)(nil)
	_ UnitOfWork                = (*fakeUnitOfWork)(nil)
)

type purchaseFixture struct {
	store       *fakeStore
	walletRepo  *fakeWalletRepo
	productRepo *fakeProductRepo
	coinRepo    *fakeCoinRepo
	uow         *fakeUnitOfWork
	service     PurchaseService

	userID uuid.UUID
}

func newPurchaseFixture(t *testing.T, coins int) *purchaseFixture {
	t.Helper()

	store := newFakeStore()
	productRepo := &fakeProductRepo{store: store}
	f := &purchaseFixture{
		store:       store,
		walletRepo:  &fakeWalletRepo{store: store},
		productRepo: productRepo,
		coinRepo:    &fakeCoinRepo{store: store},
		uow:         &fakeUnitOfWork{store: store, productRepo: productRepo},
		userID:      uuid.New(),
	}
	f.service = NewPurchaseService(f.uow, f.walletRepo, f.productRepo, f.coinRepo)

	store.wallets[f.userID] = &entities.Wallet{
		ID:     uuid.New(),
		UserID: f.userID,
		Coins:  coins,
	}
	return f
}

func (f *purchaseFixture) addProduct(price int) *entities.Product {
	p := &entities.Product{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("Product %d", len(f.store.products)+1),
		Price:    price,
		IsActive: true,
	}
	f.store.products[p.ID] = p
	return p
}

func (f *purchaseFixture) addPackage(coins, price, discountPct int) *entities.CoinPackage {
	p := &entities.CoinPackage{
		ID:                 uuid.New(),
		Name:               "Coin Pack",
		Coins:              coins,
		Price:              price,
		DiscountPercentage: discountPct,
		IsActive:           true,
	}
	f.store.packages[p.ID] = p
	return p
}

func (f *purchaseFixture) addOrder(pkg *entities.CoinPackage, userID uuid.UUID, amount int) *entities.PaymentOrder {
	o := &entities.PaymentOrder{
		ID:            uuid.New(),
		OrderID:       fmt.Sprintf("NOTIN-RC-PACKAGE-20260830-%06d", len(f.store.orders)+1),
		UserID:        userID,
		CoinPackageID: pkg.ID,
		Amount:        amount,
		Status:        entities.PaymentOrderPending,
	}
	f.store.orders[o.OrderID] = o
	return o
}

func (f *purchaseFixture) walletCoins() int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.wallets[f.userID].Coins
}

func (f *purchaseFixture) ledgerLen() int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.ledger)
}

func TestPurchaseProductSuccess(t *testing.T) {
	f := newPurchaseFixture(t, 100)
	prod := f.addProduct(60)

	resp, err := f.service.PurchaseProduct(context.Background(), f.userID.String(), prod.ID.String())
	require.NoError(t, err)

	assert.Equal(t, string(entities.TransactionPurchaseProduct), resp.Type)
	assert.Equal(t, -60, resp.Coins)
	assert.Equal(t, 100, resp.CoinsBefore)
	assert.Equal(t, 40, resp.CoinsAfter)
	assert.Equal(t, prod.ID.String(), resp.ProductID)
	assert.True(t, strings.HasPrefix(resp.ReferenceCode, "NOTIN-RC-PRODUCT-"))

	assert.Equal(t, 40, f.walletCoins())
	assert.Equal(t, 1, f.ledgerLen())
	assert.Equal(t, 1, f.store.products[prod.ID].Purchased)

	owned, err := f.productRepo.HasPurchased(context.Background(), f.userID.String(), prod.ID.String())
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestPurchaseFreeProduct(t *testing.T) {
	f := newPurchaseFixture(t, 0)
	prod := f.addProduct(0)

	resp, err := f.service.PurchaseProduct(context.Background(), f.userID.String(), prod.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Coins)
	assert.Equal(t, 0, resp.CoinsAfter)
	assert.Equal(t, 0, f.walletCoins())
	assert.Equal(t, 1, f.ledgerLen())
}

func TestPurchaseProductInsufficientBalance(t *testing.T) {
	f := newPurchaseFixture(t, 30)
	prod := f.addProduct(60)

	resp, err := f.service.PurchaseProduct(context.Background(), f.userID.String(), prod.ID.String())
	require.Error(t, err)
	assert.Nil(t, resp)

	var insufficientErr *domain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 60, insufficientErr.RequiredCoins)
	assert.Equal(t, 30, insufficientErr.CurrentCoins)

	assert.Equal(t, 30, f.walletCoins())
	assert.Equal(t, 0, f.ledgerLen())
	assert.Equal(t, 0, f.store.products[prod.ID].Purchased)
}

func TestPurchaseProductAlreadyPurchased(t *testing.T) {
	f := newPurchaseFixture(t, 100)
	prod := f.addProduct(60)
	f.store.purchases[pairKey(f.userID.String(), prod.ID.String())] = struct{}{}

	resp, err := f.service.PurchaseProduct(context.Background(), f.userID.String(), prod.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyPurchased)
	assert.Nil(t, resp)
	assert.Equal(t, 100, f.walletCoins())
	assert.Equal(t, 0, f.ledgerLen())
}

func TestPurchaseProductNotFound(t *testing.T) {
	f := newPurchaseFixture(t, 100)

	_, err := f.service.PurchaseProduct(context.Background(), f.userID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPurchaseProductInactive(t *testing.T) {
	f := newPurchaseFixture(t, 100)
	prod := f.addProduct(60)
	prod.IsActive = false

	_, err := f.service.PurchaseProduct(context.Background(), f.userID.String(), prod.ID.String())
	assert.ErrorIs(t, err, domain.ErrProductUnavailable)
}

func TestPurchaseProductWalletNotFound(t *testing.T) {
	f := newPurchaseFixture(t, 100)
	prod := f.addProduct(60)

	_, err := f.service.PurchaseProduct(context.Background(), uuid.NewString(), prod.ID.String())
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

// A concurrent writer can slip a purchase row in between the advisory
// HasPurchased check and the insert. The unique index turns that into a
// duplicate-key error, and the whole transaction, debit included, must
// roll back.
func TestPurchaseProductDuplicateRaceRollsBack(t *testing.T) {
	f := newPurchaseFixture(t, 100)
	prod := f.addProduct(60)

	f.productRepo.attachHook = func() {
		f.store.mu.Lock()
		f.store.purchases[pairKey(f.userID.String(), prod.ID.String())] = struct{}{}
		f.store.mu.Unlock()
		f.productRepo.attachHook = nil
	}

	resp, err := f.service.PurchaseProduct(context.Background(), f.userID.String(), prod.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyPurchased)
	assert.Nil(t, resp)

	// rollback must undo the debit and the ledger entry
	assert.Equal(t, 100, f.walletCoins())
	assert.Equal(t, 0, f.ledgerLen())
	assert.Equal(t, 0, f.store.products[prod.ID].Purchased)
}

// With 70 coins and twenty 10-coin products bought concurrently, exactly
// seven purchases can settle. The committed balance must never go negative
// and the ledger must account for every spent coin.
func TestConcurrentPurchasesNeverOverspend(t *testing.T) {
	const (
		startingCoins = 70
		productPrice  = 10
		buyers        = 20
	)

	f := newPurchaseFixture(t, startingCoins)
	products := make([]*entities.Product, buyers)
	for i := range products {
		products[i] = f.addProduct(productPrice)
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.PurchaseProduct(context.Background(), f.userID.String(), products[i].ID.String())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var insufficientErr *domain.InsufficientBalanceError
		require.ErrorAs(t, err, &insufficientErr)
	}

	assert.Equal(t, startingCoins/productPrice, succeeded)
	assert.Equal(t, 0, f.walletCoins())
	assert.Equal(t, succeeded, f.ledgerLen())

	spent := 0
	for _, tx := range f.store.ledger {
		assert.GreaterOrEqual(t, tx.CoinsAfter, 0)
		spent -= tx.Coins
	}
	assert.Equal(t, startingCoins, spent)
}

func TestPurchasePackageSuccess(t *testing.T) {
	f := newPurchaseFixture(t, 10)
	pkg := f.addPackage(500, 25000, 20)

	resp, err := f.service.PurchasePackage(context.Background(), f.userID.String(), domain.PurchasePackageRequest{
		CoinPackageID:    pkg.ID.String(),
		PaidAmount:       20000,
		PayReferenceCode: "MT-12345",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entities.TransactionPurchasePackage), resp.Type)
	assert.Equal(t, 500, resp.Coins)
	assert.Equal(t, 10, resp.CoinsBefore)
	assert.Equal(t, 510, resp.CoinsAfter)
	assert.Equal(t, 20000, resp.PaidAmount)
	assert.Equal(t, pkg.ID.String(), resp.CoinPackageID)
	assert.Contains(t, resp.Description, "payment ref: MT-12345")
	assert.True(t, strings.HasPrefix(resp.ReferenceCode, "NOTIN-RC-PACKAGE-"))

	assert.Equal(t, 510, f.walletCoins())
	assert.Equal(t, 1, f.ledgerLen())
}

func TestPurchasePackageAmountMismatch(t *testing.T) {
	f := newPurchaseFixture(t, 10)
	pkg := f.addPackage(500, 25000, 20)

	resp, err := f.service.PurchasePackage(context.Background(), f.userID.String(), domain.PurchasePackageRequest{
		CoinPackageID:    pkg.ID.String(),
		PaidAmount:       25000, // list price, not the discounted final price
		PayReferenceCode: "MT-12345",
	})
	require.Error(t, err)
	assert.Nil(t, resp)

	var mismatchErr *domain.AmountMismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, 20000, mismatchErr.RequiredAmount)
	assert.Equal(t, 25000, mismatchErr.PaidAmount)

	assert.Equal(t, 10, f.walletCoins())
	assert.Equal(t, 0, f.ledgerLen())
}

func TestPurchasePackageNotFound(t *testing.T) {
	f := newPurchaseFixture(t, 10)

	_, err := f.service.PurchasePackage(context.Background(), f.userID.String(), domain.PurchasePackageRequest{
		CoinPackageID:    uuid.NewString(),
		PaidAmount:       100,
		PayReferenceCode: "MT-1",
	})
	assert.ErrorIs(t, err, domain.ErrCoinPackageNotFound)
}

func TestPurchasePackageInactive(t *testing.T) {
	f := newPurchaseFixture(t, 10)
	pkg := f.addPackage(500, 25000, 0)
	pkg.IsActive = false

	_, err := f.service.PurchasePackage(context.Background(), f.userID.String(), domain.PurchasePackageRequest{
		CoinPackageID:    pkg.ID.String(),
		PaidAmount:       25000,
		PayReferenceCode: "MT-1",
	})
	assert.ErrorIs(t, err, domain.ErrCoinPackageUnavailable)
}

func TestPurchasePackageWalletNotFound(t *testing.T) {
	f := newPurchaseFixture(t, 10)
	pkg := f.addPackage(500, 25000, 0)

	_, err := f.service.PurchasePackage(context.Background(), uuid.NewString(), domain.PurchasePackageRequest{
		CoinPackageID:    pkg.ID.String(),
		PaidAmount:       25000,
		PayReferenceCode: "MT-1",
	})
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestSettlePackagePayment(t *testing.T) {
	f := newPurchaseFixture(t, 10)
	pkg := f.addPackage(500, 25000, 20)
	order := f.addOrder(pkg, f.userID, 20000)

	resp, err := f.service.SettlePackagePayment(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, string(entities.TransactionPurchasePackage), resp.Type)
	assert.Equal(t, 500, resp.Coins)
	assert.Equal(t, 510, resp.CoinsAfter)
	assert.Equal(t, 20000, resp.PaidAmount)
	assert.Contains(t, resp.Description, order.OrderID)

	assert.Equal(t, 510, f.walletCoins())
	assert.Equal(t, 1, f.ledgerLen())
	assert.Equal(t, entities.PaymentOrderPaid, f.store.orders[order.OrderID].Status)
}

// A notification delivered twice must credit exactly once: the second
// settlement loses the claim on the order and leaves the ledger alone.
func TestSettlePackagePaymentReplay(t *testing.T) {
	f := newPurchaseFixture(t, 10)
	pkg := f.addPackage(500, 25000, 0)
	order := f.addOrder(pkg, f.userID, 25000)

	_, err := f.service.SettlePackagePayment(context.Background(), order)
	require.NoError(t, err)

	_, err = f.service.SettlePackagePayment(context.Background(), order)
	assert.ErrorIs(t, err, domain.ErrPaymentOrderSettled)

	assert.Equal(t, 510, f.walletCoins())
	assert.Equal(t, 1, f.ledgerLen())
}

func TestSettlePackagePaymentConcurrentDeliveries(t *testing.T) {
	const deliveries = 5

	f := newPurchaseFixture(t, 0)
	pkg := f.addPackage(500, 25000, 0)
	order := f.addOrder(pkg, f.userID, 25000)

	var wg sync.WaitGroup
	errs := make([]error, deliveries)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.SettlePackagePayment(context.Background(), order)
		}(i)
	}
	wg.Wait()

	settled := 0
	for _, err := range errs {
		if err == nil {
			settled++
		} else {
			assert.ErrorIs(t, err, domain.ErrPaymentOrderSettled)
		}
	}

	assert.Equal(t, 1, settled)
	assert.Equal(t, 500, f.walletCoins())
	assert.Equal(t, 1, f.ledgerLen())
}

// If anything fails after the claim, the claim must roll back with the rest
// of the transaction so the gateway's retry can settle the order.
func TestSettlePackagePaymentFailureReleasesClaim(t *testing.T) {
	f := newPurchaseFixture(t, 0)
	pkg := f.addPackage(500, 25000, 0)
	order := f.addOrder(pkg, uuid.New(), 25000) // user without a wallet

	_, err := f.service.SettlePackagePayment(context.Background(), order)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	assert.Equal(t, entities.PaymentOrderPending, f.store.orders[order.OrderID].Status)
	assert.Equal(t, 0, f.ledgerLen())
}
