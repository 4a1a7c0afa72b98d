package service

import (
	"context"
	"errors"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/gateway/mercadopago"
	"github.com/RoyceAzure/lab/storefront/internal/infra/hook"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
)

// in-memory fakes, 只實作測試會走到的路徑

type fakeProductRepo struct {
	products map[uint]model.Product
}

func newFakeProductRepo(products ...model.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uint]model.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, db.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeProductRepo) GetProductsByIDs(ctx context.Context, productIDs []uint) ([]model.Product, error) {
	var found []model.Product
	for _, id := range productIDs {
		if p, ok := f.products[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

func (f *fakeProductRepo) GetActiveProducts(ctx context.Context) ([]model.Product, error) {
	var active []model.Product
	for _, p := range f.products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (f *fakeProductRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var all []model.Product
	for _, p := range f.products {
		all = append(all, p)
	}
	return all, nil
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return db.ErrProductNotFound
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) UpdateProductSpecs(ctx context.Context, productID uint, specs model.SpecDoc) error {
	p, ok := f.products[productID]
	if !ok {
		return db.ErrProductNotFound
	}
	p.Specs = specs
	f.products[productID] = p
	return nil
}

func (f *fakeProductRepo) ArchiveProduct(ctx context.Context, productID uint) error {
	p, ok := f.products[productID]
	if !ok {
		return db.ErrProductNotFound
	}
	p.IsActive = false
	f.products[productID] = p
	return nil
}

func (f *fakeProductRepo) HardDeleteProduct(ctx context.Context, productID uint) error {
	if _, ok := f.products[productID]; !ok {
		return db.ErrProductNotFound
	}
	delete(f.products, productID)
	return nil
}

type fakeCategoryRepo struct {
	categories map[uint]model.Category
	nextID     uint
}

func (f *fakeCategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	for _, existing := range f.categories {
		if existing.Name == category.Name {
			return db.ErrCategoryNameTaken
		}
	}
	f.nextID++
	category.ID = f.nextID
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) GetCategoryByID(ctx context.Context, categoryID uint) (*model.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return nil, db.ErrCategoryNotFound
	}
	return &c, nil
}

func (f *fakeCategoryRepo) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	var all []model.Category
	for _, c := range f.categories {
		all = append(all, c)
	}
	return all, nil
}

func (f *fakeCategoryRepo) UpdateCategory(ctx context.Context, category *model.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return db.ErrCategoryNotFound
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) DeleteCategory(ctx context.Context, categoryID uint) error {
	if _, ok := f.categories[categoryID]; !ok {
		return db.ErrCategoryNotFound
	}
	delete(f.categories, categoryID)
	return nil
}

type fakeUserRepo struct {
	users map[uint]model.User
}

func newFakeUserRepo(users ...model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]model.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return db.ErrEmailTaken
		}
	}
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (f *fakeUserRepo) GetAllUsers(ctx context.Context) ([]model.User, error) {
	var all []model.User
	for _, u := range f.users {
		all = append(all, u)
	}
	return all, nil
}

func (f *fakeUserRepo) UpdateUserDetails(ctx context.Context, userID uint, firstName, lastName string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	f.users[userID] = u
	return &u, nil
}

func (f *fakeUserRepo) UpdateUserPassword(ctx context.Context, userID uint, hashedPassword string) error {
	u, ok := f.users[userID]
	if !ok {
		return db.ErrUserNotFound
	}
	u.Password = hashedPassword
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) DeactivateUser(ctx context.Context, userID uint) error {
	u, ok := f.users[userID]
	if !ok {
		return db.ErrUserNotFound
	}
	u.IsActive = false
	f.users[userID] = u
	return nil
}

// fakeOrderRepo 模擬CreateOrderTx的庫存檢查與payment id冪等行為
type fakeOrderRepo struct {
	mu       sync.Mutex
	products *fakeProductRepo
	orders   []model.Order
	nextID   uint

	createErr error // 設定後CreateOrderTx直接回傳此錯誤
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{products: products, nextID: 1}
}

func (f *fakeOrderRepo) CreateOrderTx(ctx context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	if order.PaymentGatewayID != nil {
		for _, existing := range f.orders {
			if existing.PaymentGatewayID != nil && *existing.PaymentGatewayID == *order.PaymentGatewayID {
				return db.ErrDuplicatePayment
			}
		}
	}

	for _, item := range order.OrderItems {
		p, ok := f.products.products[item.ProductID]
		if !ok {
			return db.ErrProductNotFound
		}
		if int(p.Stock) < item.Quantity {
			return &db.InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: item.Quantity,
			}
		}
	}
	for _, item := range order.OrderItems {
		p := f.products.products[item.ProductID]
		p.Stock -= uint(item.Quantity)
		f.products.products[item.ProductID] = p
	}

	order.ID = f.nextID
	f.nextID++
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, db.ErrOrderNotFound
}

func (f *fakeOrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []model.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetAllOrdersWithUser(ctx context.Context) ([]db.OrderWithUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []db.OrderWithUser
	for _, o := range f.orders {
		orders = append(orders, db.OrderWithUser{Order: o})
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetOrderByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.PaymentGatewayID != nil && *o.PaymentGatewayID == paymentID {
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = status
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, db.ErrOrderNotFound
}

type fakeGateway struct {
	preference    *mercadopago.PreferenceResponse
	preferenceErr error
	lastRequest   *mercadopago.PreferenceRequest

	payments   map[string]*mercadopago.Payment
	paymentErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		preference: &mercadopago.PreferenceResponse{
			ID:        "pref-1",
			InitPoint: "https://gateway.test/init/pref-1",
		},
		payments: make(map[string]*mercadopago.Payment),
	}
}

func (f *fakeGateway) CreatePreference(ctx context.Context, req *mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error) {
	f.lastRequest = req
	if f.preferenceErr != nil {
		return nil, f.preferenceErr
	}
	return f.preference, nil
}

func (f *fakeGateway) GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	p, ok := f.payments[paymentID]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return p, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	summaries []*hook.OrderSummary
	notified  chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{notified: make(chan struct{}, 10)}
}

func (f *fakeNotifier) NotifyOrderCreated(ctx context.Context, summary *hook.OrderSummary) {
	f.mu.Lock()
	f.summaries = append(f.summaries, summary)
	f.mu.Unlock()
	f.notified <- struct{}{}
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.summaries)
}

var (
	_ db.IProductRepository  = (*fakeProductRepo)(nil)
	_ db.ICategoryRepository = (*fakeCategoryRepo)(nil)
	_ db.IUserRepository     = (*fakeUserRepo)(nil)
	_ db.IOrderRepository    = (*fakeOrderRepo)(nil)
	_ mercadopago.IClient    = (*fakeGateway)(nil)
	_ hook.INotifier         = (*fakeNotifier)(nil)
)
