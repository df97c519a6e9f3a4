package impl

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
	"github.com/tupatil-17/easy-shop/internal/payment"
)

type memoryProducts struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
}

func newMemoryProducts(products ...*domain.Product) *memoryProducts {
	m := &memoryProducts{products: make(map[uuid.UUID]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memoryProducts) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memoryProducts) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (m *memoryProducts) Create(ctx context.Context, prod *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prod.ID == uuid.Nil {
		prod.ID = uuid.New()
	}
	copied := *prod
	m.products[prod.ID] = &copied
	return nil
}

func (m *memoryProducts) ListByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryProducts) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryProducts) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "name":
			p.Name = value.(string)
		case "description":
			p.Description = value.(string)
		case "category":
			p.Category = value.(string)
		case "price":
			p.Price = value.(float64)
		case "stock":
			p.Stock = value.(int)
		}
	}
	return nil
}

func (m *memoryProducts) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memoryProducts) SetStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

type memoryOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *memoryOrders) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *memoryOrders) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *memoryOrders) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memoryOrders) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.Status != domain.OrderPending {
		return false, nil
	}
	o.Status = domain.OrderPaid
	return true, nil
}

type fakeUsers struct {
	mu           sync.Mutex
	clearedCarts []uuid.UUID
	email        string
}

func (f *fakeUsers) ClearCart(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearedCarts = append(f.clearedCarts, userID)
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return &domain.User{ID: id, Email: f.email}, nil
}

// fakeGateway hands out intents and reports whatever status the test set.
type fakeGateway struct {
	mu      sync.Mutex
	status  string
	intents map[string]*payment.Intent
	created int
}

func newFakeGateway(status string) *fakeGateway {
	return &fakeGateway{status: status, intents: make(map[string]*payment.Intent)}
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created++
	intent := &payment.Intent{
		ID:           fmt.Sprintf("pi_%d", g.created),
		ClientSecret: fmt.Sprintf("pi_%d_secret", g.created),
		Amount:       amount,
		Currency:     currency,
		Status:       "requires_payment_method",
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *fakeGateway) RetrieveIntent(ctx context.Context, id string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *intent
	copied.Status = g.status
	return &copied, nil
}

type recordingCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys...)
	return nil
}

type orderFixture struct {
	svc      *OrderServiceImpl
	products *memoryProducts
	orders   *memoryOrders
	users    *fakeUsers
	gateway  *fakeGateway
	cache    *recordingCache
	mail     *recordingMail
}

func newOrderFixture(gatewayStatus string, products ...*domain.Product) *orderFixture {
	f := &orderFixture{
		products: newMemoryProducts(products...),
		orders:   newMemoryOrders(),
		users:    &fakeUsers{email: "buyer@example.com"},
		gateway:  newFakeGateway(gatewayStatus),
		cache:    &recordingCache{},
		mail:     &recordingMail{},
	}
	f.svc = NewOrderServiceImpl(f.products, f.orders, f.users, f.gateway, f.cache, f.mail, "inr", nil)
	return f
}

func approvedProduct(price float64, stock int) *domain.Product {
	return &domain.Product{
		ID:     uuid.New(),
		Name:   "soap",
		Price:  price,
		Stock:  stock,
		Status: domain.ProductApproved,
	}
}

func validShipping() dto.ShippingAddress {
	return dto.ShippingAddress{
		FullName: "Asha Patil",
		Phone:    "9876543210",
		Address:  "12 MG Road, Pune, Maharashtra",
		Pincode:  "411001",
	}
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(payment.StatusSucceeded)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		ShippingAddress: validShipping(),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, f.gateway.created, "no intent for invalid requests")
}

func TestCreateOrderProductNotSellable(t *testing.T) {
	pendingProd := approvedProduct(10, 5)
	pendingProd.Status = domain.ProductPending
	f := newOrderFixture(payment.StatusSucceeded, pendingProd)

	req := dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: pendingProd.ID.String(), Quantity: 1}},
		ShippingAddress: validShipping(),
	}
	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), req)
	require.ErrorIs(t, err, domain.ErrProductUnavailable)

	req.Items[0].ProductID = uuid.NewString() // unknown id
	_, err = f.svc.CreateOrder(context.Background(), uuid.New(), req)
	require.ErrorIs(t, err, domain.ErrProductUnavailable)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	prod := approvedProduct(10, 2)
	f := newOrderFixture(payment.StatusSucceeded, prod)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: prod.ID.String(), Quantity: 3}},
		ShippingAddress: validShipping(),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, f.gateway.created)
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	soap := approvedProduct(19.99, 10)
	brush := approvedProduct(5.50, 10)
	f := newOrderFixture(payment.StatusSucceeded, soap, brush)
	userID := uuid.New()

	res, err := f.svc.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: soap.ID.String(), Quantity: 2},
			{ProductID: brush.ID.String(), Quantity: 1},
		},
		ShippingAddress: validShipping(),
	})
	require.NoError(t, err)
	assert.InDelta(t, 45.48, res.TotalAmount, 1e-9)
	assert.NotEmpty(t, res.ClientSecret)

	orderID, err := uuid.Parse(res.OrderID)
	require.NoError(t, err)
	order, err := f.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, userID, order.UserID)
	assert.NotEmpty(t, order.PaymentRef)

	// The gateway sees minor units.
	intent := f.gateway.intents[order.PaymentRef]
	require.NotNil(t, intent)
	assert.Equal(t, int64(4548), intent.Amount)
	assert.Equal(t, "inr", intent.Currency)

	// Creation only checks stock, it does not reserve.
	current, _ := f.products.GetByID(context.Background(), soap.ID)
	assert.Equal(t, 10, current.Stock)
}

func createPendingOrder(t *testing.T, f *orderFixture, userID uuid.UUID, productID string, qty int) dto.CreateOrderResponse {
	t.Helper()
	res, err := f.svc.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: productID, Quantity: qty}},
		ShippingAddress: validShipping(),
	})
	require.NoError(t, err)
	return *res
}

func TestConfirmOrderRejectsForeignPaymentRef(t *testing.T) {
	prod := approvedProduct(10, 5)
	f := newOrderFixture(payment.StatusSucceeded, prod)
	res := createPendingOrder(t, f, uuid.New(), prod.ID.String(), 1)

	// A succeeded intent that belongs to some other order must not settle
	// this one.
	other, err := f.gateway.CreateIntent(context.Background(), 100, "inr", nil)
	require.NoError(t, err)

	_, err = f.svc.ConfirmOrder(context.Background(), dto.ConfirmOrderRequest{
		OrderID:    res.OrderID,
		PaymentRef: other.ID,
	})
	require.ErrorIs(t, err, domain.ErrPaymentIncomplete)
}

func TestConfirmOrderRequiresSucceededIntent(t *testing.T) {
	prod := approvedProduct(10, 5)
	f := newOrderFixture("requires_payment_method", prod)
	res := createPendingOrder(t, f, uuid.New(), prod.ID.String(), 1)

	orderID, _ := uuid.Parse(res.OrderID)
	order, _ := f.orders.GetByID(context.Background(), orderID)

	_, err := f.svc.ConfirmOrder(context.Background(), dto.ConfirmOrderRequest{
		OrderID:    res.OrderID,
		PaymentRef: order.PaymentRef,
	})
	require.ErrorIs(t, err, domain.ErrPaymentIncomplete)

	// Still pending and still confirmable later.
	order, _ = f.orders.GetByID(context.Background(), orderID)
	assert.Equal(t, domain.OrderPending, order.Status)
}

func TestConfirmOrderSettles(t *testing.T) {
	prod := approvedProduct(10, 5)
	f := newOrderFixture(payment.StatusSucceeded, prod)
	userID := uuid.New()
	res := createPendingOrder(t, f, userID, prod.ID.String(), 2)

	orderID, _ := uuid.Parse(res.OrderID)
	pending, _ := f.orders.GetByID(context.Background(), orderID)

	order, err := f.svc.ConfirmOrder(context.Background(), dto.ConfirmOrderRequest{
		OrderID:    res.OrderID,
		PaymentRef: pending.PaymentRef,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, order.Status)

	current, _ := f.products.GetByID(context.Background(), prod.ID)
	assert.Equal(t, 3, current.Stock)
	assert.Equal(t, []uuid.UUID{userID}, f.users.clearedCarts)
	assert.Len(t, f.cache.deleted, 1)
	assert.Equal(t, 1, f.mail.count(), "receipt queued")
}

func TestConfirmOrderReplayIsNoOp(t *testing.T) {
	prod := approvedProduct(10, 5)
	f := newOrderFixture(payment.StatusSucceeded, prod)
	userID := uuid.New()
	res := createPendingOrder(t, f, userID, prod.ID.String(), 2)

	orderID, _ := uuid.Parse(res.OrderID)
	pending, _ := f.orders.GetByID(context.Background(), orderID)
	req := dto.ConfirmOrderRequest{OrderID: res.OrderID, PaymentRef: pending.PaymentRef}

	_, err := f.svc.ConfirmOrder(context.Background(), req)
	require.NoError(t, err)
	order, err := f.svc.ConfirmOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, order.Status)

	// Side effects ran exactly once.
	current, _ := f.products.GetByID(context.Background(), prod.ID)
	assert.Equal(t, 3, current.Stock)
	assert.Len(t, f.users.clearedCarts, 1)
	assert.Equal(t, 1, f.mail.count())
}

func TestConcurrentDecrementNeverGoesNegative(t *testing.T) {
	prod := approvedProduct(10, 5)
	products := newMemoryProducts(prod)

	const buyers = 20
	var wg sync.WaitGroup
	succeeded := make(chan struct{}, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := products.DecrementStock(context.Background(), prod.ID, 1); err == nil {
				succeeded <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	wins := 0
	for range succeeded {
		wins++
	}
	assert.Equal(t, 5, wins, "exactly the available stock is sold")
	current, _ := products.GetByID(context.Background(), prod.ID)
	assert.Equal(t, 0, current.Stock)
}

func TestListOrders(t *testing.T) {
	prod := approvedProduct(10, 5)
	f := newOrderFixture(payment.StatusSucceeded, prod)
	userID := uuid.New()
	createPendingOrder(t, f, userID, prod.ID.String(), 1)
	createPendingOrder(t, f, uuid.New(), prod.ID.String(), 1)

	orders, err := f.svc.ListOrders(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
