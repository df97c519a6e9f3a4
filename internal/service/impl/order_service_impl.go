package impl

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/tupatil-17/easy-shop/internal/cache"
	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
	"github.com/tupatil-17/easy-shop/internal/events"
	"github.com/tupatil-17/easy-shop/internal/notify"
	"github.com/tupatil-17/easy-shop/internal/observability/metrics"
	"github.com/tupatil-17/easy-shop/internal/payment"
)

type productStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}

type orderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
}

type cartClearer interface {
	ClearCart(ctx context.Context, userID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type productCache interface {
	Delete(ctx context.Context, keys ...string) error
}

type OrderServiceImpl struct {
	products productStore
	orders   orderStore
	users    cartClearer
	gateway  payment.Gateway
	cache    productCache
	mail     mailDispatcher
	currency string
	logger   *slog.Logger
}

func NewOrderServiceImpl(products productStore, orders orderStore, users cartClearer, gateway payment.Gateway, cache productCache, mail mailDispatcher, currency string, logger *slog.Logger) *OrderServiceImpl {
	if currency == "" {
		currency = "inr"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderServiceImpl{
		products: products,
		orders:   orders,
		users:    users,
		gateway:  gateway,
		cache:    cache,
		mail:     mail,
		currency: currency,
		logger:   logger,
	}
}

func (o *OrderServiceImpl) CreateOrder(ctx context.Context, userID domain.UserID, r dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if err := r.Validate(); err != nil {
		metrics.OrdersCreatedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	// Snapshot each line against the live catalog. Stock is checked but
	// not reserved; the authoritative decrement happens at confirmation.
	items := make([]domain.OrderItem, 0, len(r.Items))
	var total float64
	for _, line := range r.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			metrics.OrdersCreatedTotal.WithLabelValues("invalid").Inc()
			return nil, domain.Invalid("invalid product id")
		}
		product, err := o.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				metrics.OrdersCreatedTotal.WithLabelValues("denied").Inc()
				return nil, domain.ErrProductUnavailable
			}
			metrics.OrdersCreatedTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		if product.Status != domain.ProductApproved {
			metrics.OrdersCreatedTotal.WithLabelValues("denied").Inc()
			return nil, domain.ErrProductUnavailable
		}
		if product.Stock < line.Quantity {
			metrics.OrdersCreatedTotal.WithLabelValues("denied").Inc()
			return nil, domain.ErrInsufficientStock
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
		total += product.Price * float64(line.Quantity)
	}

	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Items:       items,
		ShipName:    r.ShippingAddress.FullName,
		ShipPhone:   r.ShippingAddress.Phone,
		ShipAddress: r.ShippingAddress.Address,
		ShipPincode: r.ShippingAddress.Pincode,
		TotalAmount: total,
		Status:      domain.OrderPending,
	}

	intent, err := o.gateway.CreateIntent(ctx, minorUnits(total), o.currency, map[string]string{
		"order_id": order.ID.String(),
		"user_id":  userID.String(),
	})
	if err != nil {
		metrics.OrdersCreatedTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	order.PaymentRef = intent.ID

	if err := o.orders.Create(ctx, order); err != nil {
		metrics.OrdersCreatedTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.OrdersCreatedTotal.WithLabelValues("success").Inc()
	o.logger.Info("order created", "order_id", order.ID, "user_id", userID, "total", total)
	return &dto.CreateOrderResponse{
		ClientSecret: intent.ClientSecret,
		OrderID:      order.ID.String(),
		TotalAmount:  total,
	}, nil
}

func (o *OrderServiceImpl) ConfirmOrder(ctx context.Context, r dto.ConfirmOrderRequest) (*domain.Order, error) {
	if err := r.Validate(); err != nil {
		metrics.PaymentsConfirmedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	orderID, err := uuid.Parse(r.OrderID)
	if err != nil {
		metrics.PaymentsConfirmedTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrNotFound
	}

	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		metrics.PaymentsConfirmedTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	// Retries of an already-settled confirmation are no-ops: side effects
	// ran exactly once when the pending -> paid transition won.
	if order.Status != domain.OrderPending {
		metrics.PaymentsConfirmedTotal.WithLabelValues("replay").Inc()
		return order, nil
	}
	if order.PaymentRef != r.PaymentRef {
		metrics.PaymentsConfirmedTotal.WithLabelValues("denied").Inc()
		return nil, domain.ErrPaymentIncomplete
	}

	// The gateway is the only authority on whether money moved.
	intent, err := o.gateway.RetrieveIntent(ctx, r.PaymentRef)
	if err != nil {
		metrics.PaymentsConfirmedTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if intent.Status != payment.StatusSucceeded {
		metrics.PaymentsConfirmedTotal.WithLabelValues("denied").Inc()
		return nil, domain.ErrPaymentIncomplete
	}

	won, err := o.orders.MarkPaid(ctx, orderID)
	if err != nil {
		metrics.PaymentsConfirmedTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !won {
		// A concurrent confirmation got there first; hand back its result.
		metrics.PaymentsConfirmedTotal.WithLabelValues("replay").Inc()
		return o.orders.GetByID(ctx, orderID)
	}
	order.Status = domain.OrderPaid

	o.settleInventory(ctx, order)

	if err := o.users.ClearCart(ctx, order.UserID); err != nil {
		o.logger.Error("cart clear failed after payment", "order_id", order.ID, "error", err)
	}
	o.sendReceipt(ctx, order)

	metrics.PaymentsConfirmedTotal.WithLabelValues("success").Inc()
	o.logger.Info("order paid", "order_id", order.ID, "user_id", order.UserID, "total", order.TotalAmount)
	return order, nil
}

func (o *OrderServiceImpl) ListOrders(ctx context.Context, userID domain.UserID) ([]domain.Order, error) {
	return o.orders.ListByUser(ctx, userID)
}

// settleInventory decrements stock for every paid line. Payment is already
// captured, so a line that raced out of stock is logged and counted rather
// than failing the confirmation; it needs an operator to resolve.
func (o *OrderServiceImpl) settleInventory(ctx context.Context, order *domain.Order) {
	keys := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		if err := o.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				metrics.StockShortfallsTotal.WithLabelValues().Inc()
				o.logger.Error("stock shortfall on paid order",
					"order_id", order.ID, "product_id", item.ProductID, "quantity", item.Quantity)
			} else {
				o.logger.Error("stock decrement failed",
					"order_id", order.ID, "product_id", item.ProductID, "error", err)
			}
			continue
		}
		keys = append(keys, cache.ProductKey(item.ProductID.String()))
	}
	if err := o.cache.Delete(ctx, keys...); err != nil {
		o.logger.Warn("product cache invalidation failed", "order_id", order.ID, "error", err)
	}
}

func (o *OrderServiceImpl) sendReceipt(ctx context.Context, order *domain.Order) {
	user, err := o.users.GetByID(ctx, order.UserID)
	if err != nil {
		o.logger.Warn("receipt skipped, user lookup failed", "order_id", order.ID, "error", err)
		return
	}
	evt := events.OrderPaid{
		OrderID: order.ID.String(),
		UserID:  order.UserID.String(),
		Total:   order.TotalAmount,
		At:      time.Now().UTC(),
	}
	if err := o.mail.Dispatch(ctx, notify.ReceiptMessage(evt, user.Email)); err != nil {
		o.logger.Warn("receipt mail not queued", "order_id", order.ID, "error", err)
	}
}

// minorUnits converts a catalog price to the gateway's integer unit
// (paise). Rounding guards against float drift like 19.99*100 = 1998.99…
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
