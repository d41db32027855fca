package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/collection"
	"github.com/shashiranjanraj/kasir/pkg/event"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/validate"
)

// MaxQuantity caps the quantity of a single cart line, matching the
// CartLine validation tag.
const MaxQuantity = 1_000_000

// CartLine is one requested product and quantity.
type CartLine struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity"  validate:"required,gte=1,lte=1000000"`
}

// OrderInput is a checkout request.
type OrderInput struct {
	Items       []CartLine `json:"items"       validate:"required,dive"`
	PaymentType string     `json:"paymentType" validate:"required,in=cash debit credit qris"`
}

// OrderCreated is the payload of event.OrderCreated.
type OrderCreated struct {
	Order   models.Transaction
	Skipped []uint
}

// TransactionService prices carts and records orders.
type TransactionService struct {
	store  repositories.Store
	events *event.Dispatcher
	policy string
}

// NewTransactionService builds the service. policy is one of the
// config.UnknownProducts* values.
func NewTransactionService(store repositories.Store, events *event.Dispatcher, policy string) *TransactionService {
	if policy != config.UnknownProductsSkip {
		policy = config.UnknownProductsReject
	}
	return &TransactionService{store: store, events: events, policy: policy}
}

// CreateOrder prices the cart against current product prices and writes the
// header and its lines in one database transaction.
//
// Unknown or inactive products either fail the order with an
// *UnknownProductsError or, under the skip policy, are left out of both the
// total and the stored lines. Each cart entry becomes its own line, so a
// product listed twice is charged twice.
func (s *TransactionService) CreateOrder(ctx context.Context, accountID uint, in OrderInput) (models.Transaction, error) {
	if len(in.Items) == 0 {
		return models.Transaction{}, ErrEmptyCart
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Transaction{}, errs
	}

	var (
		order   models.Transaction
		skipped []uint
	)
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		ids := collection.Unique(collection.Map(in.Items, func(l CartLine) uint { return l.ProductID }))
		products, err := tx.Products().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		active := collection.Filter(products, func(p models.Product) bool { return p.IsActive })
		byID := collection.KeyBy(active, func(p models.Product) uint { return p.ID })

		missing := map[uint]bool{}
		items := make([]models.TransactionItem, 0, len(in.Items))
		for _, line := range in.Items {
			p, ok := byID[line.ProductID]
			if !ok {
				missing[line.ProductID] = true
				continue
			}
			items = append(items, models.TransactionItem{ProductID: p.ID, Quantity: line.Quantity, UnitPrice: p.Price})
		}
		if !amountsFit(items) {
			return validate.Errors{"items": "The order total is too large."}
		}
		subtotal := collection.SumBy(items, models.TransactionItem.LineTotal)

		if len(missing) > 0 {
			if s.policy == config.UnknownProductsReject {
				return &UnknownProductsError{IDs: collection.SortedKeys(missing)}
			}
			skipped = collection.SortedKeys(missing)
		}
		if len(items) == 0 {
			return &UnknownProductsError{IDs: collection.SortedKeys(missing)}
		}

		tax, total := Price(subtotal)
		order = models.Transaction{
			AccountID:   accountID,
			Subtotal:    subtotal,
			Tax:         tax,
			TotalPrice:  total,
			PaymentType: in.PaymentType,
			Items:       items,
		}
		return tx.Transactions().Create(ctx, &order)
	})
	if err != nil {
		var (
			unknown *UnknownProductsError
			errs    validate.Errors
		)
		if !errors.As(err, &unknown) && !errors.As(err, &errs) {
			logger.WithCtx(ctx).Error("order: create failed", "account_id", accountID, "error", err)
		}
		return models.Transaction{}, fmt.Errorf("create order: %w", err)
	}

	if len(skipped) > 0 {
		logger.WithCtx(ctx).Warn("order: skipped unknown products", "transaction_id", order.ID, "product_ids", skipped)
	}
	s.events.Fire(ctx, event.OrderCreated, OrderCreated{Order: order, Skipped: skipped})
	return order, nil
}

// ListOrders returns every order when accountID is nil, otherwise only the
// orders placed by that account. Newest first, lines and products loaded.
func (s *TransactionService) ListOrders(ctx context.Context, accountID *uint) ([]models.Transaction, error) {
	orders, err := s.store.Transactions().List(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
