package kernel

import (
	"context"

	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/event"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/metrics"
)

func registerListeners(events *event.Dispatcher) {
	events.Listen(event.OrderCreated, func(c context.Context, payload interface{}) {
		created, ok := payload.(services.OrderCreated)
		if !ok {
			return
		}
		o := created.Order
		metrics.RecordOrder(o.PaymentType, o.TotalPrice)
		logger.WithCtx(c).Info("order created",
			"transaction_id", o.ID,
			"account_id", o.AccountID,
			"lines", len(o.Items),
			"total", o.TotalPrice,
			"payment_type", o.PaymentType,
		)
	})

	events.Listen(event.LoginSucceeded, func(c context.Context, payload interface{}) {
		metrics.RecordLogin(true)
		if attempt, ok := payload.(services.LoginAttempt); ok {
			logger.WithCtx(c).Info("login succeeded", "account_id", attempt.AccountID)
		}
	})

	events.Listen(event.LoginFailed, func(c context.Context, payload interface{}) {
		metrics.RecordLogin(false)
		if attempt, ok := payload.(services.LoginAttempt); ok {
			logger.WithCtx(c).Warn("login failed", "identity", attempt.Identity)
		}
	})
}
