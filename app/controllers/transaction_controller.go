package controllers

import (
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
)

const transactionFailed = "Transaction failed"

type TransactionController struct {
	orders *services.TransactionService
}

func NewTransactionController(orders *services.TransactionService) *TransactionController {
	return &TransactionController{orders: orders}
}

// Store records the caller's checkout.
func (tc *TransactionController) Store(c *ctx.Context) {
	var in services.OrderInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := tc.orders.CreateOrder(c.Context(), c.AccountID(), in)
	if err != nil {
		fail(c, transactionFailed, err)
		return
	}
	c.Created("Transaction recorded", order)
}

// Index lists every order.
func (tc *TransactionController) Index(c *ctx.Context) {
	tc.list(c, nil)
}

// Mine lists the caller's own orders.
func (tc *TransactionController) Mine(c *ctx.Context) {
	id := c.AccountID()
	tc.list(c, &id)
}

func (tc *TransactionController) list(c *ctx.Context, accountID *uint) {
	orders, err := tc.orders.ListOrders(c.Context(), accountID)
	if err != nil {
		fail(c, "Could not load transactions", err)
		return
	}
	c.OK("Transactions", orders)
}
