package services

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/kasir/app/models"
)

// TaxRate is the sales tax applied on top of every order subtotal.
var TaxRate = decimal.RequireFromString("0.05")

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Price returns the tax and the tax-inclusive total for a subtotal in
// minor units. The total is rounded half away from zero, which for
// non-negative subtotals is half-up.
func Price(subtotal int64) (tax, total int64) {
	total = gross(decimal.NewFromInt(subtotal)).IntPart()
	return total - subtotal, total
}

// amountsFit reports whether the lines' subtotal and its tax-inclusive total
// can be stored as int64 minor units.
func amountsFit(items []models.TransactionItem) bool {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromInt(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return !gross(subtotal).GreaterThan(maxAmount)
}

func gross(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(1).Add(TaxRate)).Round(0)
}
