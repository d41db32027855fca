package models

import "time"

// Payment types accepted at checkout.
const (
	PaymentCash   = "cash"
	PaymentDebit  = "debit"
	PaymentCredit = "credit"
	PaymentQRIS   = "qris"
)

// PaymentTypes lists every accepted payment type.
var PaymentTypes = []string{PaymentCash, PaymentDebit, PaymentCredit, PaymentQRIS}

// Transaction is an order header. Amounts are in minor currency units and
// TotalPrice already includes tax. Rows are never updated after insert.
type Transaction struct {
	ID          uint              `gorm:"primaryKey"              json:"id"`
	AccountID   uint              `gorm:"not null;index"          json:"accountId"`
	Subtotal    int64             `gorm:"not null"                json:"subtotal"`
	Tax         int64             `gorm:"not null"                json:"tax"`
	TotalPrice  int64             `gorm:"not null"                json:"totalPrice"`
	PaymentType string            `gorm:"size:20;not null"        json:"paymentType"`
	CreatedAt   time.Time         `gorm:"index"                   json:"createdAt"`
	Account     *Account          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"account,omitempty"`
	Items       []TransactionItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"  json:"items,omitempty"`
}

// TransactionItem is one priced cart line of a Transaction.
type TransactionItem struct {
	ID            uint      `gorm:"primaryKey"     json:"id"`
	TransactionID uint      `gorm:"not null;index" json:"transactionId"`
	ProductID     uint      `gorm:"not null;index" json:"productId"`
	Quantity      int       `gorm:"not null"       json:"quantity"`
	UnitPrice     int64     `gorm:"not null"       json:"unitPrice"`
	CreatedAt     time.Time `json:"createdAt"`
	Product       *Product  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
}

// LineTotal is UnitPrice × Quantity.
func (i TransactionItem) LineTotal() int64 { return i.UnitPrice * int64(i.Quantity) }
