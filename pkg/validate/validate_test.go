package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kasir/pkg/validate"
)

type cartLine struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity"  validate:"required,gte=1"`
}

type checkout struct {
	Items       []cartLine `json:"items"       validate:"required,dive"`
	PaymentType string     `json:"paymentType" validate:"required,in=cash debit credit qris"`
}

type registration struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	Email     string `json:"email"     validate:"required,email"`
	Username  string `json:"username"  validate:"required,alpha_dash,min=3,max=30"`
	Phone     string `json:"phone"     validate:"nullable,max=20,regex=^[0-9+ -]+$"`
	Password  string `json:"password"  validate:"required,min=8"`
}

func TestValidCheckout(t *testing.T) {
	errs := validate.Struct(checkout{
		Items:       []cartLine{{ProductID: 1, Quantity: 2}},
		PaymentType: "qris",
	})
	assert.Empty(t, errs)
}

func TestCheckoutFailures(t *testing.T) {
	errs := validate.Struct(&checkout{
		Items:       []cartLine{{ProductID: 1, Quantity: 1}, {ProductID: 0, Quantity: -2}},
		PaymentType: "voucher",
	})

	assert.Equal(t, validate.Errors{
		"items.1.productId": "The items.1.productId field is required.",
		"items.1.quantity":  "The items.1.quantity must be greater than or equal to 1.",
		"paymentType":       "The selected paymentType is invalid.",
	}, errs)
	assert.Contains(t, errs.Error(), "items.1.productId, items.1.quantity, paymentType")
}

func TestNegativeQuantityIsBelowMinimum(t *testing.T) {
	errs := validate.Struct(cartLine{ProductID: 1, Quantity: -1})
	assert.Equal(t, "The quantity must be greater than or equal to 1.", errs["quantity"])
}

func TestEmptyCartIsRequired(t *testing.T) {
	errs := validate.Struct(checkout{PaymentType: "cash"})
	assert.Contains(t, errs, "items")
}

func TestRegistrationRules(t *testing.T) {
	ok := registration{
		FirstName: "Alice",
		Email:     "alice@example.com",
		Username:  "alice_01",
		Password:  "s3cret-pass",
	}
	assert.Empty(t, validate.Struct(ok))

	bad := ok
	bad.Email = "alice"
	bad.Username = "al ice"
	bad.Password = "short"
	errs := validate.Struct(bad)

	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "phone")
}

func TestMaxBytesCountsBytesNotRunes(t *testing.T) {
	type secret struct {
		Password string `json:"password" validate:"max_bytes=72"`
	}
	assert.Empty(t, validate.Struct(secret{Password: strings.Repeat("a", 72)}))
	assert.Empty(t, validate.Struct(secret{Password: strings.Repeat("€", 24)}))

	errs := validate.Struct(secret{Password: strings.Repeat("€", 25)})
	assert.Equal(t, "The password must not exceed 72 bytes.", errs["password"])
}

func TestFormTagNames(t *testing.T) {
	type productForm struct {
		Name  string `form:"name"  validate:"required"`
		Price int64  `form:"price" validate:"gte=0"`
	}
	errs := validate.Struct(productForm{Price: -1})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "price")
}
