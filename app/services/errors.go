package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/kasir/app/repositories"
)

var (
	// ErrInvalidCredentials covers both an unknown identity and a wrong
	// password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnknownProducts = errors.New("unknown products")
	ErrProductLocked   = errors.New("product is referenced by an order")
	ErrCategoryInUse   = errors.New("category still has products")
	ErrUnknownCategory = errors.New("category does not exist")

	ErrNotFound  = repositories.ErrNotFound
	ErrDuplicate = repositories.ErrDuplicate
)

// UnknownProductsError names the cart product ids that are missing or
// inactive. It matches ErrUnknownProducts with errors.Is.
type UnknownProductsError struct {
	IDs []uint
}

func (e *UnknownProductsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("unknown products: %s", strings.Join(ids, ", "))
}

func (e *UnknownProductsError) Is(target error) bool { return target == ErrUnknownProducts }
