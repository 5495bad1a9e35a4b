package core

import "errors"

var (
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	ErrEmptyCart            = errors.New("cart is empty")
)
