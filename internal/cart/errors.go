package cart

import "errors"

var (
	ErrOutOfStock       = errors.New("requested quantity exceeds available stock")
	ErrVariantRequired  = errors.New("product has variants but none is selected")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrLineNotFound     = errors.New("cart line not found")
	ErrSnapshotNotSaved = errors.New("cart snapshot could not be saved")
)
