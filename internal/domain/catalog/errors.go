package catalog

import "errors"

var (
	// ErrProductNotFound is returned when a product ID is not in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct is returned when the catalog definition lists the
	// same product ID twice.
	ErrDuplicateProduct = errors.New("duplicate product id")
)
