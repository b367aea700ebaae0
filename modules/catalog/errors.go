package catalog

import "errors"

var (
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProductID is returned for ids below 1.
	ErrInvalidProductID = errors.New("invalid product id")
	// ErrInvalidGender is returned when gender is not men, women or unisex.
	ErrInvalidGender = errors.New("gender must be men, women or unisex")
	// ErrInvalidPrice is returned for a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrInvalidStock is returned for a negative stock level.
	ErrInvalidStock = errors.New("stock must not be negative")
)
