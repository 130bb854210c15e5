package models

import (
	"errors"
	"strings"
)

var (
	// ErrProductNotFound is returned when no row matches the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductSoldOut is returned when a buy would take stock below zero.
	ErrProductSoldOut = errors.New("product is sold out")
)

// ValidationError reports a request body that cannot become a Product.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Invalid product: " + e.Reason
	}
	return "Invalid product: " + e.Reason + " " + strings.Join(e.Fields, ", ")
}

func badDataError() *ValidationError {
	return &ValidationError{Reason: "body of request contained bad or no data"}
}
