package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validate is configured once and only read afterwards.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v
}

func decimalValue(v reflect.Value) interface{} {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.InexactFloat64()
}

// Deserialize replaces the product's fields with the ones in a JSON body.
// The id is only copied when the body carries one.
func (p *Product) Deserialize(body []byte) error {
	payload, err := DecodePayload(body)
	if err != nil {
		return err
	}

	if payload.ID != nil {
		p.ID = *payload.ID
	}
	p.Name = *payload.Name
	p.Stock = *payload.Stock
	p.Price = *payload.Price
	p.Description = *payload.Description
	p.Category = *payload.Category
	return nil
}

// DecodePayload decodes and validates a product request body.
func DecodePayload(body []byte) (*ProductPayload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, badDataError()
	}

	payload := &ProductPayload{}
	fields := []struct {
		name   string
		target interface{}
	}{
		{"name", &payload.Name},
		{"stock", &payload.Stock},
		{"price", &payload.Price},
		{"description", &payload.Description},
		{"category", &payload.Category},
	}

	if value, ok := raw["id"]; ok {
		// a malformed id counts as absent
		if err := json.Unmarshal(value, &payload.ID); err != nil {
			payload.ID = nil
		}
	}

	var invalid []string
	for _, f := range fields {
		value, ok := raw[f.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, f.target); err != nil {
			invalid = append(invalid, f.name)
		}
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Fields: invalid, Reason: "invalid"}
	}

	if err := validate.Struct(payload); err != nil {
		return nil, toValidationError(err)
	}

	price := *payload.Price
	if !price.Equal(price.Round(2)) || price.GreaterThanOrEqual(MaxPrice) {
		return nil, &ValidationError{Fields: []string{"price"}, Reason: "out of range"}
	}
	return payload, nil
}

func toValidationError(err error) *ValidationError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return badDataError()
	}

	var missing, negative, tooLong []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			missing = append(missing, e.Field())
		case "gte":
			negative = append(negative, e.Field())
		case "max":
			tooLong = append(tooLong, e.Field())
		}
	}

	switch {
	case len(missing) > 0:
		return &ValidationError{Fields: missing, Reason: "missing"}
	case len(negative) > 0:
		return &ValidationError{Fields: negative, Reason: "negative"}
	case len(tooLong) > 0:
		return &ValidationError{Fields: tooLong, Reason: "too long"}
	default:
		return badDataError()
	}
}
