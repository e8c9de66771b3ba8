package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// Default and maximum number of results returned by a search.
const (
	DefaultTopK = 3
	MaxTopK     = 10
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SearchRequest is a hotel-scoped document search.
type SearchRequest struct {
	HotelID       string   `json:"hotel_id" validate:"required"`
	Query         string   `json:"query" validate:"required"`
	DocumentTypes []string `json:"document_types,omitempty" validate:"omitempty,dive,oneof=contract invoice menu policy procedure manual other"`
	TopK          int      `json:"top_k,omitempty"`
}

// Validate checks required fields and clamps TopK into [1, maxTopK], using
// defaultTopK when unset. Non-positive bounds fall back to DefaultTopK and MaxTopK.
func (r *SearchRequest) Validate(defaultTopK, maxTopK int) error {
	if strings.TrimSpace(r.Query) == "" {
		r.Query = ""
	}
	if err := validateStruct(r); err != nil {
		return err
	}
	if maxTopK <= 0 {
		maxTopK = MaxTopK
	}
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	if r.TopK == 0 {
		r.TopK = defaultTopK
	}
	r.TopK = max(1, min(r.TopK, maxTopK))
	return nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}
