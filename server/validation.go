package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/core"
)

type locationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type searchRequest struct {
	SearchTerm string   `json:"searchTerm" validate:"required"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// location returns the request coordinates when both are present.
func (r *searchRequest) location() *core.Location {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &core.Location{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type questionRequest struct {
	Question            string       `json:"question" validate:"required"`
	ConversationHistory []ai.Message `json:"conversation_history" validate:"omitempty,max=50,dive"`
}

// requestValidator wraps the go-playground validator.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

// check validates s and returns the first failure in user-facing form.
func (v *requestValidator) check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	e := validationErrs[0]
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "gte":
		return fmt.Errorf("%s must be greater than or equal to %s", field, e.Param())
	case "lte":
		return fmt.Errorf("%s must be less than or equal to %s", field, e.Param())
	case "max":
		return fmt.Errorf("%s must have at most %s entries", field, e.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
