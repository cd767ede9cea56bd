package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/labtrack/internal/domain/models"
)

// stockRequest is the payload of the add command.
type stockRequest struct {
	Name     string `validate:"nonblank"`
	Category string `validate:"nonblank"`
	Quantity int    `validate:"gt=0"`
}

// transactionRequest is the payload of borrow, return and damage.
type transactionRequest struct {
	Name     string `validate:"nonblank"`
	User     string `validate:"nonblank"`
	Quantity int    `validate:"gt=0"`
	Date     string `validate:"nonblank,labdate"`
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := v.RegisterValidation("nonblank", isNonBlank); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("labdate", isLabDate); err != nil {
		return nil, err
	}
	return v, nil
}

func isNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isLabDate accepts YYYY-MM-DD with coarse range checks only.
func isLabDate(fl validator.FieldLevel) bool {
	return models.ValidateDate(fl.Field().String()) == nil
}

// validationError turns validator output into a models.ErrValidation with a
// message an operator can act on.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "nonblank":
		return fmt.Errorf("%w: %s cannot be empty", models.ErrValidation, strings.ToLower(fe.Field()))
	case "gt":
		return fmt.Errorf("%w: %s must be positive", models.ErrValidation, strings.ToLower(fe.Field()))
	case "labdate":
		// reuse the precise reason from the domain check
		return models.ValidateDate(fmt.Sprint(fe.Value()))
	default:
		return fmt.Errorf("%w: %s failed %s", models.ErrValidation, strings.ToLower(fe.Field()), fe.Tag())
	}
}
