package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate = newValidator()

	minLoanAmount = decimal.NewFromInt(1000)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateApplicationInput checks an application payload before anything is
// loaded or written.
func validateApplicationInput(in models.ApplicationInput) error {
	fields := map[string]string{}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
	}

	if in.LoanAmount.LessThan(minLoanAmount) {
		fields["loan_amount"] = "must be at least 1000"
	}
	if in.AnnualIncome.IsNegative() {
		fields["annual_income"] = "cannot be negative"
	}
	if in.MonthlyExpenses.IsNegative() {
		fields["monthly_expenses"] = "cannot be negative"
	}
	if in.ExistingDebts.IsNegative() {
		fields["existing_debts"] = "cannot be negative"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "numeric":
		return "must contain digits only"
	case "len":
		return fmt.Sprintf("must be %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}
