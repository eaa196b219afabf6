package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	appErrors "github.com/unclebandit/customer-api/internal/errors"
	"github.com/unclebandit/customer-api/internal/model"
)

const (
	MsgAllFieldsRequired        = "All fields are required"
	MsgAllAddressFieldsRequired = "All address fields are required"
	MsgPhoneTooShort            = "Phone number must be at least 10 digits"
)

var validate = validator.New()

// validateFields runs the struct tags on v. A missing field wins over any other
// failure and is reported as requiredMsg.
func validateFields(v any, requiredMsg string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.NewValidation(err.Error())
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return appErrors.NewValidation(requiredMsg)
		}
	}
	for _, fe := range verrs {
		if fe.Field() == "PhoneNumber" && fe.Tag() == "min" {
			return appErrors.NewValidation(MsgPhoneTooShort)
		}
	}
	return appErrors.NewValidation(verrs[0].Error())
}

func validateCustomer(f model.CustomerFields) error {
	return validateFields(f, MsgAllFieldsRequired)
}

func validateAddress(f model.AddressFields) error {
	return validateFields(f, MsgAllAddressFieldsRequired)
}
