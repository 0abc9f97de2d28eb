package utils

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	"github.com/arclabs/arcflow/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("eth_addr_hex", validateAddressTag)
}

func validateAddressTag(fl validator.FieldLevel) bool {
	return common.IsHexAddress(fl.Field().String())
}

// ValidateStruct runs struct-tag validation over a form and maps the first
// failure to a local validation error. Nothing reaches the network when this
// fails.
func ValidateStruct(form interface{}) error {
	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if ok := AsValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			f := verrs[0]
			return types.NewError(types.ErrCodeValidation,
				fmt.Sprintf("field %s failed %s validation", f.Field(), f.Tag()), nil)
		}
		return types.NewError(types.ErrCodeValidation, "invalid form input", err)
	}
	return nil
}

// AsValidationErrors unwraps validator.ValidationErrors from err.
func AsValidationErrors(err error, target *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = v
	return true
}

// ValidateAddress checks a user-entered recipient address.
func ValidateAddress(address string) error {
	if address == "" {
		return types.NewError(types.ErrCodeValidation, "address is required", nil)
	}
	if !common.IsHexAddress(address) {
		return types.NewError(types.ErrCodeValidation,
			fmt.Sprintf("%q is not a valid address", address), nil)
	}
	return nil
}
