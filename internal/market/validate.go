// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package market

import (
	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/validate"
)

// # Input Rules
//
// The storefront runs these before calling the API, and the sandbox runs the
// same rules on arrival.

// ValidatePhone checks a login phone number.
func ValidatePhone(phoneNumber string) error {
	return (&validate.Validator{}).
		Required(FieldPhoneNumber, phoneNumber).
		Phone(FieldPhoneNumber, phoneNumber).
		Err()
}

// ValidateOTP checks a phone number and one-time code pair.
func ValidateOTP(phoneNumber, code string) error {
	return (&validate.Validator{}).
		Phone(FieldPhoneNumber, phoneNumber).
		Digits(FieldOTP, code, constants.OTPLength).
		Err()
}

// Validate checks a registration request.
func (input RegisterInput) Validate() error {
	return (&validate.Validator{}).
		Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, 120).
		Phone(FieldPhoneNumber, input.PhoneNumber).
		Custom(FieldRole, !input.Role.Valid(), "Must be one of: customer, seller, transporter").
		Err()
}

// Validate checks an address payload.
func (input AddressInput) Validate() error {
	return (&validate.Validator{}).
		Required(FieldLabel, input.Label).
		MaxLen(FieldLabel, input.Label, 40).
		Required(FieldRecipient, input.Recipient).
		Phone(FieldPhoneNumber, input.PhoneNumber).
		Required(FieldRegion, input.Region).
		Required(FieldCity, input.City).
		Required(FieldStreet, input.Street).
		Err()
}

// Validate checks a checkout request.
func (input PlaceOrderInput) Validate() error {
	v := &validate.Validator{}
	v.Required(FieldAddressID, input.AddressID).
		Custom(FieldItems, len(input.Items) == 0, "Cart is empty")

	for _, item := range input.Items {
		v.Required(FieldProductID, item.ProductID).
			Positive(FieldQuantity, item.Quantity)
	}

	return v.Err()
}
