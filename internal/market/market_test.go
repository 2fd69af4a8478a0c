// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/internal/platform/sec"
)

/*
TestValidateOTP checks the phone/code pair rules.
*/
func TestValidateOTP(t *testing.T) {
	assert.NoError(t, market.ValidateOTP("+255700000000", "123456"))
	assert.Error(t, market.ValidateOTP("+255700000000", "12345"))
	assert.Error(t, market.ValidateOTP("0700000000", "123456"))
}

/*
TestRegisterInput_Validate rejects unknown roles.
*/
func TestRegisterInput_Validate(t *testing.T) {
	valid := market.RegisterInput{FullName: "Neema Mushi", PhoneNumber: "+255712000111", Role: sec.RoleTransporter}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.Role = "admin"
	err := invalid.Validate()
	require.Error(t, err)
	assert.Equal(t, market.FieldRole, apperr.As(err).Details[0].Field)
}

/*
TestPlaceOrderInput_Validate accumulates per-line failures.
*/
func TestPlaceOrderInput_Validate(t *testing.T) {
	err := market.PlaceOrderInput{
		AddressID: "",
		Items: []market.OrderLineInput{
			{ProductID: "tilapia", Quantity: 0},
		},
	}.Validate()

	require.Error(t, err)
	assert.Len(t, apperr.As(err).Details, 2)

	assert.Error(t, market.PlaceOrderInput{AddressID: "addr-1"}.Validate())
}
