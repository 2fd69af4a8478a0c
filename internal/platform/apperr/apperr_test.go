// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bahari/internal/platform/apperr"
)

/*
TestDisplayMessage checks how errors are reduced to UI strings.
*/
func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil_error", nil, ""},
		{"app_error", apperr.Unauthorized("Invalid code"), "Invalid code"},
		{"wrapped_app_error", fmt.Errorf("remote_call_failed: %w", apperr.NotFound("Product")), "Product not found"},
		{"validation_detail", apperr.ValidationError("Validation failed", apperr.FieldError{Field: "phone_number", Message: "Must be a valid phone number"}), "phone_number: Must be a valid phone number"},
		{"plain_error", errors.New("dial tcp: refused"), "fallback"},
		{"cancelled", context.Canceled, "fallback"},
		{"network", apperr.Network(errors.New("dial tcp: refused")), "Unable to reach the server. Check your connection and try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apperr.DisplayMessage(tt.err, "fallback"))
		})
	}
}

/*
TestHasStatus verifies status matching through wrapped chains.
*/
func TestHasStatus(t *testing.T) {
	err := fmt.Errorf("profile_fetch_failed: %w", apperr.FromStatus(http.StatusBadGateway, nil))

	assert.True(t, apperr.HasStatus(err, http.StatusBadGateway))
	assert.False(t, apperr.HasStatus(err, http.StatusUnauthorized))
	assert.False(t, apperr.HasStatus(errors.New("plain"), http.StatusBadGateway))
	assert.Equal(t, "Bad Gateway", apperr.As(err).Message)
}
