// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/internal/platform/constants"
	"github.com/taibuivan/bahari/internal/platform/kv"
	"github.com/taibuivan/bahari/internal/platform/sec"
)

// ErrInvalidCode rejects a one-time code.
var ErrInvalidCode = apperr.ValidationError("Invalid or expired code",
	apperr.FieldError{Field: market.FieldOTP, Message: "Invalid or expired code"})

// otpKeyPrefix namespaces pending codes inside the shared key-value cache.
const otpKeyPrefix = constants.StorageNamespace + "sandbox:otp:"

type otpRecord struct {
	Hash      string `json:"hash"`
	ExpiresAt int64  `json:"expires_at"`
}

// OTPStore keeps one pending code per phone number, hashed with bcrypt.
type OTPStore struct {
	store kv.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewOTPStore builds a code store over store.
func NewOTPStore(store kv.Store, ttl time.Duration, now func() time.Time) *OTPStore {
	if now == nil {
		now = time.Now
	}
	return &OTPStore{store: store, ttl: ttl, now: now}
}

// Issue replaces any pending code for phoneNumber.
func (s *OTPStore) Issue(ctx context.Context, phoneNumber, code string) error {
	hash, err := sec.HashSecret(code)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(otpRecord{Hash: hash, ExpiresAt: s.now().Add(s.ttl).Unix()})
	if err != nil {
		return fmt.Errorf("otp_encode_failed: %w", err)
	}

	if err := s.store.Set(ctx, otpKeyPrefix+phoneNumber, string(payload)); err != nil {
		return fmt.Errorf("otp_store_failed: %w", err)
	}
	return nil
}

/*
Consume checks code against the pending one and removes it on success.

Returns:
  - error: ErrInvalidCode when no code is pending, it expired or it does not match

A rejected code is a 400 on the otp field, never a 401.
*/
func (s *OTPStore) Consume(ctx context.Context, phoneNumber, code string) error {
	key := otpKeyPrefix + phoneNumber

	value, found, err := s.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("otp_read_failed: %w", err)
	}
	if !found {
		return ErrInvalidCode
	}

	var record otpRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		_ = s.store.Remove(ctx, key)
		return ErrInvalidCode
	}

	if s.now().Unix() >= record.ExpiresAt {
		_ = s.store.Remove(ctx, key)
		return ErrInvalidCode
	}

	if !sec.CheckSecretHash(code, record.Hash) {
		return ErrInvalidCode
	}

	if err := s.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("otp_consume_failed: %w", err)
	}
	return nil
}
