// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the authentication state machine.

A session moves through three phases:

	Anonymous ──RequestLogin/Register──▶ OtpPending ──VerifyOTP──▶ Authenticated
	    ▲                                                              │
	    └──────────────────────── Logout / Expire ─────────────────────┘

Loading and Error are orthogonal to the phase. Remote failures never escape
the store as panics; they are recorded as a display string and also returned
to the caller.

The bearer token is written to the key-value cache through a [Vault] on
successful verification and removed on logout or expiry.
*/
package session

import (
	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/constants"
)

// Phase is the coarse state of a session.
type Phase string

const (
	PhaseAnonymous     Phase = "anonymous"
	PhaseOTPPending    Phase = "otp_pending"
	PhaseAuthenticated Phase = "authenticated"
)

// State is the session slice. Loading and Error are transient and never persisted.
type State struct {
	UserID             string       `json:"userId,omitempty"`
	User               *market.User `json:"user,omitempty"`
	Token              string       `json:"token,omitempty"`
	IsAuthenticated    bool         `json:"isAuthenticated"`
	PendingPhoneNumber string       `json:"pendingPhoneNumber,omitempty"`
	OTPSent            bool         `json:"otpSent"`

	Loading bool   `json:"-"`
	Error   string `json:"-"`
}

// Phase derives the coarse state.
func (s State) Phase() Phase {
	switch {
	case s.IsAuthenticated:
		return PhaseAuthenticated
	case s.PendingPhoneNumber != "":
		return PhaseOTPPending
	default:
		return PhaseAnonymous
	}
}

// Dashboard returns the landing route for the signed-in role, or the login
// route when anonymous.
func (s State) Dashboard() string {
	if !s.IsAuthenticated {
		return constants.LoginRoute
	}
	if s.User == nil {
		return "/"
	}
	return s.User.Role.Dashboard()
}

// normalise restores the invariant
//
//	IsAuthenticated ⇒ Token ≠ "" ∧ PendingPhoneNumber == ""
//
// An authenticated state without a token collapses to Anonymous; a pending
// phone left over on an authenticated state is dropped.
func (s State) normalise() State {
	if s.IsAuthenticated && s.Token == "" {
		return State{Loading: s.Loading, Error: s.Error}
	}

	if s.IsAuthenticated {
		s.PendingPhoneNumber = ""
		s.OTPSent = false
	}

	if !s.IsAuthenticated {
		s.Token = ""
		s.User = nil
		s.UserID = ""
		s.OTPSent = s.OTPSent && s.PendingPhoneNumber != ""
	}

	if s.User != nil && s.UserID == "" {
		s.UserID = s.User.ID
	}

	return s
}
